package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.DiscoveryTimeout())
	assert.Equal(t, ZonePlayerURN, cfg.Discovery.SearchTarget)
	assert.Equal(t, 10*time.Second, cfg.ControlTimeout())
	assert.Equal(t, 4, cfg.Control.Concurrency)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFindsXDGConfig(t *testing.T) {
	home := t.TempDir()
	xdg := filepath.Join(home, "xdg")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	writeFile(t, filepath.Join(xdg, "sonosync", "config.toml"), `
[discovery]
timeout = 2

[log]
level = "debug"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Discovery.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadPrefersRCFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	writeFile(t, filepath.Join(home, ".sonosyncrc"), "[control]\nconcurrency = 1\n")
	writeFile(t, filepath.Join(home, ".config", "sonosync", "config.toml"), "[control]\nconcurrency = 8\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Control.Concurrency)
}

func TestLoadFromAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[discovery]
timeout = 3

[control]
timeout = 7
`)
	t.Setenv("SONOSYNC_DISCOVERY_TIMEOUT", "9")
	t.Setenv("SONOSYNC_CONTROL_CONCURRENCY", "2")
	t.Setenv("SONOSYNC_LOG_FORMAT", "json")
	t.Setenv("SONOSYNC_LOG_FILE", "/tmp/sonosync.log")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Discovery.Timeout)
	assert.Equal(t, 7, cfg.Control.Timeout)
	assert.Equal(t, 2, cfg.Control.Concurrency)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/sonosync.log", cfg.Log.File)
}

func TestLoadFromIgnoresMalformedNumericEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[discovery]\ntimeout = 3\n")
	t.Setenv("SONOSYNC_DISCOVERY_TIMEOUT", "soon")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Discovery.Timeout)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[discovery\ntimeout = ")

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "negative discovery timeout",
			mutate:  func(c *Config) { c.Discovery.Timeout = -1 },
			wantErr: "discovery: timeout must be non-negative",
		},
		{
			name:    "bad search target",
			mutate:  func(c *Config) { c.Discovery.SearchTarget = "ZonePlayer" },
			wantErr: "invalid search_target",
		},
		{
			name:   "ssdp all search target",
			mutate: func(c *Config) { c.Discovery.SearchTarget = "ssdp:all" },
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Control.Concurrency = -2 },
			wantErr: "control: concurrency must be non-negative",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "invalid log level: loud",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "invalid log format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateJoinsSectionErrors(t *testing.T) {
	cfg := Default()
	cfg.Control.Timeout = -1
	cfg.Log.Level = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control:")
	assert.Contains(t, err.Error(), "log:")
}
