package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Control   ControlConfig   `toml:"control"`
	Log       LogConfig       `toml:"log"`
}

// DiscoveryConfig holds speaker discovery settings.
type DiscoveryConfig struct {
	Timeout      int    `toml:"timeout"`
	SearchTarget string `toml:"search_target"`
}

// ControlConfig holds settings for control calls made to speakers.
type ControlConfig struct {
	Timeout     int `toml:"timeout"`
	Concurrency int `toml:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// DiscoveryTimeout returns the discovery budget as a duration.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Discovery.Timeout) * time.Second
}

// ControlTimeout returns the per-call control timeout as a duration.
func (c *Config) ControlTimeout() time.Duration {
	return time.Duration(c.Control.Timeout) * time.Second
}
