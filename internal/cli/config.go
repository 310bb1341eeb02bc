package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/sonosync/internal/config"
)

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Commands for viewing and creating the sonosync configuration file.`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after defaults and environment overrides.`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		Long:  `Create a new configuration file with default values.`,
		Args:  noArgs,
		// The file being created may not exist yet, so skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit()
		},
	})

	return cmd
}

func (a *App) runConfigShow() error {
	if a.jsonOut {
		return json.NewEncoder(a.stdout).Encode(a.cfg)
	}

	encoder := toml.NewEncoder(a.stdout)
	encoder.Indent = "  "
	return encoder.Encode(a.cfg)
}

func (a *App) runConfigInit() error {
	configPath := a.configPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# sonosync configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if a.jsonOut {
		return json.NewEncoder(a.stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Fprintf(a.stdout, "Created config file: %s\n", configPath)
	return nil
}

func (a *App) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".sonosyncrc"
	}
	return filepath.Join(home, ".sonosyncrc")
}
