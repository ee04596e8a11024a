package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/inspector/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string        `yaml:"backend"`
	Database string        `yaml:"database,omitempty"`
	PageSize int           `yaml:"page_size"`
	Timezone string        `yaml:"timezone"`
	Log      configFileLog `yaml:"log"`
}

type configFileLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  "Create the configuration directory and write config.yaml with default\nvalues. The --database flag, when given, is recorded as the default database.\nAn existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			database := ""
			if a.flags.database != "" {
				if database, err = filepath.Abs(a.flags.database); err != nil {
					return err
				}
			}

			path := configFilePath(configDir)
			written, err := writeConfigIfMissing(path, database)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
			}
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether it wrote the file.
func writeConfigIfMissing(path, database string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	cfg := configFile{
		Backend:  defaultBackend,
		Database: database,
		PageSize: defaultPageSize,
		Timezone: defaultTimezone,
		Log:      configFileLog{Level: defaultLogLevel, Format: defaultLogFormat},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
