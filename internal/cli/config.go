package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/inspector/internal/logging"
	"github.com/mesh-intelligence/inspector/internal/paths"
	"github.com/mesh-intelligence/inspector/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys.
	cfgKeyBackend   = "backend"
	cfgKeyDatabase  = "database"
	cfgKeyPageSize  = "page_size"
	cfgKeyTimezone  = "timezone"
	cfgKeyLogLevel  = "log.level"
	cfgKeyLogFormat = "log.format"
	cfgKeyLogFile   = "log.file"

	defaultBackend   = types.BackendSQLite
	defaultPageSize  = 50
	defaultTimezone  = "UTC"
	defaultLogLevel  = logging.LevelWarn
	defaultLogFormat = logging.FormatText
)

// settings is the resolved configuration of one invocation.
type settings struct {
	Backend  string
	Database string
	PageSize int
	Timezone string
	Log      logging.Config
}

// loadSettings reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error. Log settings may also come from
// INSPECTOR_LOG_LEVEL, INSPECTOR_LOG_FORMAT and INSPECTOR_LOG_FILE.
func loadSettings(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyPageSize, defaultPageSize)
	v.SetDefault(cfgKeyTimezone, defaultTimezone)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("INSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{cfgKeyLogLevel, cfgKeyLogFormat, cfgKeyLogFile} {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := settings{
		Backend:  v.GetString(cfgKeyBackend),
		Database: v.GetString(cfgKeyDatabase),
		PageSize: v.GetInt(cfgKeyPageSize),
		Timezone: v.GetString(cfgKeyTimezone),
		Log: logging.Config{
			Level:      v.GetString(cfgKeyLogLevel),
			Format:     v.GetString(cfgKeyLogFormat),
			OutputPath: v.GetString(cfgKeyLogFile),
		},
	}
	if s.PageSize <= 0 {
		return settings{}, fmt.Errorf("%s must be positive, got %d", cfgKeyPageSize, s.PageSize)
	}
	if s.Log.OutputPath != "" && !filepath.IsAbs(s.Log.OutputPath) {
		s.Log.OutputPath = filepath.Join(configDir, s.Log.OutputPath)
	}
	return s, nil
}

// configFilePath returns the path of config.yaml inside configDir.
func configFilePath(configDir string) string {
	return filepath.Join(configDir, paths.ConfigFileName)
}
