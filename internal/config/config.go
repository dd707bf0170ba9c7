package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

// Config holds the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
	Export   ExportConfig   `mapstructure:"export"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines logging behavior. The TUI owns the terminal, so
// logs always go to File.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type UIConfig struct {
	// Locale overrides the stored locale when set.
	Locale           string        `mapstructure:"locale"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	DefaultDimension string        `mapstructure:"default_dimension"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Dimension returns the parsed default chart dimension.
func (c UIConfig) Dimension() trends.Dimension {
	d, err := trends.ParseDimension(c.DefaultDimension)
	if err != nil {
		return trends.Weekly
	}
	return d
}

// Dir returns the directory holding the default config, database and log.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pomotrend"), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "pomotrend.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// Load loads configuration from file and environment variables. A missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("POMOTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}

	v.SetDefault("database.path", filepath.Join(dir, "pomotrend.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", filepath.Join(dir, "pomotrend.log"))

	v.SetDefault("ui.locale", "")
	v.SetDefault("ui.refresh_interval", "200ms")
	v.SetDefault("ui.default_dimension", string(trends.Weekly))

	v.SetDefault("export.dir", ".")
}

func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", cfg.Logging.Format)
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if cfg.UI.RefreshInterval < 50*time.Millisecond || cfg.UI.RefreshInterval > 5*time.Second {
		return fmt.Errorf("refresh interval out of range [50ms, 5s]: %s", cfg.UI.RefreshInterval)
	}
	if _, err := trends.ParseDimension(cfg.UI.DefaultDimension); err != nil {
		return err
	}
	if cfg.UI.Locale != "" {
		cfg.UI.Locale = string(locale.Normalize(cfg.UI.Locale))
	}

	return nil
}
