// Package config handles application configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dori/tickoff/internal/db"
	"github.com/dori/tickoff/internal/logging"
	"github.com/dori/tickoff/internal/store"
	"github.com/dori/tickoff/internal/ui/theme"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	UI            UIConfig            `mapstructure:"ui"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// StorageConfig controls where the task list is kept
type StorageConfig struct {
	Path string `mapstructure:"path"` // SQLite file
	Key  string `mapstructure:"key"`  // Key the snapshot is stored under
}

// UIConfig holds user interface settings
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// NotificationsConfig holds desktop notification settings
type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: db.DefaultDBPath(),
			Key:  store.DefaultKey,
		},
		UI: UIConfig{
			Theme: theme.Nord.Name,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   logging.LevelInfo,
		},
		Notifications: NotificationsConfig{
			Enabled: false,
		},
	}
}

// DataDir returns the directory holding the database, lock and log files
func (c *Config) DataDir() string {
	return filepath.Dir(c.Storage.Path)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.path", defaults.Storage.Path)
	viper.SetDefault("storage.key", defaults.Storage.Key)
	viper.SetDefault("ui.theme", defaults.UI.Theme)
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Validate checks the configuration and returns every problem found
func (c *Config) Validate() []error {
	var errs []error

	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, fmt.Errorf("storage.path must not be empty"))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, fmt.Errorf("storage.key must not be empty"))
	}
	if _, ok := theme.ByName(c.UI.Theme); !ok {
		errs = append(errs, fmt.Errorf("ui.theme %q is not one of %s", c.UI.Theme, strings.Join(themeNames(), ", ")))
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of DEBUG, INFO, WARN, ERROR", c.Logging.Level))
	}

	return errs
}

func themeNames() []string {
	var names []string
	for _, t := range theme.Available() {
		names = append(names, t.Name)
	}
	return names
}

// ValidationErrors joins multiple validation failures into one error
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tickoff")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tickoff"
	}
	return filepath.Join(home, ".config", "tickoff")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ExpandPath expands a leading ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
