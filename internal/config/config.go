// Package config loads process configuration from defaults, an optional YAML
// file and STREAKR_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/streakr/internal/store"
)

// Config holds settings that apply before the database is open. User
// preferences edited from the TUI live in the store's settings table.
type Config struct {
	DBPath          string        `mapstructure:"db_path"`
	ChallengeWindow time.Duration `mapstructure:"challenge_window"`
	WatchInterval   time.Duration `mapstructure:"watch_interval"`
	ExportDir       string        `mapstructure:"export_dir"`
}

// Default returns the configuration used when nothing overrides it.
func Default() (*Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DBPath:          dbPath,
		ChallengeWindow: 24 * time.Hour,
		WatchInterval:   time.Minute,
		ExportDir:       home,
	}, nil
}

// DefaultPath is $XDG_CONFIG_HOME/streakr/config.yaml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "streakr", "config.yaml")
}

// Load reads path, or DefaultPath when path is empty. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	def, err := Default()
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	v := viper.New()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("challenge_window", def.ChallengeWindow)
	v.SetDefault("watch_interval", def.WatchInterval)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetEnvPrefix("STREAKR")
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil || explicit {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.ChallengeWindow <= 0 {
		errs = append(errs, fmt.Errorf("challenge_window must be positive, got %s", c.ChallengeWindow))
	}
	if c.WatchInterval <= 0 {
		errs = append(errs, fmt.Errorf("watch_interval must be positive, got %s", c.WatchInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
