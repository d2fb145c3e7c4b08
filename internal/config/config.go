// Package config loads application settings: where the configuration
// record lives, which store driver backs it, and logging defaults.
// Domain configuration (institutions, workflows) lives in the record
// itself, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store StoreConfig
	Log   LogConfig
	Rules RulesConfig
}

// StoreConfig selects the configuration-record backend.
type StoreConfig struct {
	Driver string // "yaml" or "sqlite"
	Path   string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// RulesConfig points at the categorization rule file.
type RulesConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use
// prefix BOOKMAN_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "bookman")
	v.SetDefault("store.driver", "yaml")
	v.SetDefault("store.path", filepath.Join(dataDir, "bookman.yaml"))
	v.SetDefault("log.level", "info")
	v.SetDefault("rules.path", filepath.Join(dataDir, "rules.yaml"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BOOKMAN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "bookman"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BOOKMAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config
// directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("BOOKMAN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "bookman", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.path", cfg.Store.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("rules.path", cfg.Rules.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
