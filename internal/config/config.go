// Package config provides configuration management for onnxcut.
//
// Config file locations (priority order):
//  1. $ONNXCUT_CONFIG
//  2. ./onnxcut.yaml
//  3. $XDG_CONFIG_HOME/onnxcut/config.yaml
//  4. ~/.config/onnxcut/config.yaml
//  5. /etc/onnxcut/config.yaml
//
// A .env file in the working directory is loaded first, and ONNXCUT_*
// environment variables override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvLogLevel   = "ONNXCUT_LOG_LEVEL"
	EnvLogFormat  = "ONNXCUT_LOG_FORMAT"
	EnvJournal    = "ONNXCUT_JOURNAL"
	EnvSkipVerify = "ONNXCUT_SKIP_VERIFY"
)

// DefaultJournalPath is where the edit journal lives when enabled without a path
const DefaultJournalPath = "./onnxcut.db"

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("load .env: %w", err)
	}

	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.finish(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the configuration used when no file is found
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Log:     LogConfig{Level: "info", Format: "text"},
		Journal: JournalConfig{Path: DefaultJournalPath},
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) finish() error {
	c.applyDefaults()
	if err := c.applyEnv(); err != nil {
		return err
	}
	return c.Validate()
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = DefaultJournalPath
	}
}

// applyEnv overrides file values with ONNXCUT_* variables
func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvJournal)); v != "" {
		c.Journal.Enabled = true
		c.Journal.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSkipVerify)); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSkipVerify, err)
		}
		c.Verify.Skip = skip
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	journal := "disabled"
	if c.Journal.Enabled {
		journal = c.Journal.Path
	}
	return fmt.Sprintf("Log: %s/%s, Verify: %t, Journal: %s",
		c.Log.Level, c.Log.Format, !c.Verify.Skip, journal)
}
