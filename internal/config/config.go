// Package config loads timber's settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvConfigPath = "TIMBER_CONFIG"
	EnvDB         = "TIMBER_DB"
	EnvLogLevel   = "TIMBER_LOG_LEVEL"
	EnvLogFormat  = "TIMBER_LOG_FORMAT"
)

type Config struct {
	DatabasePath string    `yaml:"database"`
	Log          LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file or env var says
// otherwise.
func Default(home string) *Config {
	return &Config{
		DatabasePath: filepath.Join(home, ".timber", "timber.db"),
		Log:          LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads $TIMBER_CONFIG (or ~/.timber/config.yaml), applies env
// overrides and validates the result. A missing file is not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	path := os.Getenv(EnvConfigPath)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".timber", "config.yaml")
	}

	cfg, err := LoadFile(path, home)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg = Default(home)
		} else {
			return nil, err
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file over the defaults. A leading "~/" in the
// database path is expanded against home.
func LoadFile(path, home string) (*Config, error) {
	// #nosec G304 -- path is chosen by the user running the tool
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default(home)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if rest, ok := strings.CutPrefix(cfg.DatabasePath, "~/"); ok {
		cfg.DatabasePath = filepath.Join(home, rest)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDB); v != "" {
		c.DatabasePath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
