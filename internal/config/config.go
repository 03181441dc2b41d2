// Package config loads CLI configuration from an optional YAML file in the
// user config directory, overridden by TASKMAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name under the config root.
	AppName = "taskman"

	// ConfigFile is the YAML configuration filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token"
)

// Config holds application configuration.
type Config struct {
	// BaseURL is the task service root, without the /api suffix.
	BaseURL string `yaml:"base_url"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
	// OTELEnabled turns on trace export for outbound API calls.
	OTELEnabled bool `yaml:"otel_enabled"`
	// OTELEndpoint is the OTLP/HTTP collector endpoint.
	OTELEndpoint string `yaml:"otel_endpoint"`
	// TokenPath overrides the default token file location.
	TokenPath string `yaml:"token_path"`

	// Dir is the resolved config directory. Not read from the file.
	Dir string `yaml:"-"`
}

// Load reads the config file from dir (default directory when empty) and
// applies environment overrides. A missing config file is not an error.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	cfg := &Config{
		BaseURL: "http://localhost:8080",
		Dir:     dir,
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.BaseURL = getEnv("TASKMAN_BASE_URL", cfg.BaseURL)
	cfg.Debug = getEnvBool("TASKMAN_DEBUG", cfg.Debug)
	cfg.OTELEnabled = getEnvBool("TASKMAN_OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.TokenPath = getEnv("TASKMAN_TOKEN_PATH", cfg.TokenPath)

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(dir, TokenFile)
	}

	return cfg, nil
}

// DefaultDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// EnsureDir creates the config directory if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
