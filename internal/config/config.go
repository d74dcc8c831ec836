// Package config provides configuration for the smoke driver.
// Values resolve in order: literal default, then an optional smoke.yaml in
// the working directory, then environment variables. Empty environment
// values count as unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kuitang/modeler-smoke/internal/urlutil"
)

const (
	defaultProcessName      = "Test Process"
	defaultRestURL          = "https://api.example.com/data"
	defaultConnectorTimeout = 5 * time.Second
)

// Config holds all settings for one run. Immutable after Load.
type Config struct {
	// Target application
	BaseURL     string // CAMUNDA_URL
	Username    string // USERNAME
	Password    string // PASSWORD
	ProcessName string // PROCESS_NAME
	RestURL     string // REST_URL (outbound connector target)

	// Browser behavior
	Headless         bool          // HEADLESS
	ConnectorTimeout time.Duration // CONNECTOR_TIMEOUT (bounded wait for the connector panel)
	ArtifactsDir     string        // ARTIFACTS_DIR (empty disables failure screenshots)
}

// fileConfig mirrors Config for the optional YAML overlay. Pointer fields
// distinguish "absent" from zero values.
type fileConfig struct {
	CamundaURL       *string `yaml:"camunda_url"`
	Username         *string `yaml:"username"`
	Password         *string `yaml:"password"`
	ProcessName      *string `yaml:"process_name"`
	RestURL          *string `yaml:"rest_url"`
	Headless         *bool   `yaml:"headless"`
	ConnectorTimeout *string `yaml:"connector_timeout"`
	ArtifactsDir     *string `yaml:"artifacts_dir"`
}

// Load resolves configuration. An empty path looks for smoke.yaml or
// smoke.yml in the working directory; a missing file is not an error, but
// an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ProcessName:      defaultProcessName,
		RestURL:          defaultRestURL,
		Headless:         true,
		ConnectorTimeout: defaultConnectorTimeout,
	}

	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	if path == "" {
		for _, candidate := range []string{"smoke.yaml", "smoke.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.CamundaURL != nil {
		cfg.BaseURL = *fc.CamundaURL
	}
	if fc.Username != nil {
		cfg.Username = *fc.Username
	}
	if fc.Password != nil {
		cfg.Password = *fc.Password
	}
	if fc.ProcessName != nil {
		cfg.ProcessName = *fc.ProcessName
	}
	if fc.RestURL != nil {
		cfg.RestURL = *fc.RestURL
	}
	if fc.Headless != nil {
		cfg.Headless = *fc.Headless
	}
	if fc.ConnectorTimeout != nil {
		if parsed, err := time.ParseDuration(*fc.ConnectorTimeout); err == nil {
			cfg.ConnectorTimeout = parsed
		}
	}
	if fc.ArtifactsDir != nil {
		cfg.ArtifactsDir = *fc.ArtifactsDir
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getEnvOrDefault("CAMUNDA_URL", cfg.BaseURL)
	cfg.Username = getEnvOrDefault("USERNAME", cfg.Username)
	cfg.Password = getEnvOrDefault("PASSWORD", cfg.Password)
	cfg.ProcessName = getEnvOrDefault("PROCESS_NAME", cfg.ProcessName)
	cfg.RestURL = getEnvOrDefault("REST_URL", cfg.RestURL)
	cfg.Headless = parseBoolOrDefault("HEADLESS", cfg.Headless)
	cfg.ConnectorTimeout = parseDurationOrDefault("CONNECTOR_TIMEOUT", cfg.ConnectorTimeout)
	cfg.ArtifactsDir = getEnvOrDefault("ARTIFACTS_DIR", cfg.ArtifactsDir)
}

// LoginURL is the login form location derived from the base URL.
func (c *Config) LoginURL() string {
	return urlutil.BuildAbsolute(c.BaseURL, "/login")
}

// ModelerURL is the main workspace location.
func (c *Config) ModelerURL() string {
	return urlutil.BuildAbsolute(c.BaseURL, "")
}

// RunURL is the run view location derived from the base URL.
func (c *Config) RunURL() string {
	return urlutil.BuildAbsolute(c.BaseURL, "/run")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
