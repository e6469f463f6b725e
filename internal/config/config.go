package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Pull    PullConfig    `yaml:"pull"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig contains the tracker service endpoint settings.
type ServiceConfig struct {
	BaseURL   string   `yaml:"base_url"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	Timeout   Duration `yaml:"timeout"`
}

// MirrorConfig contains local mirror database settings.
type MirrorConfig struct {
	Path string `yaml:"path"`
}

// PullConfig contains mirror pull settings.
type PullConfig struct {
	Trackers []int    `yaml:"trackers"`
	Interval Duration `yaml:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("TRACKER_CONFIG_PATH", "config/trackerctl.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Timeout: Duration(30 * time.Second),
		},
		Mirror: MirrorConfig{
			Path: "data/tracker.db",
		},
		Pull: PullConfig{
			Interval: Duration(15 * time.Minute),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Service
	if v := os.Getenv("TRACKER_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("TRACKER_ACCESS_KEY"); v != "" {
		cfg.Service.AccessKey = v
	}
	if v := os.Getenv("TRACKER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Service.Timeout = Duration(d)
		}
	}

	// Mirror
	if v := os.Getenv("TRACKER_MIRROR_PATH"); v != "" {
		cfg.Mirror.Path = v
	}

	// Pull
	if v := os.Getenv("TRACKER_PULL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pull.Interval = Duration(d)
		}
	}
	if v := os.Getenv("TRACKER_PULL_TRACKERS"); v != "" {
		if ids, err := parseIntList(v); err == nil {
			cfg.Pull.Trackers = ids
		}
	}

	// Log
	if v := os.Getenv("TRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRACKER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// parseIntList parses a comma-separated list of tracker ids.
func parseIntList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid tracker id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// validate checks that required configuration values are set.
func (c *Config) validate() error {
	if c.Service.BaseURL == "" {
		return errors.New("TRACKER_BASE_URL is required")
	}
	if c.Service.AccessKey == "" {
		return errors.New("TRACKER_ACCESS_KEY is required")
	}
	if time.Duration(c.Service.Timeout) <= 0 {
		return errors.New("service timeout must be positive")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
