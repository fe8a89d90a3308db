// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP port for serve

	// LLM
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// Sessions
	SessionBackend string `json:"session_backend,omitempty"` // memory, file, postgres or redis
	SessionDir     string `json:"session_dir,omitempty"`     // Directory for the file backend
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	RedisURL       string `json:"redis_url,omitempty"`       // Redis connection URL
	SessionTTL     string `json:"session_ttl,omitempty"`     // Redis key expiry, e.g. "72h"

	// Rewriting
	RewriteConcurrency int `json:"rewrite_concurrency,omitempty"` // Parallel section rewrites

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:               8080,
		SessionBackend:     "memory",
		SessionDir:         "sessions",
		SessionTTL:         "168h",
		RewriteConcurrency: 8,
	}
}

var validBackends = map[string]bool{
	"memory":   true,
	"file":     true,
	"postgres": true,
	"redis":    true,
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the environment variables the server understands.
// Unset variables leave the field empty so file values and defaults can fill it.
func FromEnv() Config {
	var cfg Config
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.SessionBackend = os.Getenv("SESSION_BACKEND")
	cfg.SessionDir = os.Getenv("SESSION_DIR")
	cfg.SessionTTL = os.Getenv("SESSION_TTL")
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("REWRITE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RewriteConcurrency = n
		}
	}
	return cfg
}

// Load layers the environment over an optional config file over the defaults.
func Load(path string) (*Config, error) {
	fileCfg := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		fileCfg = *loaded
	}

	env := FromEnv()
	merged := env.MergeWithDefaults(fileCfg.MergeWithDefaults(Defaults()))
	merged.Verbose = fileCfg.Verbose

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RewriteConcurrency < 0 {
		return fmt.Errorf("config error: 'rewrite_concurrency' must be non-negative")
	}
	if c.SessionBackend != "" && !validBackends[c.SessionBackend] {
		return fmt.Errorf("config error: unknown session_backend %q", c.SessionBackend)
	}
	if c.SessionTTL != "" {
		if _, err := time.ParseDuration(c.SessionTTL); err != nil {
			return fmt.Errorf("config error: invalid session_ttl: %w", err)
		}
	}

	switch c.SessionBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres session backend")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis session backend")
		}
	}

	return nil
}

// TTL returns SessionTTL as a duration, zero when unset.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SessionBackend == "" {
		result.SessionBackend = defaults.SessionBackend
	}
	if result.SessionDir == "" {
		result.SessionDir = defaults.SessionDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RewriteConcurrency == 0 {
		result.RewriteConcurrency = defaults.RewriteConcurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}
