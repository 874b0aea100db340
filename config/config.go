// Package config loads the runsmith configuration from RUNSMITH_* environment
// variables, with an optional TOML file overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnvVar names an optional TOML file whose values override the
// environment.
const FileEnvVar = "RUNSMITH_CONFIG_FILE"

// ErrAPIKeyMissing is returned when tracing is enabled without a credential.
var ErrAPIKeyMissing = errors.New("config: RUNSMITH_API_KEY not set")

// Config holds the collector connection settings.
type Config struct {
	// Tracing enables transport calls. When false the SDK is a no-op.
	Tracing bool `envconfig:"TRACING" default:"false"`
	// Endpoint is the collector base URL.
	Endpoint string `envconfig:"ENDPOINT" default:"https://api.runsmith.dev"`
	// APIKey authenticates collector calls. Required when tracing is enabled.
	APIKey string `envconfig:"API_KEY"`
	// Project is the session name runs are recorded under.
	Project string `envconfig:"PROJECT"`
	// TenantID is sent as a header when present.
	TenantID string `envconfig:"TENANT_ID"`

	Logging LogConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// fileConfig mirrors the overridable subset of Config for the TOML overlay.
// Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Tracing  *bool   `toml:"tracing"`
	Endpoint *string `toml:"endpoint"`
	APIKey   *string `toml:"api_key"`
	Project  *string `toml:"project"`
	TenantID *string `toml:"tenant_id"`
}

// Load reads configuration from the environment, applies the optional file
// overlay, and validates it. Missing credentials are fatal only when tracing
// is enabled.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("RUNSMITH", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if path := os.Getenv(FileEnvVar); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if cfg.Tracing && cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	return &cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Tracing != nil {
		c.Tracing = *fc.Tracing
	}
	if fc.Endpoint != nil {
		c.Endpoint = *fc.Endpoint
	}
	if fc.APIKey != nil {
		c.APIKey = *fc.APIKey
	}
	if fc.Project != nil {
		c.Project = *fc.Project
	}
	if fc.TenantID != nil {
		c.TenantID = *fc.TenantID
	}
	return nil
}

var (
	cacheMu sync.Mutex
	cached  *Config
)

// Get returns the process-wide configuration, loading it on first use.
// Configuration depends on the environment at process start, so the result
// is cached for the life of the process.
func Get() (*Config, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached == nil {
		cfg, err := Load()
		if err != nil {
			return nil, err
		}
		cached = cfg
	}
	return cached, nil
}

// Reset clears the cached configuration. Test support only; production code
// constructs clients from an explicitly loaded Config.
func Reset() {
	cacheMu.Lock()
	cached = nil
	cacheMu.Unlock()
}
