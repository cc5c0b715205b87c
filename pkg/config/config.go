// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Log  LogConfig  `yaml:"log"`
	HTTP HTTPConfig `yaml:"http"`

	// Search maps a search provider key ("serp", "you.com", ...) to its
	// options (api_key, base_url).
	Search ProviderConfigs `yaml:"search"`

	// Chat maps a chat provider key ("perplexity") to its options.
	Chat ProviderConfigs `yaml:"chat"`
}

// ProviderConfigs maps provider keys to string-keyed option maps.
type ProviderConfigs map[string]map[string]string

// LogConfig contains logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// HTTPConfig contains outbound HTTP client configuration
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides
	if v := os.Getenv("SEARCHSUITE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns default configuration. Provider credentials are left to
// each provider's environment variable fallback.
func Default() *Config {
	cfg := &Config{
		Log: LogConfig{Level: os.Getenv("SEARCHSUITE_LOG_LEVEL")},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.Search == nil {
		cfg.Search = ProviderConfigs{}
	}
	if cfg.Chat == nil {
		cfg.Chat = ProviderConfigs{}
	}
	// A bare "you.com:" entry decodes as nil; treat it as an empty option map.
	for _, configs := range []ProviderConfigs{cfg.Search, cfg.Chat} {
		for key, opts := range configs {
			if opts == nil {
				configs[key] = map[string]string{}
			}
		}
	}
}
