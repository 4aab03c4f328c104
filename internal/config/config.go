// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dpe-envelope/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains calculation engine settings
	Engine EngineConfig `json:"engine"`

	// Tables contains reference table settings
	Tables TablesConfig `json:"tables"`

	// Batch contains batch processing settings
	Batch BatchConfig `json:"batch"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains calculation engine settings
type EngineConfig struct {
	// LegacyCompat reproduces the reference engine's quirks, including
	// method overrides and the period-substitution fallback
	LegacyCompat bool `json:"legacy_compat"`

	// Precision is the number of decimal places printed by the CLI
	Precision int32 `json:"precision"`
}

// TablesConfig contains reference table settings
type TablesConfig struct {
	// Path is the reference table file (YAML or JSON)
	Path string `json:"path"`
}

// BatchConfig contains batch processing settings
type BatchConfig struct {
	// Workers bounds how many dwellings are computed concurrently
	Workers int `json:"workers"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			LegacyCompat: true,
			Precision:    4,
		},
		Tables: TablesConfig{
			Path: filepath.Join(homeDir, ".dpe-envelope", "tables.yaml"),
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
