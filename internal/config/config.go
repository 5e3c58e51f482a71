// Package config loads kbctl's YAML configuration, following the same
// default-then-override shape the teacher CLI uses for its own config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds kbctl's load-time configuration: which policy sources to
// admit, how verbosely to log, and whether validation failures should be
// treated as fatal.
type Config struct {
	Name    string        `yaml:"name"`
	Sources []string      `yaml:"sources"`
	Logging LoggingConfig `yaml:"logging"`
	Strict  bool          `yaml:"strict"`
}

// LoggingConfig controls the process-wide zap logger's verbosity.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns kbctl's baseline configuration.
func Default() *Config {
	return &Config{
		Name:   "polarkb",
		Strict: true,
	}
}

// Load reads path as YAML, falling back to Default (plus environment
// overrides) if the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets POLARKB_VERBOSE and POLARKB_STRICT override the
// file (or default) settings without editing the config on disk.
func (c *Config) applyEnvOverrides() {
	switch os.Getenv("POLARKB_VERBOSE") {
	case "1", "true":
		c.Logging.Verbose = true
	case "0", "false":
		c.Logging.Verbose = false
	}
	switch os.Getenv("POLARKB_STRICT") {
	case "1", "true":
		c.Strict = true
	case "0", "false":
		c.Strict = false
	}
}
