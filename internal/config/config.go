// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Region           string   `yaml:"region"`
		Format           string   `yaml:"format"`
		ConfidenceLevels string   `yaml:"confidence_levels"`
		BatchSize        int      `yaml:"batch_size"`
		StorePath        string   `yaml:"store_path"`
		Verbose          bool     `yaml:"verbose"`
		Debug            bool     `yaml:"debug"`
		NoColor          bool     `yaml:"no_color"`
		AccountTypes     []string `yaml:"account_types"`
	} `yaml:"defaults"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Region           string   `yaml:"region"`
	Format           string   `yaml:"format"`
	ConfidenceLevels string   `yaml:"confidence_levels"`
	BatchSize        int      `yaml:"batch_size"`
	Verbose          bool     `yaml:"verbose"`
	NoColor          bool     `yaml:"no_color"`
	AccountTypes     []string `yaml:"account_types"`
	Description      string   `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Region = "NG"
	config.Defaults.Format = "text"
	config.Defaults.ConfidenceLevels = "all"
	config.Defaults.BatchSize = 200
	config.Defaults.StorePath = ":memory:"

	// Quick triage profile: junk and sensitive findings only matter at
	// high confidence when cleaning in bulk.
	config.Profiles["bulk-clean"] = Profile{
		Region:           "NG",
		Format:           "text",
		ConfidenceLevels: "high,medium",
		BatchSize:        500,
		NoColor:          true,
		Description:      "Optimized for bulk cleanup runs with concise output",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the configuration file, falling back to the
// default configuration on any error.
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// ValidateConfig checks configuration values that would otherwise fail deep
// inside a scan.
func ValidateConfig(config *Config) error {
	if config.Defaults.BatchSize < 0 {
		return fmt.Errorf("defaults.batch_size must not be negative, got %d", config.Defaults.BatchSize)
	}
	for name, profile := range config.Profiles {
		if profile.BatchSize < 0 {
			return fmt.Errorf("profile %q: batch_size must not be negative, got %d", name, profile.BatchSize)
		}
	}
	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first
	for _, name := range []string{"contact-scan.yaml", "contact-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	// Check user config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(configDir, "contact-scan", "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".contact-scan.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// GetProfile returns the named profile, or false when it does not exist.
func (c *Config) GetProfile(name string) (*Profile, bool) {
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, false
	}
	return &profile, true
}

// ApplyProfile overlays a profile's non-zero settings onto the defaults.
func (c *Config) ApplyProfile(profile *Profile) {
	if profile.Region != "" {
		c.Defaults.Region = profile.Region
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.ConfidenceLevels != "" {
		c.Defaults.ConfidenceLevels = profile.ConfidenceLevels
	}
	if profile.BatchSize > 0 {
		c.Defaults.BatchSize = profile.BatchSize
	}
	if profile.Verbose {
		c.Defaults.Verbose = true
	}
	if profile.NoColor {
		c.Defaults.NoColor = true
	}
	if len(profile.AccountTypes) > 0 {
		c.Defaults.AccountTypes = profile.AccountTypes
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
