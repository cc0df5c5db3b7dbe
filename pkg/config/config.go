// Package config provides configuration loading and management for hyview.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Subset selects the default image window. An end value of 0 means the
	// full extent of the image.
	Subset struct {
		StartSample int `yaml:"startSample"`
		EndSample   int `yaml:"endSample"`
		StartLine   int `yaml:"startLine"`
		EndLine     int `yaml:"endLine"`
	} `yaml:"subset"`

	// Display parameters
	Display struct {
		// ClipSigma is the number of standard deviations kept around the band mean
		ClipSigma float64 `yaml:"clipSigma"`

		// ConstantLevel is the gray level of bands with zero variance
		ConstantLevel int `yaml:"constantLevel"`

		// Width rescales exported band images; 0 keeps the native width
		Width int `yaml:"width"`
	} `yaml:"display"`

	// Export parameters
	Export struct {
		// Format is the image format for band export: png or jpeg
		Format string `yaml:"format"`

		// Quality is the JPEG quality (1-100)
		Quality int `yaml:"quality"`

		// NumCores specifies how many bands are exported concurrently
		NumCores int `yaml:"numCores"`

		// OutputDir is where band sequences are written
		OutputDir string `yaml:"outputDir"`
	} `yaml:"export"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.ClipSigma = 2.0
	cfg.Display.ConstantLevel = 128
	cfg.Display.Width = 0

	cfg.Export.Format = "png"
	cfg.Export.Quality = 90
	cfg.Export.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Export.OutputDir = "bands"

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks value ranges that the YAML decoder cannot enforce
func (c *Config) Validate() error {
	if c.Subset.StartSample < 0 || c.Subset.EndSample < 0 || c.Subset.StartLine < 0 || c.Subset.EndLine < 0 {
		return fmt.Errorf("subset bounds must be non-negative")
	}
	if c.Display.ClipSigma < 0 {
		return fmt.Errorf("clipSigma must be non-negative, got %v", c.Display.ClipSigma)
	}
	if c.Display.ConstantLevel < 0 || c.Display.ConstantLevel > 255 {
		return fmt.Errorf("constantLevel must be in 0..255, got %d", c.Display.ConstantLevel)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d", c.Display.Width)
	}
	switch strings.ToLower(c.Export.Format) {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported export format: %q", c.Export.Format)
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("quality must be in 1..100, got %d", c.Export.Quality)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
