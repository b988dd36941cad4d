// Package config provides configuration loading and management for nurbsreflectance.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"nurbsreflectance/internal/models"
	"nurbsreflectance/pkg/forward"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Solver parameters
	Solver struct {
		// AnalyticFourier selects the closed-form transform for frequency-domain queries
		AnalyticFourier bool `yaml:"analyticFourier"`

		// DiscreteSamplesPerSpan is the number of time steps per knot span for the
		// numerical transform
		DiscreteSamplesPerSpan int `yaml:"discreteSamplesPerSpan"`

		// NumCores specifies how many CPU cores batch queries may use
		NumCores int `yaml:"numCores"`
	} `yaml:"solver"`

	// Reference holds the optical properties the dataset was generated with
	Reference models.OpticalProperties `yaml:"reference"`

	// Dataset parameters
	Dataset struct {
		// Dir is the directory holding realDomain.yaml and spatialFrequencyDomain.yaml
		Dir string `yaml:"dir"`
	} `yaml:"dataset"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Solver.AnalyticFourier = true
	cfg.Solver.DiscreteSamplesPerSpan = 20
	cfg.Solver.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Reference = models.ReferenceOpticalProperties()

	cfg.Dataset.Dir = "reference"

	cfg.Output.Verbose = true

	return cfg
}

// SolverParams converts the configuration into forward solver parameters.
// A nil logger selects the solver's default.
func (c *Config) SolverParams(logger forward.Logger) *forward.Params {
	return &forward.Params{
		Reference:              c.Reference,
		AnalyticFourier:        c.Solver.AnalyticFourier,
		NumCores:               c.Solver.NumCores,
		DiscreteSamplesPerSpan: c.Solver.DiscreteSamplesPerSpan,
		Logger:                 logger,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Reference.Musp <= 0 {
		return nil, fmt.Errorf("error parsing config file: reference musp must be positive, got %g", cfg.Reference.Musp)
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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

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
