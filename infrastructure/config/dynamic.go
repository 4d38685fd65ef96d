package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dynamic represents runtime-changeable configuration
type Dynamic struct {
	Limits Limits       `yaml:"limits"`
	Search SearchConfig `yaml:"search"`
}

// Limits holds application limits
type Limits struct {
	MaxCaptureLength int `yaml:"maxCaptureLength"`
	MaxImportBatch   int `yaml:"maxImportBatch"`
}

// SearchConfig holds fuzzy-match tuning
type SearchConfig struct {
	// Threshold is the minimum match score a capture must reach to be
	// included in search results
	Threshold int `yaml:"threshold"`
	// MaxResults caps the number of ranked hits returned
	MaxResults int `yaml:"maxResults"`
}

// DefaultDynamic returns the built-in dynamic configuration
func DefaultDynamic() *Dynamic {
	return &Dynamic{
		Limits: Limits{
			MaxCaptureLength: 10000,
			MaxImportBatch:   1000,
		},
		Search: SearchConfig{
			Threshold:  0,
			MaxResults: 100,
		},
	}
}

// loadDynamicFromFile loads dynamic configuration from a YAML file,
// filling unset fields from the defaults
func loadDynamicFromFile(path string) (*Dynamic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dynamic config: %w", err)
	}

	cfg := DefaultDynamic()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing dynamic config: %w", err)
	}
	if err := validateDynamic(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateDynamic(cfg *Dynamic) error {
	if cfg.Limits.MaxCaptureLength <= 0 {
		return fmt.Errorf("limits.maxCaptureLength must be positive")
	}
	if cfg.Limits.MaxImportBatch <= 0 {
		return fmt.Errorf("limits.maxImportBatch must be positive")
	}
	if cfg.Search.MaxResults <= 0 {
		return fmt.Errorf("search.maxResults must be positive")
	}
	return nil
}
