// Package config loads and validates sweep configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config mirrors the configuration file layout. YAML is a superset of
// JSON, so both .yaml and .json files load with the same parser.
type Config struct {
	API struct {
		AccessKey string `yaml:"access_key" validate:"required"`
		SecretKey string `yaml:"secret_key" validate:"required"`
		BaseURL   string `yaml:"base_url"`
	} `yaml:"api"`

	Document struct {
		DocumentID  string `yaml:"document_id" validate:"required,len=24,alphanum"`
		WorkspaceID string `yaml:"workspace_id" validate:"required,len=24,alphanum"`
		ElementID   string `yaml:"element_id" validate:"required,len=24,alphanum"`
	} `yaml:"document"`

	Variable struct {
		Name  string  `yaml:"name" validate:"required"`
		Start float64 `yaml:"start_value"`
		End   float64 `yaml:"end_value"`
		Step  float64 `yaml:"step_size" validate:"required"` // required rejects a zero step
	} `yaml:"variable"`

	Export struct {
		OutputFolder string   `yaml:"output_folder" validate:"required"`
		Formats      []string `yaml:"formats" validate:"min=1,dive,oneof=STEP PARASOLID"`
		PartIDs      []string `yaml:"part_ids"`
	} `yaml:"export"`

	Timing struct {
		DelaySeconds             float64 `yaml:"delay_between_iterations" validate:"gte=0"`
		ExportTimeoutSeconds     float64 `yaml:"export_timeout" validate:"gte=0"`
		RegenerationPauseSeconds float64 `yaml:"regeneration_pause" validate:"gte=0"`
	} `yaml:"timing"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}
