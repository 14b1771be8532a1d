package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// Config holds the prompt templates used for invoice extraction.
// UserPrompt must carry two substitution verbs: one for the document text
// and one for the rendered tables.
type Config struct {
	SystemPrompt string `yaml:"system_prompt" validate:"required"`
	UserPrompt   string `yaml:"user_prompt" validate:"required"`
}

func LoadConfig(file string) (*Config, error) {
	var config *Config

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
