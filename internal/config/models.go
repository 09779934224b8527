package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var defaultModels = map[string]string{
	"openai":     "gpt-4o",
	"gemini":     "gemini-1.5-pro",
	"anthropic":  "claude-3-5-sonnet-20241022",
	"openrouter": "google/gemini-2.0-flash-001",
}

func IsKnownProvider(provider string) bool {
	_, ok := defaultModels[provider]
	return ok
}

// resolveModel returns the default model for a provider, honoring
// overrides from the RELAY_MODELS_FILE yaml map when present.
func resolveModel(provider string) (string, error) {
	model := defaultModels[provider]

	path := os.Getenv("RELAY_MODELS_FILE")
	if path == "" {
		return model, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read models file: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return "", fmt.Errorf("parse models file: %w", err)
	}

	if override, ok := overrides[provider]; ok && override != "" {
		model = override
	}

	return model, nil
}
