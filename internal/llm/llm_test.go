package llm

import (
	"strings"
	"testing"
)

func TestNewSelectsAdapter(t *testing.T) {
	cases := []struct {
		provider     string
		defaultModel string
	}{
		{"openai", "gpt-4o"},
		{"gemini", "gemini-1.5-pro"},
		{"anthropic", "claude-3-5-sonnet-20241022"},
		{"openrouter", "google/gemini-2.0-flash-001"},
	}

	for _, tc := range cases {
		model, err := New(Config{Provider: tc.provider, APIKey: "k"})
		if err != nil {
			t.Fatalf("New(%s) failed: %v", tc.provider, err)
		}

		if model.Provider() != tc.provider {
			t.Errorf("expected provider %s, got %s", tc.provider, model.Provider())
		}

		if model.Model() != tc.defaultModel {
			t.Errorf("expected default model %s for %s, got %s", tc.defaultModel, tc.provider, model.Model())
		}
	}
}

func TestNewModelOverride(t *testing.T) {
	model, err := New(Config{Provider: "anthropic", APIKey: "k", Model: "claude-3-opus-20240229"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if model.Model() != "claude-3-opus-20240229" {
		t.Errorf("model override ignored, got %s", model.Model())
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "mistral", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}

	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResponseErrorMessage(t *testing.T) {
	err := &ResponseError{Provider: "gemini", Status: 503, Message: "overloaded"}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "gemini") {
		t.Errorf("unexpected error string: %s", err.Error())
	}

	err = &ResponseError{Provider: "openai", Message: "no choices in response"}
	if err.Error() != "openai: no choices in response" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}
