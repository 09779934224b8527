package llm

import "fmt"

// pdfPrefix marks extracted document text so the model can tell it apart
// from what the user typed.
const pdfPrefix = "[PDF Content]\n"

// ResponseError reports a provider call that came back without a usable
// reply: non-2xx status, an error payload, or a body missing the reply field.
type ResponseError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ResponseError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: api error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func New(cfg Config) (LLM, error) {
	switch cfg.Provider {
	case "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}

		return newOpenAI("openai", cfg.APIKey, baseURL, cfg.Model, "gpt-4o"), nil
	case "openrouter":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}

		return newOpenAI("openrouter", cfg.APIKey, baseURL, cfg.Model, "google/gemini-2.0-flash-001"), nil
	case "gemini":
		return newGemini(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "anthropic":
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// truncateBody keeps provider error bodies short enough for a chat message.
func truncateBody(body []byte) string {
	const max = 300
	if len(body) <= max {
		return string(body)
	}

	return string(body[:max]) + "..."
}
