package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

type anthropicClient struct {
	apiKey string
	model  string
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// Content is a plain string for text-only turns and []anthropicPart for
// multimodal turns.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicPart struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newAnthropic(apiKey, model string) LLM {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	return &anthropicClient{apiKey: apiKey, model: model}
}

func buildAnthropicMessages(history []Message) []anthropicMessage {
	messages := make([]anthropicMessage, 0, len(history))

	for _, msg := range history {
		if msg.Parts == nil {
			messages = append(messages, anthropicMessage{Role: msg.Role, Content: msg.Text})
			continue
		}

		parts := make([]anthropicPart, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Type {
			case PartText:
				parts = append(parts, anthropicPart{Type: "text", Text: p.Text})
			case PartImage:
				parts = append(parts, anthropicPart{
					Type: "image",
					Source: &anthropicSource{
						Type:      "base64",
						MediaType: p.MimeType,
						Data:      base64.StdEncoding.EncodeToString(p.Data),
					},
				})
			case PartPDFText:
				parts = append(parts, anthropicPart{Type: "text", Text: pdfPrefix + p.Text})
			}
		}

		messages = append(messages, anthropicMessage{Role: msg.Role, Content: parts})
	}

	return messages
}

func extractAnthropicReply(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ResponseError{Provider: "anthropic", Message: "malformed response body"}
	}

	if resp.Error != nil {
		return "", &ResponseError{Provider: "anthropic", Message: resp.Error.Message}
	}

	if len(resp.Content) == 0 {
		return "", &ResponseError{Provider: "anthropic", Message: "no content blocks in response"}
	}

	return strings.TrimSpace(resp.Content[0].Text), nil
}

func (c *anthropicClient) Chat(ctx context.Context, history []Message) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  buildAnthropicMessages(history),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ResponseError{Provider: "anthropic", Status: resp.StatusCode, Message: truncateBody(body)}
	}

	return extractAnthropicReply(body)
}

func (c *anthropicClient) Provider() string {
	return "anthropic"
}

func (c *anthropicClient) Model() string {
	return c.model
}
