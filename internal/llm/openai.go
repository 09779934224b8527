package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// openAI speaks the OpenAI chat-completions schema. OpenRouter uses the
// same schema on a different base URL, so both run through this adapter.
type openAI struct {
	name    string
	apiKey  string
	baseURL string
	model   string
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

// Content is a plain string for text-only turns and []openaiPart for
// multimodal turns.
type openaiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openaiPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newOpenAI(name, apiKey, baseURL, model, defaultModel string) LLM {
	if model == "" {
		model = defaultModel
	}

	return &openAI{
		name:    name,
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
	}
}

func buildOpenAIMessages(history []Message) []openaiMessage {
	messages := make([]openaiMessage, 0, len(history))

	for _, msg := range history {
		if msg.Parts == nil {
			messages = append(messages, openaiMessage{Role: msg.Role, Content: msg.Text})
			continue
		}

		parts := make([]openaiPart, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Type {
			case PartText:
				parts = append(parts, openaiPart{Type: "text", Text: p.Text})
			case PartImage:
				parts = append(parts, openaiPart{
					Type: "image_url",
					ImageURL: &openaiImageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", p.MimeType, base64.StdEncoding.EncodeToString(p.Data)),
					},
				})
			case PartPDFText:
				parts = append(parts, openaiPart{Type: "text", Text: pdfPrefix + p.Text})
			}
		}

		messages = append(messages, openaiMessage{Role: msg.Role, Content: parts})
	}

	return messages
}

func extractOpenAIReply(provider string, body []byte) (string, error) {
	var resp openaiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ResponseError{Provider: provider, Message: "malformed response body"}
	}

	if resp.Error != nil {
		return "", &ResponseError{Provider: provider, Message: resp.Error.Message}
	}

	if len(resp.Choices) == 0 {
		return "", &ResponseError{Provider: provider, Message: "no choices in response"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *openAI) Chat(ctx context.Context, history []Message) (string, error) {
	reqBody := openaiRequest{
		Model:    o.model,
		Messages: buildOpenAIMessages(history),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

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
		return "", &ResponseError{Provider: o.name, Status: resp.StatusCode, Message: truncateBody(body)}
	}

	return extractOpenAIReply(o.name, body)
}

func (o *openAI) Provider() string {
	return o.name
}

func (o *openAI) Model() string {
	return o.model
}
