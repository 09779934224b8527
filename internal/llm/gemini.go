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

type gemini struct {
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newGemini(apiKey, model, baseURL string) LLM {
	if model == "" {
		model = "gemini-1.5-pro"
	}

	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	return &gemini{apiKey: apiKey, model: model, baseURL: baseURL}
}

func buildGeminiContents(history []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(history))

	for _, msg := range history {
		// Gemini calls the assistant side "model"
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}

		if msg.Parts == nil {
			contents = append(contents, geminiContent{
				Role:  role,
				Parts: []geminiPart{{Text: msg.Text}},
			})
			continue
		}

		parts := make([]geminiPart, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Type {
			case PartText:
				parts = append(parts, geminiPart{Text: p.Text})
			case PartImage:
				parts = append(parts, geminiPart{
					InlineData: &geminiInlineData{
						MimeType: p.MimeType,
						Data:     base64.StdEncoding.EncodeToString(p.Data),
					},
				})
			case PartPDFText:
				parts = append(parts, geminiPart{Text: pdfPrefix + p.Text})
			}
		}

		contents = append(contents, geminiContent{Role: role, Parts: parts})
	}

	return contents
}

func extractGeminiReply(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ResponseError{Provider: "gemini", Message: "malformed response body"}
	}

	if resp.Error != nil {
		return "", &ResponseError{Provider: "gemini", Message: resp.Error.Message}
	}

	if len(resp.Candidates) == 0 {
		return "", &ResponseError{Provider: "gemini", Message: "no candidates in response"}
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", &ResponseError{Provider: "gemini", Message: "no content parts in candidate"}
	}

	return strings.TrimSpace(parts[0].Text), nil
}

func (g *gemini) Chat(ctx context.Context, history []Message) (string, error) {
	reqBody := geminiRequest{Contents: buildGeminiContents(history)}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := g.baseURL + "/models/" + g.model + ":generateContent?key=" + g.apiKey

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

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
		return "", &ResponseError{Provider: "gemini", Status: resp.StatusCode, Message: truncateBody(body)}
	}

	return extractGeminiReply(body)
}

func (g *gemini) Provider() string {
	return "gemini"
}

func (g *gemini) Model() string {
	return g.model
}
