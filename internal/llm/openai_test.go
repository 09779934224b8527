package llm

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestBuildOpenAIMessagesPlainText(t *testing.T) {
	history := []Message{
		UserText("hello"),
		AssistantText("hi there"),
	}

	messages := buildOpenAIMessages(history)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Role != "user" || messages[0].Content != "hello" {
		t.Errorf("user turn not passed through as scalar: %+v", messages[0])
	}

	if messages[1].Role != "assistant" || messages[1].Content != "hi there" {
		t.Errorf("assistant turn not passed through as scalar: %+v", messages[1])
	}
}

func TestBuildOpenAIMessagesMultimodal(t *testing.T) {
	img := []byte{0x89, 0x50, 0x4e, 0x47}
	history := []Message{
		UserParts([]Part{
			ImagePart(img, "image/png"),
			PDFPart("page one"),
			TextPart("what is this?"),
		}),
	}

	messages := buildOpenAIMessages(history)
	parts, ok := messages[0].Content.([]openaiPart)
	if !ok {
		t.Fatalf("expected part list content, got %T", messages[0].Content)
	}

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	wantURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
	if parts[0].Type != "image_url" || parts[0].ImageURL == nil || parts[0].ImageURL.URL != wantURL {
		t.Errorf("unexpected image part: %+v", parts[0])
	}

	if parts[1].Type != "text" || parts[1].Text != "[PDF Content]\npage one" {
		t.Errorf("pdf part missing prefix: %+v", parts[1])
	}

	if parts[2].Type != "text" || parts[2].Text != "what is this?" {
		t.Errorf("unexpected text part: %+v", parts[2])
	}
}

func TestOpenAIImageWireShape(t *testing.T) {
	img := []byte("png-bytes")
	messages := buildOpenAIMessages([]Message{UserParts([]Part{ImagePart(img, "image/png")})})

	raw, err := json.Marshal(messages[0].Content)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `[{"type":"image_url","image_url":{"url":"data:image/png;base64,` +
		base64.StdEncoding.EncodeToString(img) + `"}}]`
	if string(raw) != want {
		t.Errorf("wire shape mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestExtractOpenAIReply(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"the answer"}}]}`)

	reply, err := extractOpenAIReply("openai", body)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if reply != "the answer" {
		t.Errorf("expected 'the answer', got %q", reply)
	}
}

func TestExtractOpenAIReplyNoChoices(t *testing.T) {
	_, err := extractOpenAIReply("openrouter", []byte(`{"choices":[]}`))
	if err == nil {
		t.Fatal("expected error for empty choices")
	}

	respErr, ok := err.(*ResponseError)
	if !ok {
		t.Fatalf("expected *ResponseError, got %T", err)
	}

	if respErr.Provider != "openrouter" {
		t.Errorf("wrong provider in error: %s", respErr.Provider)
	}
}

func TestExtractOpenAIReplyErrorPayload(t *testing.T) {
	_, err := extractOpenAIReply("openai", []byte(`{"error":{"message":"invalid key"}}`))
	if err == nil {
		t.Fatal("expected error for error payload")
	}
}

func TestOpenAIRoundTrip(t *testing.T) {
	const text = "plain text survives the adapter boundary"

	messages := buildOpenAIMessages([]Message{UserText(text)})
	if messages[0].Content != text {
		t.Fatalf("serialization changed the text: %v", messages[0].Content)
	}

	synthetic, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": text}},
		},
	})

	reply, err := extractOpenAIReply("openai", synthetic)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if reply != text {
		t.Errorf("round trip changed the text: %q", reply)
	}
}
