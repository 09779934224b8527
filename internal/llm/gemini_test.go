package llm

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestBuildGeminiContentsRoleMapping(t *testing.T) {
	history := []Message{
		UserText("question"),
		AssistantText("answer"),
	}

	contents := buildGeminiContents(history)
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}

	if contents[0].Role != "user" {
		t.Errorf("expected role user, got %s", contents[0].Role)
	}

	if contents[1].Role != "model" {
		t.Errorf("assistant must map to model, got %s", contents[1].Role)
	}
}

func TestBuildGeminiContentsPlainTextWrapped(t *testing.T) {
	contents := buildGeminiContents([]Message{UserText("hello")})

	parts := contents[0].Parts
	if len(parts) != 1 || parts[0].Text != "hello" {
		t.Errorf("plain text must become a single text part: %+v", parts)
	}
}

func TestGeminiImageWireShape(t *testing.T) {
	img := []byte("png-bytes")
	contents := buildGeminiContents([]Message{UserParts([]Part{ImagePart(img, "image/png")})})

	raw, err := json.Marshal(contents[0].Parts)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `[{"inlineData":{"mimeType":"image/png","data":"` +
		base64.StdEncoding.EncodeToString(img) + `"}}]`
	if string(raw) != want {
		t.Errorf("wire shape mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestBuildGeminiContentsPDFPrefix(t *testing.T) {
	contents := buildGeminiContents([]Message{UserParts([]Part{PDFPart("doc text")})})

	if contents[0].Parts[0].Text != "[PDF Content]\ndoc text" {
		t.Errorf("pdf part missing prefix: %+v", contents[0].Parts[0])
	}
}

func TestExtractGeminiReply(t *testing.T) {
	body := []byte(`{"candidates":[{"content":{"parts":[{"text":"the answer"}]}}]}`)

	reply, err := extractGeminiReply(body)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if reply != "the answer" {
		t.Errorf("expected 'the answer', got %q", reply)
	}
}

func TestExtractGeminiReplyMissingFields(t *testing.T) {
	cases := []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`not json`,
	}

	for _, body := range cases {
		if _, err := extractGeminiReply([]byte(body)); err == nil {
			t.Errorf("expected error for body %q", body)
		}
	}
}

func TestGeminiRoundTrip(t *testing.T) {
	const text = "plain text survives the adapter boundary"

	contents := buildGeminiContents([]Message{UserText(text)})
	if contents[0].Parts[0].Text != text {
		t.Fatalf("serialization changed the text: %+v", contents[0].Parts[0])
	}

	synthetic, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})

	reply, err := extractGeminiReply(synthetic)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if reply != text {
		t.Errorf("round trip changed the text: %q", reply)
	}
}
