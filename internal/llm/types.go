package llm

import "context"

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type PartType string

const (
	PartText    PartType = "text"
	PartImage   PartType = "image"
	PartPDFText PartType = "pdf_text"
)

// Part is one typed fragment of a multimodal turn. Image bytes stay raw
// here; base64 is a per-provider wire concern applied at serialization.
type Part struct {
	Type     PartType
	Text     string
	Data     []byte
	MimeType string
}

func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

func ImagePart(data []byte, mimeType string) Part {
	return Part{Type: PartImage, Data: data, MimeType: mimeType}
}

func PDFPart(text string) Part {
	return Part{Type: PartPDFText, Text: text}
}

// Message is one turn of a conversation. Parts nil means Text is the whole
// content; otherwise the turn is multimodal and Text is ignored.
type Message struct {
	Role  string
	Text  string
	Parts []Part
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

func UserParts(parts []Part) Message {
	return Message{Role: RoleUser, Parts: parts}
}

func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

type LLM interface {
	Chat(ctx context.Context, history []Message) (string, error)
	Provider() string
	Model() string
}
