package reply

import (
	"regexp"
	"strings"
)

// MaxChunk is the hard Telegram limit on message length.
const MaxChunk = 4096

var (
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	emphasisRe   = regexp.MustCompile(`\*{1,3}(.+?)\*{1,3}`)
	underscoreRe = regexp.MustCompile(`_{1,3}(.+?)_{1,3}`)
	codeRe       = regexp.MustCompile("(?s)`{1,3}(.+?)`{1,3}")
	ruleRe       = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	quoteRe      = regexp.MustCompile(`(?m)^>+\s?`)
	imageRe      = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkRe       = regexp.MustCompile(`\[(.+?)\]\(.*?\)`)
	blankRe      = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes markdown syntax while keeping the readable text.
// It is a best-effort syntactic strip, not a parser; nesting is not
// validated.
func StripMarkdown(text string) string {
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = underscoreRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = ruleRe.ReplaceAllString(text, "")
	text = quoteRe.ReplaceAllString(text, "")
	// images before links so ![alt](url) is dropped instead of leaving "!alt"
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = blankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Split cuts text into chunks of at most size runes, preserving order and
// content. Empty input yields a single empty chunk so callers always have
// something to send.
func Split(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}

	var chunks []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}

	return chunks
}
