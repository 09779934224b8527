package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText pulls plain text out of a PDF document. Extraction failures
// degrade to a placeholder string so the document still lands in the
// conversation as context rather than killing the turn.
func PDFText(data []byte) string {
	text, err := readPDF(data)
	if err != nil {
		return fmt.Sprintf("(Could not extract PDF text: %v)", err)
	}

	if strings.TrimSpace(text) == "" {
		return "(PDF contains no extractable text)"
	}

	return text
}

func readPDF(data []byte) (text string, err error) {
	// the pdf library panics on malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		pages = append(pages, content)
	}

	return strings.Join(pages, "\n\n"), nil
}
