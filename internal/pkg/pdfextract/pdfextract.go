package pdfextract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractTextFromBytes extracts plain text from an in-memory PDF,
// concatenating pages in document order. Returns empty string and nil
// error if the PDF has no extractable text.
func ExtractTextFromBytes(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	readerAt := bytes.NewReader(b)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(b)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromContentType converts document bytes to plain text based on the
// recorded content type. PDF goes through the parser; text-family types
// pass through unchanged; anything else (e.g. images) yields no text.
// A failed or empty extraction is a semantic "no readable text" outcome,
// reported as an empty string rather than an error.
func FromContentType(contentType string, data []byte) (string, error) {
	base := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}

	switch {
	case base == "application/pdf":
		text, err := ExtractTextFromBytes(data)
		if err != nil {
			// Unparseable documents read as empty, not as a server error.
			return "", nil
		}
		return text, nil
	case strings.HasPrefix(base, "text/"):
		return string(data), nil
	default:
		return "", nil
	}
}
