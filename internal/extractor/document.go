package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// ErrEmptyDocument is returned when a source document yields no text at
// all. This is a hard failure for that document, distinct from per-field
// fallbacks, and is never auto-retried.
var ErrEmptyDocument = errors.New("no text content found in document")

// DocumentReader loads raw text from invoice source files. PDF pages are
// read through mupdf; plain-text files are read directly.
type DocumentReader struct {
	logger *zap.Logger
}

// NewDocumentReader creates a document reader.
func NewDocumentReader(logger *zap.Logger) *DocumentReader {
	return &DocumentReader{logger: logger}
}

// LoadText extracts the full text content of a document file.
func (r *DocumentReader) LoadText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return r.loadPDFText(path)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", ext)
	}
}

// loadPDFText extracts text from all pages of a PDF.
func (r *DocumentReader) loadPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []string
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
