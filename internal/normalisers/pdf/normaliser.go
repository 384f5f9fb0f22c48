// Package pdf extracts plain text from PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".pdf"}
}

// Normalise returns the text of every page in order.
// The reader panics on some malformed files, so panics become errors.
func (n *Normaliser) Normalise(raw []byte, uri string) (text string, err error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("pdf: %w: %s is empty", domain.ErrValidation, uri)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: %w: %s is malformed: %v", domain.ErrValidation, uri, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("pdf: %w: open %s: %v", domain.ErrValidation, uri, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf: read text of %s: %w", uri, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("pdf: read text of %s: %w", uri, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
