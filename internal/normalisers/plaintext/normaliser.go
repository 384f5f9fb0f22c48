// Package plaintext normalises text files.
package plaintext

import (
	"strings"
	"unicode/utf8"
)

// Normaliser handles plain text files.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

// Normalise converts line endings to \n, drops a byte order mark and
// replaces invalid UTF-8.
func (n *Normaliser) Normalise(raw []byte, _ string) (string, error) {
	content := string(raw)
	content = strings.TrimPrefix(content, "\ufeff")
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content), nil
}
