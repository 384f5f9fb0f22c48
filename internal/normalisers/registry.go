package normalisers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/recall/internal/normalisers/html"
	"github.com/custodia-labs/recall/internal/normalisers/markdown"
	"github.com/custodia-labs/recall/internal/normalisers/pdf"
	"github.com/custodia-labs/recall/internal/normalisers/plaintext"
)

// Normaliser extracts plain text from one document format.
type Normaliser interface {
	// Extensions returns the lowercase file extensions handled, with dot.
	Extensions() []string

	// Normalise converts raw file content into plain text.
	// uri identifies the document and may be a path or URL.
	Normalise(raw []byte, uri string) (string, error)
}

// Registry maps file extensions to normalisers.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]Normaliser
	fallback Normaliser
}

// NewRegistry creates an empty registry. fallback handles files whose
// extension has no registered normaliser; nil means such files are rejected.
func NewRegistry(fallback Normaliser) *Registry {
	return &Registry{
		byExt:    make(map[string]Normaliser),
		fallback: fallback,
	}
}

// Default returns a registry with the built-in HTML, Markdown, PDF and
// plain text normalisers.
func Default() *Registry {
	text := plaintext.New()
	r := NewRegistry(text)
	r.Register(text)
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(pdf.New())
	return r
}

// Register adds n for each of its extensions, replacing earlier entries.
func (r *Registry) Register(n Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser for path, or nil when none applies.
func (r *Registry) For(path string) Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return n
	}
	return r.fallback
}

// Supports reports whether path has an explicitly registered extension.
func (r *Registry) Supports(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ReadFile reads path and normalises it to plain text.
func (r *Registry) ReadFile(path string) (string, error) {
	n := r.For(path)
	if n == nil {
		return "", fmt.Errorf("no normaliser for %s", filepath.Base(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return n.Normalise(raw, path)
}
