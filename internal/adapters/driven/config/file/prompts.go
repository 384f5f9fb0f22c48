package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from <dir>/<name>.txt, falling back to
// driven.DefaultPrompts. Files are written with the defaults on first use
// so users have something to edit.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.recall/prompts/.
// No I/O happens until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := driven.DefaultPrompts[name]

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	switch {
	case err == nil && strings.TrimSpace(string(data)) != "":
		prompt = strings.TrimSpace(string(data))
		if verr := checkTemplate(name, prompt); verr != nil {
			if !known {
				return "", verr
			}
			logger.Warn("%v; using the built-in prompt", verr)
			prompt = fallback
		}
	case known:
		prompt = fallback
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	default:
		return "", fmt.Errorf("load prompt %q: file is empty", name)
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range driven.DefaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}
}

// checkTemplate reports an error unless prompt has exactly the %s verbs
// listed in driven.PromptArgs for name. Prompts with no entry may contain
// any text. A literal percent sign must be written as %%.
func checkTemplate(name, prompt string) error {
	want, ok := driven.PromptArgs[name]
	if !ok {
		return nil
	}

	got := 0
	for i := 0; i < len(prompt); i++ {
		if prompt[i] != '%' {
			continue
		}
		if i+1 == len(prompt) {
			return fmt.Errorf("prompt %q ends with a bare %%", name)
		}
		i++
		switch prompt[i] {
		case '%':
		case 's':
			got++
		default:
			return fmt.Errorf("prompt %q has unsupported verb %%%c", name, prompt[i])
		}
	}
	if got != want {
		return fmt.Errorf("prompt %q has %d %%s placeholders, want %d", name, got, want)
	}
	return nil
}
