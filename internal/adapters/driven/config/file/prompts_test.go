package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

func TestPromptStore_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	prompt, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, driven.DefaultPrompts[driven.PromptAnswerSystem], prompt)

	for name := range driven.DefaultPrompts {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, "expected default file for %s", name)
	}
}

func TestPromptStore_UsesOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("  Be terse.\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, "Be terse.", prompt)

	// Cached until Reload.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("Be verbose."), 0600))
	prompt, _ = store.Load(driven.PromptAnswerSystem)
	assert.Equal(t, "Be terse.", prompt)

	store.Reload()
	prompt, _ = store.Load(driven.PromptAnswerSystem)
	assert.Equal(t, "Be verbose.", prompt)
}

func TestPromptStore_EmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_user.txt"), []byte("   "), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)
	assert.Equal(t, driven.DefaultPrompts[driven.PromptAnswerUser], prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	assert.Error(t, err)
}

func TestPromptStore_ConcurrentLoad(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load(driven.PromptAnswerUser)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestPromptStore_InvalidTemplateFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing placeholders", content: "Answer this: %s"},
		{name: "no placeholders", content: "Just answer."},
		{name: "extra placeholder", content: "%s %s %s"},
		{name: "other verb", content: "Context %d then %s"},
		{name: "bare percent", content: "%s and %s at 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_user.txt"), []byte(tt.content), 0600))

			store, err := NewPromptStore(dir)
			require.NoError(t, err)

			prompt, err := store.Load(driven.PromptAnswerUser)
			require.NoError(t, err)
			assert.Equal(t, driven.DefaultPrompts[driven.PromptAnswerUser], prompt)
		})
	}
}

func TestPromptStore_ValidTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Use 100%% of this:\n%s\n\nAnd answer:\n%s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_user.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerUser)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestCheckTemplate(t *testing.T) {
	assert.NoError(t, checkTemplate(driven.PromptAnswerUser, driven.DefaultPrompts[driven.PromptAnswerUser]))
	assert.NoError(t, checkTemplate(driven.PromptAnswerSystem, driven.DefaultPrompts[driven.PromptAnswerSystem]))
	assert.NoError(t, checkTemplate("unlisted", "%d anything"))
	assert.Error(t, checkTemplate(driven.PromptAnswerSystem, "Answer %s"))
}
