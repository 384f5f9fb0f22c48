package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".recall"), dir)
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "jina"))

	val, ok := store.Get("embedding.provider")
	assert.True(t, ok)
	assert.Equal(t, "jina", val)
	assert.Equal(t, "jina", store.GetString("embedding.provider"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 800, 800},
		{"int64", int64(100), 100},
		{"string", "  42 ", 42},
		{"bad string", "abc", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewConfigStore(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, store.Set("ingest.chunk_size", tt.value))

			assert.Equal(t, tt.want, store.GetInt("ingest.chunk_size"))
		})
	}
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("watch.extensions", []string{".md", ".txt"}))
	assert.Equal(t, []string{".md", ".txt"}, store.GetStringSlice("watch.extensions"))

	// After reload TOML arrays come back as []any.
	require.NoError(t, store.Load())
	assert.Equal(t, []string{".md", ".txt"}, store.GetStringSlice("watch.extensions"))
}

func TestConfigStore_Persistence_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "jina"))
	require.NoError(t, store.Set("embedding.dimensions", 768))
	require.NoError(t, store.Set("llm.provider", "groq"))
	require.NoError(t, store.Set("verbose", true))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[embedding]")
	assert.Contains(t, string(raw), "[llm]")
	assert.NotContains(t, string(raw), "'embedding.provider'")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "jina", reloaded.GetString("embedding.provider"))
	assert.Equal(t, 768, reloaded.GetInt("embedding.dimensions"))
	assert.Equal(t, "groq", reloaded.GetString("llm.provider"))
	assert.True(t, reloaded.GetBool("verbose"))
}

func TestConfigStore_Load_HandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[ingest]
chunk_size = 400
chunk_overlap = 50

[query]
top_k = 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, 400, store.GetInt("ingest.chunk_size"))
	assert.Equal(t, 50, store.GetInt("ingest.chunk_overlap"))
	assert.Equal(t, 5, store.GetInt("query.top_k"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[broken"), 0600))

	store, err := NewConfigStore(dir)

	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "parse")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("admin.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save())
	assert.FileExists(t, store.Path())
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm", "groq"))

	err = store.Set("llm.model", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("query.top_k", n)
			_ = store.GetInt("query.top_k")
		}(i)
	}
	wg.Wait()

	v := store.GetInt("query.top_k")
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, 10)
}

func TestFlattenUnflatten_RoundTrip(t *testing.T) {
	nested := map[string]any{
		"embedding": map[string]any{"provider": "jina", "dimensions": int64(768)},
		"verbose":   true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, "jina", flat["embedding.provider"])
	assert.Equal(t, int64(768), flat["embedding.dimensions"])

	back, err := unflattenMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}
