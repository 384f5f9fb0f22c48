package normalisers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_Extensions(t *testing.T) {
	exts := Default().Extensions()

	for _, ext := range []string{".txt", ".md", ".markdown", ".html", ".htm", ".pdf"} {
		assert.Contains(t, exts, ext)
	}
}

func TestRegistry_ReadFile(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"text", "notes.txt", "just text\r\n", "just text"},
		{"markdown", "README.MD", "# Title\n\n**bold**", "Title\n\nbold"},
		{"html", "page.htm", "<html><body><script>x()</script><p>Body</p></body></html>", "Body"},
		{"unknown extension falls back to text", "data.yaml", "key: value", "key: value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ReadFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ReadFile_Missing(t *testing.T) {
	_, err := Default().ReadFile(filepath.Join(t.TempDir(), "missing.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistry(nil)

	assert.Nil(t, r.For("a.txt"))
	_, err := r.ReadFile("a.txt")
	assert.Error(t, err)
}

func TestRegistry_Supports(t *testing.T) {
	r := Default()

	assert.True(t, r.Supports("/x/a.pdf"))
	assert.True(t, r.Supports("A.HTML"))
	assert.False(t, r.Supports("image.png"))
	assert.False(t, r.Supports("Makefile"))
}
