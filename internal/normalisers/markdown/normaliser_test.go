package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".md", ".markdown"}, New().Extensions())
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "# Title\n\nBody", "Title\n\nBody"},
		{"link", "see [the docs](https://x.io)", "see the docs"},
		{"image", "![diagram](a.png)", "diagram"},
		{"emphasis", "**bold** and *it* and ~~gone~~", "bold and it and gone"},
		{"inline code", "run `go test`", "run go test"},
		{"code block", "```go\nfmt.Println()\n```", "fmt.Println()"},
		{"list", "- one\n- two\n1. three", "one\ntwo\nthree"},
		{"quote", "> quoted", "quoted"},
		{"rule", "a\n\n---\n\nb", "a\n\nb"},
		{"front matter", "---\ntitle: x\n---\nbody", "body"},
		{"snake case kept", "use chunk_size here", "use chunk_size here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestNormalise_CRLF(t *testing.T) {
	got, err := New().Normalise([]byte("# A\r\ntext\r\n"), "a.md")
	require.NoError(t, err)
	assert.Equal(t, "A\ntext", got)
}
