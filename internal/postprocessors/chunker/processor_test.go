package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// reconstruct drops the overlapping prefix of every chunk after the first.
func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		r := []rune(c)
		if i == 0 {
			b.WriteString(c)
			continue
		}
		if len(r) > overlap {
			b.WriteString(string(r[overlap:]))
		}
	}
	return b.String()
}

func TestSplit_Reconstructs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
	}{
		{"defaults", strings.Repeat("lorem ipsum dolor sit amet ", 200), DefaultChunkSize, DefaultChunkOverlap},
		{"no overlap", strings.Repeat("a", 100), 50, 0},
		{"small step", "0123456789ABCDEFGHIJ", 10, 9},
		{"tail shorter than overlap", "0123456789ABC", 10, 5},
		{"multibyte", strings.Repeat("héllo wörld ✓ ", 40), 37, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := reconstruct(chunks, tt.overlap); got != tt.text {
				t.Errorf("reconstruction mismatch:\n got %q\nwant %q", got, tt.text)
			}
			for i, c := range chunks {
				if n := len([]rune(c)); n > tt.size {
					t.Errorf("chunk %d has %d runes, exceeds size %d", i, n, tt.size)
				}
			}
		})
	}
}

func TestSplit_Windows(t *testing.T) {
	chunks, err := Split("0123456789ABCDEFGHIJ", 10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// step 7: [0,10) [7,17) [14,20)
	want := []string{"0123456789", "789ABCDEFG", "EFGHIJ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	for _, text := range []string{"short", strings.Repeat("x", 800)} {
		chunks, err := Split(text, 800, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 1 || chunks[0] != text {
			t.Errorf("expected exactly the input as one chunk, got %d chunks", len(chunks))
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	chunks, err := Split("", 800, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks == nil || len(chunks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", chunks)
	}
}

func TestSplit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.size, tt.overlap)
			if !errors.Is(err, domain.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != 800 || p.Overlap() != 100 {
			t.Errorf("expected 800/100, got %d/%d", p.ChunkSize(), p.Overlap())
		}
		if p.Name() != "chunker" {
			t.Errorf("expected name 'chunker', got '%s'", p.Name())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p, err := New(WithChunkSize(500), WithOverlap(50))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != 500 || p.Overlap() != 50 {
			t.Errorf("expected 500/50, got %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		if _, err := New(WithChunkSize(100), WithOverlap(150)); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("expected ErrInvalidParameter, got %v", err)
		}
	})
}

func TestProcessor_Process(t *testing.T) {
	p, err := New(WithChunkSize(100), WithOverlap(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := &domain.Item{ID: "item-1", Content: strings.Repeat("x", 250)}

	chunks, err := p.Process(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// starts at 0, 80, 160, 240
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	seenIDs := make(map[string]bool)
	for i, chunk := range chunks {
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true

		if chunk.Position != i {
			t.Errorf("expected position %d, got %d", i, chunk.Position)
		}
		if chunk.ItemID != item.ID {
			t.Errorf("expected ItemID '%s', got '%s'", item.ID, chunk.ItemID)
		}
		if chunk.Embedding != nil {
			t.Error("expected embedding to be unset")
		}
	}

	if len(chunks[0].Text) != 100 {
		t.Errorf("expected first chunk size 100, got %d", len(chunks[0].Text))
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p, _ := New()

	chunks, err := p.Process(&domain.Item{ID: "empty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}
