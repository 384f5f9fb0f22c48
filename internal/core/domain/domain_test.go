package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"ErrInvalidParameter", ErrInvalidParameter, ErrValidation},
		{"ErrDimensionMismatch", ErrDimensionMismatch, ErrValidation},
		{"ErrContentTooShort", ErrContentTooShort, ErrValidation},
		{"ErrEmptyQuestion", ErrEmptyQuestion, ErrValidation},
		{"ErrInvalidURL", ErrInvalidURL, ErrValidation},
		{"ErrRateLimited", ErrRateLimited, ErrTransient},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable, ErrConfiguration},
		{"ErrLLMUnavailable", ErrLLMUnavailable, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("ingest: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.err))
			assert.True(t, errors.Is(wrapped, tt.kind))
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestKindOf_NoKind(t *testing.T) {
	assert.Nil(t, KindOf(ErrNotFound))
	assert.Nil(t, KindOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("embed: %w", ErrTransient)))
	assert.True(t, IsRetryable(ErrRateLimited))
	assert.False(t, IsRetryable(ErrContentTooShort))
	assert.False(t, IsRetryable(nil))
}

func TestContent_Kind(t *testing.T) {
	var c Content = Note{Text: "hello"}
	assert.Equal(t, SourceNote, c.Kind())

	c = URLRef{URL: "https://example.com"}
	assert.Equal(t, SourceURL, c.Kind())
}

func TestSourceKind_IsValid(t *testing.T) {
	assert.True(t, SourceNote.IsValid())
	assert.True(t, SourceURL.IsValid())
	assert.False(t, SourceKind("pdf").IsValid())
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderJina.IsValid())
	assert.False(t, AIProvider("ollama").IsValid())
	assert.False(t, AIProviderJina.RequiresAPIKey())
	assert.True(t, AIProviderGroq.RequiresAPIKey())
	assert.Equal(t, "Groq (cloud)", AIProviderGroq.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderJina}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{Provider: AIProviderGroq}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderGroq, APIKey: "k"}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderJina, APIKey: "k"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderJina, s.Embedding.Provider)
	assert.Equal(t, "jina-embeddings-v3", s.Embedding.Model)
	assert.Equal(t, 768, s.Embedding.Dimensions)
	assert.Equal(t, 100, s.Embedding.BatchSize)
	assert.Equal(t, AIProviderGroq, s.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", s.LLM.Model)
	assert.Equal(t, 800, s.Ingest.ChunkSize)
	assert.Equal(t, 100, s.Ingest.ChunkOverlap)
	assert.Equal(t, 100, s.Ingest.MaxChunks)
	assert.Equal(t, 10, s.Ingest.MinLength)
	assert.Equal(t, 10, s.Query.TopK)
	assert.Empty(t, s.Admin.APIKey)
}
