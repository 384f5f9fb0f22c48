package ai

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/postprocessors/chunker"
)

// ValidateSettings checks settings for values no adapter could work with.
// It does not contact any provider; use Check for that.
func ValidateSettings(s *domain.AppSettings) error {
	if s == nil {
		return fmt.Errorf("%w: no settings", domain.ErrConfiguration)
	}

	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", domain.ErrConfiguration, fmt.Sprintf(format, args...)))
	}

	if !isEmbeddingProvider(s.Embedding.Provider) {
		add("embedding.provider %q must be one of %v", s.Embedding.Provider, domain.AllEmbeddingProviders())
	}
	if s.Embedding.Dimensions <= 0 {
		add("embedding.dimensions must be positive, got %d", s.Embedding.Dimensions)
	}
	if s.Embedding.BatchSize <= 0 {
		add("embedding.batch_size must be positive, got %d", s.Embedding.BatchSize)
	}
	if !isLLMProvider(s.LLM.Provider) {
		add("llm.provider %q must be one of %v", s.LLM.Provider, domain.AllLLMProviders())
	}

	if _, err := chunker.New(
		chunker.WithChunkSize(s.Ingest.ChunkSize),
		chunker.WithOverlap(s.Ingest.ChunkOverlap),
	); err != nil {
		add("ingest.chunk_size/chunk_overlap: %v", err)
	}
	if s.Ingest.MaxChunks <= 0 {
		add("ingest.max_chunks must be positive, got %d", s.Ingest.MaxChunks)
	}
	if s.Ingest.MinLength < 0 {
		add("ingest.min_length must not be negative, got %d", s.Ingest.MinLength)
	}
	if s.Query.TopK <= 0 {
		add("query.top_k must be positive, got %d", s.Query.TopK)
	}

	return errors.Join(errs...)
}

func isEmbeddingProvider(p domain.AIProvider) bool {
	for _, candidate := range domain.AllEmbeddingProviders() {
		if p == candidate {
			return true
		}
	}
	return false
}

func isLLMProvider(p domain.AIProvider) bool {
	for _, candidate := range domain.AllLLMProviders() {
		if p == candidate {
			return true
		}
	}
	return false
}
