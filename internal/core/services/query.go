package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
	"github.com/custodia-labs/recall/internal/vector"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers questions from the stored corpus.
type QueryService struct {
	store    driven.ItemStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
	topK     int
	metrics  driven.MetricsRecorder
}

// NewQueryService creates a new query service.
// The llm parameter is optional; without it every non-empty corpus query
// fails with domain.ErrLLMUnavailable.
func NewQueryService(
	store driven.ItemStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	settings domain.QuerySettings,
) *QueryService {
	topK := settings.TopK
	if topK <= 0 {
		topK = vector.DefaultTopK
	}
	return &QueryService{
		store:    store,
		embedder: embedder,
		llm:      llm,
		topK:     topK,
		metrics:  driven.NopMetrics{},
	}
}

// SetMetrics sets the recorder for query outcomes.
func (s *QueryService) SetMetrics(m driven.MetricsRecorder) {
	if m != nil {
		s.metrics = m
	}
}

// Query embeds question, ranks every stored chunk against it and asks the
// LLM to answer from the top-ranked chunks.
func (s *QueryService) Query(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Query")
	logger.Debug("Question: %q", question)

	answer, err := s.query(ctx, strings.TrimSpace(question))
	if err != nil {
		logger.Debug("Query failed: %v", err)
		s.metrics.QueryCompleted(0, err)
		return nil, fmt.Errorf("query: %w", err)
	}

	s.metrics.QueryCompleted(len(answer.Sources), nil)
	return answer, nil
}

func (s *QueryService) query(ctx context.Context, question string) (*domain.Answer, error) {
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	count, err := s.store.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if count == 0 {
		logger.Debug("Store is empty, returning fixed answer")
		return noKnowledge(), nil
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	corpus, err := s.store.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(corpus) == 0 {
		// Reset between the count and the load.
		return noKnowledge(), nil
	}
	logger.Debug("Scoring %d chunks, keeping top %d", len(corpus), s.topK)

	sources, err := vector.Retrieve(queryVec, corpus, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	for i, src := range sources {
		logger.Debug("  %2d. score=%.4f item=%s", i+1, src.Score, src.ItemID)
	}

	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Text
	}

	text, err := s.llm.Answer(ctx, strings.Join(texts, "\n"), question)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Answer: text, Sources: sources}, nil
}

func noKnowledge() *domain.Answer {
	return &domain.Answer{Answer: domain.NoKnowledgeAnswer, Sources: []domain.Source{}}
}
