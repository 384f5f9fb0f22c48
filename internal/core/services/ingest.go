package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
	"github.com/custodia-labs/recall/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns notes and URLs into stored, embedded chunks.
type IngestService struct {
	store     driven.ItemStore
	embedder  driven.EmbeddingService
	extractor driven.Extractor
	chunker   *chunker.Processor
	maxChunks int
	minLength int
	metrics   driven.MetricsRecorder
	now       func() time.Time
}

// NewIngestService creates a new ingest service.
// The extractor is optional; without it URL content is rejected.
func NewIngestService(
	store driven.ItemStore,
	embedder driven.EmbeddingService,
	extractor driven.Extractor,
	settings domain.IngestSettings,
) (*IngestService, error) {
	proc, err := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if settings.MaxChunks < 0 {
		return nil, fmt.Errorf("ingest: %w: max chunks must not be negative", domain.ErrInvalidParameter)
	}

	return &IngestService{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		chunker:   proc,
		maxChunks: settings.MaxChunks,
		minLength: settings.MinLength,
		metrics:   driven.NopMetrics{},
		now:       time.Now,
	}, nil
}

// SetMetrics sets the recorder for ingestion outcomes.
func (s *IngestService) SetMetrics(m driven.MetricsRecorder) {
	if m != nil {
		s.metrics = m
	}
}

// Ingest validates content, chunks it, embeds every kept chunk and stores
// the item with its chunks. Nothing is written unless every step succeeds.
func (s *IngestService) Ingest(ctx context.Context, content domain.Content) (*domain.IngestResult, error) {
	logger.Section("Ingest")

	result, err := s.ingest(ctx, content)

	source := "unknown"
	if content != nil {
		source = content.Kind().String()
	}
	if err != nil {
		logger.Debug("Ingest failed: %v", err)
		s.metrics.IngestCompleted(source, 0, 0, err)
		return nil, fmt.Errorf("ingest: %w", err)
	}

	s.metrics.IngestCompleted(source, result.Chunks, result.Dropped, nil)
	return result, nil
}

func (s *IngestService) ingest(ctx context.Context, content domain.Content) (*domain.IngestResult, error) {
	text, origin, err := s.resolve(ctx, content)
	if err != nil {
		return nil, err
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < s.minLength {
		return nil, fmt.Errorf("%w: %d characters, need at least %d", domain.ErrContentTooShort, n, s.minLength)
	}

	item := &domain.Item{
		ID:        uuid.New().String(),
		Content:   text,
		Source:    content.Kind(),
		Origin:    origin,
		CreatedAt: s.now().UTC(),
	}
	logger.Debug("Item %s: %d characters from %s", item.ID, utf8.RuneCountInString(text), item.Source)

	chunks, err := s.chunker.Process(item)
	if err != nil {
		return nil, err
	}

	dropped := 0
	if s.maxChunks > 0 && len(chunks) > s.maxChunks {
		dropped = len(chunks) - s.maxChunks
		logger.Warn("Item %s produced %d chunks; keeping the first %d and dropping %d",
			item.ID, len(chunks), s.maxChunks, dropped)
		chunks = chunks[:s.maxChunks]
	}
	logger.Debug("Chunked into %d pieces (size=%d overlap=%d)", len(chunks), s.chunker.ChunkSize(), s.chunker.Overlap())

	if err := s.embed(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.store.CreateItem(ctx, item, chunks); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	logger.Info("Ingested item %s with %d chunks", item.ID, len(chunks))

	return &domain.IngestResult{
		ItemID:  item.ID,
		Source:  item.Source,
		Chunks:  len(chunks),
		Dropped: dropped,
	}, nil
}

// resolve returns the text to ingest and where it came from.
func (s *IngestService) resolve(ctx context.Context, content domain.Content) (text, origin string, err error) {
	switch c := content.(type) {
	case domain.Note:
		return c.Text, c.Origin, nil

	case domain.URLRef:
		target := strings.TrimSpace(c.URL)
		if err := validateURL(target); err != nil {
			return "", "", err
		}
		if s.extractor == nil {
			return "", "", fmt.Errorf("%w: no extractor configured for URL content", domain.ErrConfiguration)
		}
		logger.Debug("Extracting %s", target)
		text, err := s.extractor.Extract(ctx, target)
		if err != nil {
			return "", "", fmt.Errorf("extract %s: %w", target, err)
		}
		return text, target, nil

	case nil:
		return "", "", fmt.Errorf("%w: no content supplied", domain.ErrValidation)

	default:
		return "", "", fmt.Errorf("%w: unsupported content %T", domain.ErrValidation, content)
	}
}

func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: %w: got %d vectors for %d chunks",
			domain.ErrTransient, len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q must be an absolute http or https URL", domain.ErrInvalidURL, raw)
	}
	return nil
}
