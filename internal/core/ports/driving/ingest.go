package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// IngestService adds content to the knowledge base.
type IngestService interface {
	// Ingest extracts, chunks, embeds and stores content as a new item.
	Ingest(ctx context.Context, content domain.Content) (*domain.IngestResult, error)
}
