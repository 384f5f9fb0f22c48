package driven

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// ItemStore persists items and their chunks.
// All methods must be safe for concurrent use.
type ItemStore interface {
	// CreateItem stores item and then all of its chunks atomically.
	// Either both are visible afterwards or neither is.
	CreateItem(ctx context.Context, item *domain.Item, chunks []domain.Chunk) error

	// GetItem retrieves an item by ID with its chunk count.
	// Returns domain.ErrNotFound when no such item exists.
	GetItem(ctx context.Context, id string) (*domain.ItemSummary, error)

	// ListItems returns all items, newest first.
	ListItems(ctx context.Context) ([]domain.ItemSummary, error)

	// LoadCorpus returns every stored chunk with its embedding.
	LoadCorpus(ctx context.Context) ([]domain.CorpusEntry, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Reset deletes every item and chunk.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
