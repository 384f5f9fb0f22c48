package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// ItemService provides read access to ingested items.
type ItemService interface {
	// List returns all items, newest first.
	List(ctx context.Context) ([]domain.ItemSummary, error)

	// Get returns one item.
	Get(ctx context.Context, id string) (*domain.ItemSummary, error)
}

// AdminService provides privileged maintenance operations.
type AdminService interface {
	// Reset deletes all items and chunks when apiKey matches the configured key.
	Reset(ctx context.Context, apiKey string) error
}
