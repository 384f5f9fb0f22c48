package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure ItemStore implements the interface.
var _ driven.ItemStore = (*ItemStore)(nil)

// ItemStore is an in-memory implementation of driven.ItemStore.
// Contents are lost when the process exits.
type ItemStore struct {
	mu     sync.RWMutex
	order  []string
	items  map[string]domain.Item
	chunks map[string][]domain.Chunk
}

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{
		items:  make(map[string]domain.Item),
		chunks: make(map[string][]domain.Chunk),
	}
}

// CreateItem stores an item and its chunks under one lock.
func (s *ItemStore) CreateItem(_ context.Context, item *domain.Item, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("%w: item %s already exists", domain.ErrStorage, item.ID)
	}
	for _, c := range chunks {
		if c.ItemID != item.ID {
			return fmt.Errorf("%w: chunk %s belongs to item %s, not %s", domain.ErrStorage, c.ID, c.ItemID, item.ID)
		}
	}

	stored := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.Embedding = append([]float32(nil), c.Embedding...)
		stored[i] = c
	}

	s.items[item.ID] = *item
	s.chunks[item.ID] = stored
	s.order = append(s.order, item.ID)
	return nil
}

// GetItem retrieves an item by ID.
func (s *ItemStore) GetItem(_ context.Context, id string) (*domain.ItemSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.ItemSummary{Item: item, Chunks: len(s.chunks[id])}, nil
}

// ListItems returns all items, newest first. Items created at the same
// instant are returned in reverse insertion order.
func (s *ItemStore) ListItems(_ context.Context) ([]domain.ItemSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ItemSummary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		result = append(result, domain.ItemSummary{Item: s.items[id], Chunks: len(s.chunks[id])})
	}

	// Insertion order is creation order unless the clock went backwards.
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].CreatedAt.After(result[j-1].CreatedAt); j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

// LoadCorpus returns every chunk in insertion order.
func (s *ItemStore) LoadCorpus(_ context.Context) ([]domain.CorpusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var corpus []domain.CorpusEntry
	for _, id := range s.order {
		for _, c := range s.chunks[id] {
			corpus = append(corpus, domain.CorpusEntry{
				ChunkID: c.ID,
				ItemID:  c.ItemID,
				Text:    c.Text,
				Vector:  c.Embedding,
			})
		}
	}
	return corpus, nil
}

// CountChunks returns the number of stored chunks.
func (s *ItemStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, chunks := range s.chunks {
		n += len(chunks)
	}
	return n, nil
}

// Reset deletes every item and chunk.
func (s *ItemStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.items = make(map[string]domain.Item)
	s.chunks = make(map[string][]domain.Chunk)
	return nil
}

// Close is a no-op.
func (s *ItemStore) Close() error {
	return nil
}
