package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure ItemService and AdminService implement their interfaces.
var (
	_ driving.ItemService  = (*ItemService)(nil)
	_ driving.AdminService = (*AdminService)(nil)
)

// ItemService lists ingested items.
type ItemService struct {
	store driven.ItemStore
}

// NewItemService creates a new item service.
func NewItemService(store driven.ItemStore) *ItemService {
	return &ItemService{store: store}
}

// List returns all items, newest first.
func (s *ItemService) List(ctx context.Context) ([]domain.ItemSummary, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get returns one item.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.ItemSummary, error) {
	if id == "" {
		return nil, fmt.Errorf("get item: %w: id is required", domain.ErrValidation)
	}
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// AdminService gates destructive operations behind a shared key.
type AdminService struct {
	store  driven.ItemStore
	apiKey string
}

// NewAdminService creates a new admin service. An empty apiKey disables Reset.
func NewAdminService(store driven.ItemStore, apiKey string) *AdminService {
	return &AdminService{store: store, apiKey: apiKey}
}

// Reset deletes every item and chunk.
func (s *AdminService) Reset(ctx context.Context, apiKey string) error {
	if s.apiKey == "" {
		return fmt.Errorf("reset: %w: admin key is not set", domain.ErrConfiguration)
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) != 1 {
		logger.Warn("Rejected reset with invalid admin key")
		return fmt.Errorf("reset: %w", domain.ErrUnauthorized)
	}

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	logger.Info("Knowledge base reset")
	return nil
}
