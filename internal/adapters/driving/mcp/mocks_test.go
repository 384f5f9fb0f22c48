package mcp

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockQueryService) Query(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result  *domain.IngestResult
	err     error
	content domain.Content
}

func (m *mockIngestService) Ingest(_ context.Context, content domain.Content) (*domain.IngestResult, error) {
	m.content = content
	return m.result, m.err
}

// mockItemService is a mock implementation of driving.ItemService.
type mockItemService struct {
	items []domain.ItemSummary
	item  *domain.ItemSummary
	err   error
}

func (m *mockItemService) List(_ context.Context) ([]domain.ItemSummary, error) {
	return m.items, m.err
}

func (m *mockItemService) Get(_ context.Context, _ string) (*domain.ItemSummary, error) {
	return m.item, m.err
}
