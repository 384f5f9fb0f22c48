package api

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

type mockIngestService struct {
	result  *domain.IngestResult
	err     error
	content domain.Content
	calls   int
}

func (m *mockIngestService) Ingest(_ context.Context, content domain.Content) (*domain.IngestResult, error) {
	m.calls++
	m.content = content
	return m.result, m.err
}

type mockQueryService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockQueryService) Query(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

type mockItemService struct {
	items []domain.ItemSummary
	item  *domain.ItemSummary
	err   error
	getID string
}

func (m *mockItemService) List(_ context.Context) ([]domain.ItemSummary, error) {
	return m.items, m.err
}

func (m *mockItemService) Get(_ context.Context, id string) (*domain.ItemSummary, error) {
	m.getID = id
	return m.item, m.err
}

type mockAdminService struct {
	err    error
	apiKey string
}

func (m *mockAdminService) Reset(_ context.Context, apiKey string) error {
	m.apiKey = apiKey
	return m.err
}

type testPorts struct {
	ingest *mockIngestService
	query  *mockQueryService
	items  *mockItemService
	admin  *mockAdminService
}

func newTestPorts() *testPorts {
	return &testPorts{
		ingest: &mockIngestService{},
		query:  &mockQueryService{},
		items:  &mockItemService{},
		admin:  &mockAdminService{},
	}
}

func (p *testPorts) ports() *Ports {
	return &Ports{Ingest: p.ingest, Query: p.query, Items: p.items, Admin: p.admin}
}
