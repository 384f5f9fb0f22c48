package tui

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

type mockQueryService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockQueryService) Query(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

type mockIngestService struct {
	result  *domain.IngestResult
	err     error
	content domain.Content
}

func (m *mockIngestService) Ingest(_ context.Context, content domain.Content) (*domain.IngestResult, error) {
	m.content = content
	return m.result, m.err
}
