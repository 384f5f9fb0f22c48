package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/recall/internal/core/domain"
)

type mockIngestService struct {
	result  *domain.IngestResult
	err     error
	content domain.Content
}

func (m *mockIngestService) Ingest(_ context.Context, content domain.Content) (*domain.IngestResult, error) {
	m.content = content
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{ItemID: "item-1", Source: content.Kind(), Chunks: 1}, nil
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
	err   error
}

func (m *mockItemService) List(_ context.Context) ([]domain.ItemSummary, error) {
	return m.items, m.err
}

func (m *mockItemService) Get(_ context.Context, id string) (*domain.ItemSummary, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockAdminService struct {
	key    string
	apiKey string
}

func (m *mockAdminService) Reset(_ context.Context, apiKey string) error {
	m.apiKey = apiKey
	if apiKey != m.key {
		return domain.ErrUnauthorized
	}
	return nil
}

type mockSettingsService struct {
	settings domain.AppSettings
	stored   map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if !strings.Contains(key, ".") {
		return errors.New("unknown setting")
	}
	if m.stored == nil {
		m.stored = map[string]string{}
	}
	m.stored[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "llm.api_key", "query.top_k"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockFiles reads files from an in-memory map.
type mockFiles map[string]string

func (m mockFiles) Supports(path string) bool {
	_, ok := m[path]
	return ok
}

func (m mockFiles) ReadFile(path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

type testServices struct {
	ingest   *mockIngestService
	query    *mockQueryService
	items    *mockItemService
	admin    *mockAdminService
	settings *mockSettingsService
}

// setupTestServices installs mock services and resets flag state.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		ingest:   &mockIngestService{},
		query:    &mockQueryService{answer: &domain.Answer{Answer: "42"}},
		items:    &mockItemService{},
		admin:    &mockAdminService{key: "secret"},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	prevBootstrap := bootstrap
	bootstrap = nil
	useRuntime(&Runtime{
		Ingest:   ts.ingest,
		Query:    ts.query,
		Items:    ts.items,
		Admin:    ts.admin,
		Settings: ts.settings,
		Files:    mockFiles{},
	})
	current = nil
	ingestURL, ingestFile, resetAPIKey, serveAddr = "", "", "", ""
	queryJSON, itemsJSON = false, false

	t.Cleanup(func() {
		bootstrap = prevBootstrap
		useRuntime(&Runtime{})
		current = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return ts
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
