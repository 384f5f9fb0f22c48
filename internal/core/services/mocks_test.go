package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder hashes words into a fixed number of buckets, so texts that
// share words have a positive cosine similarity.
type mockEmbedder struct {
	mu        sync.Mutex
	dims      int
	err       error
	short     bool
	calls     int
	batchLens []int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 768}
}

func (m *mockEmbedder) vector(text string) []float32 {
	v := make([]float32, m.dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%uint32(m.dims)]++
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batchLens = append(m.batchLens, len(texts))
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

type mockLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	calls    int
	context  string
	question string
}

func (m *mockLLM) Answer(_ context.Context, contextText, question string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.context = contextText
	m.question = question
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.answer, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

type mockExtractor struct {
	text string
	err  error
	urls []string
}

func (m *mockExtractor) Extract(_ context.Context, url string) (string, error) {
	m.urls = append(m.urls, url)
	return m.text, m.err
}

// failingStore wraps a real store and fails selected operations.
type failingStore struct {
	driven.ItemStore
	createErr error
	countErr  error
	loadErr   error
	resetErr  error
}

func (f *failingStore) CreateItem(ctx context.Context, item *domain.Item, chunks []domain.Chunk) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ItemStore.CreateItem(ctx, item, chunks)
}

func (f *failingStore) CountChunks(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.ItemStore.CountChunks(ctx)
}

func (f *failingStore) LoadCorpus(ctx context.Context) ([]domain.CorpusEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.ItemStore.LoadCorpus(ctx)
}

func (f *failingStore) Reset(ctx context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	return f.ItemStore.Reset(ctx)
}

type ingestEvent struct {
	source  string
	chunks  int
	dropped int
	err     error
}

type mockMetrics struct {
	ingests []ingestEvent
	queries []int
	errs    []error
}

func (m *mockMetrics) IngestCompleted(source string, chunks, dropped int, err error) {
	m.ingests = append(m.ingests, ingestEvent{source, chunks, dropped, err})
}

func (m *mockMetrics) QueryCompleted(sources int, err error) {
	m.queries = append(m.queries, sources)
	m.errs = append(m.errs, err)
}

func (m *mockMetrics) ExternalCall(string, time.Duration, error) {}

var errProvider = errors.New("provider exploded")

func noEnv(string) (string, bool) { return "", false }
