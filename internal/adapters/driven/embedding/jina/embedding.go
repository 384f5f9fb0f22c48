// Package jina provides an embedding service adapter for the Jina AI API.
package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/recall/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/recall/internal/adapters/driven/transport"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.jina.ai/v1"
	DefaultModel      = "jina-embeddings-v3"
	DefaultTask       = "retrieval.passage"
	DefaultDimensions = 768
	DefaultBatchSize  = 100
	DefaultTimeout    = 30 * time.Second
)

const providerName = "jina"

// Config holds configuration for the Jina embedding service.
type Config struct {
	// APIKey is the Jina API key. Optional; anonymous requests get a lower rate limit.
	APIKey string

	// BaseURL is the API base URL (default: https://api.jina.ai/v1).
	BaseURL string

	// Model is the embedding model to use (default: jina-embeddings-v3).
	Model string

	// Task selects the task-specific adapter (default: retrieval.passage).
	Task string

	// Dimensions is the requested vector length (default: 768).
	Dimensions int

	// BatchSize is the maximum number of inputs per request (default: 100).
	BatchSize int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Limiter throttles requests. Optional.
	Limiter *ratelimit.Limiter

	// Metrics records call latency. Optional.
	Metrics driven.MetricsRecorder
}

// EmbeddingService generates embeddings using the Jina API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	task       string
	dimensions int
	batchSize  int
	limiter    *ratelimit.Limiter
	metrics    driven.MetricsRecorder
}

// embeddingRequest is the Jina API request format.
type embeddingRequest struct {
	Model      string   `json:"model"`
	Task       string   `json:"task,omitempty"`
	Dimensions int      `json:"dimensions,omitempty"`
	Input      []string `json:"input"`
}

// embeddingResponse is the Jina API response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Detail string `json:"detail,omitempty"`
}

// NewEmbeddingService creates a new Jina embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Task == "" {
		cfg.Task = DefaultTask
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = driven.NopMetrics{}
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		task:       cfg.Task,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
		limiter:    cfg.Limiter,
		metrics:    cfg.Metrics,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for texts, sending at most BatchSize
// inputs per request. Vectors are returned in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		if start > 0 {
			logger.Debug("jina: embedding batch %d-%d of %d", start, end, len(texts))
		}

		batch, err := s.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, transport.CallError(providerName, err)
	}

	started := time.Now()
	defer func() { s.metrics.ExternalCall("jina_embeddings", time.Since(started), err) }()

	jsonBody, err := json.Marshal(embeddingRequest{
		Model:      s.model,
		Task:       s.task,
		Dimensions: s.dimensions,
		Input:      texts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, transport.CallError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transport.CallError(providerName, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			s.limiter.Backoff(ratelimit.ParseRetryAfter(resp.Header.Get("Retry-After")))
		}
		return nil, transport.StatusError(providerName, resp.StatusCode, body)
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("%s: %w: decode response: %w", providerName, domain.ErrTransient, err)
	}

	return s.order(texts, embedResp)
}

// order places each returned vector at its input index and checks that
// every input got a vector of the expected length.
func (s *EmbeddingService) order(texts []string, resp embeddingResponse) ([][]float32, error) {
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%s: %w: got %d embeddings for %d inputs",
			providerName, domain.ErrTransient, len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) || embeddings[data.Index] != nil {
			return nil, fmt.Errorf("%s: %w: invalid embedding index %d", providerName, domain.ErrTransient, data.Index)
		}
		if len(data.Embedding) != s.dimensions {
			return nil, fmt.Errorf("%s: %w: expected %d dimensions, got %d",
				providerName, domain.ErrDimensionMismatch, s.dimensions, len(data.Embedding))
		}
		embeddings[data.Index] = data.Embedding
	}

	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service by embedding a single short input.
// Jina has no model listing endpoint to check cheaply.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.embed(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("jina: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
