// Package groq provides an LLM service adapter for OpenAI-compatible chat
// APIs. Groq is the default; pointing BaseURL at api.openai.com serves OpenAI.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/recall/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/recall/internal/adapters/driven/transport"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the chat service.
type Config struct {
	// Provider names the service in logs, errors and metrics (default: groq).
	Provider string

	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Model is the chat model to use (default: llama-3.3-70b-versatile).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Prompts supplies the answer prompts. Defaults are used when nil.
	Prompts driven.PromptStore

	// Limiter throttles requests. Optional.
	Limiter *ratelimit.Limiter

	// Metrics records call latency. Optional.
	Metrics driven.MetricsRecorder
}

// LLMService answers questions through a chat completions endpoint.
type LLMService struct {
	provider string
	client   *openai.Client
	http     *http.Client
	model    string
	prompts  driven.PromptStore
	limiter  *ratelimit.Limiter
	metrics  driven.MetricsRecorder
}

// NewLLMService creates a new chat LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.Provider == "" {
		cfg.Provider = string(domain.AIProviderGroq)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w: API key is required", cfg.Provider, domain.ErrLLMUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = driven.NopMetrics{}
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = httpClient

	return &LLMService{
		provider: cfg.Provider,
		client:   openai.NewClientWithConfig(clientCfg),
		http:     httpClient,
		model:    cfg.Model,
		prompts:  cfg.Prompts,
		limiter:  cfg.Limiter,
		metrics:  cfg.Metrics,
	}, nil
}

// Answer responds to question using only contextText.
func (s *LLMService) Answer(ctx context.Context, contextText, question string) (string, error) {
	system, err := s.prompt(driven.PromptAnswerSystem)
	if err != nil {
		return "", err
	}
	user, err := s.prompt(driven.PromptAnswerUser)
	if err != nil {
		return "", err
	}

	messages := []driven.ChatMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(user, contextText, question)},
	}
	return s.Chat(ctx, messages, driven.ChatOptions{})
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (reply string, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", transport.CallError(s.provider, err)
	}

	started := time.Now()
	defer func() { s.metrics.ExternalCall(s.provider, time.Since(started), err) }()

	req := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		err = transport.OpenAIError(s.provider, err)
		if errors.Is(err, domain.ErrRateLimited) {
			s.limiter.Backoff(ratelimit.DefaultBackoff)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w: no choices in response", s.provider, domain.ErrTransient)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *LLMService) prompt(name string) (string, error) {
	if s.prompts == nil {
		return driven.DefaultPrompts[name], nil
	}
	text, err := s.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("%s: load prompt %s: %w", s.provider, name, err)
	}
	return text, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%s: ping failed: %w", s.provider, transport.OpenAIError(s.provider, err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.http.CloseIdleConnections()
	return nil
}
