// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	jinaextract "github.com/custodia-labs/recall/internal/adapters/driven/extractor/jina"
	jinaembed "github.com/custodia-labs/recall/internal/adapters/driven/embedding/jina"
	openaiembed "github.com/custodia-labs/recall/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/recall/internal/adapters/driven/llm/groq"
	"github.com/custodia-labs/recall/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// OpenAIBaseURL is used for the openai LLM provider when no base URL is set.
const OpenAIBaseURL = "https://api.openai.com/v1"

// Options carries collaborators shared by every adapter.
type Options struct {
	// Metrics records external call latency. Optional.
	Metrics driven.MetricsRecorder

	// Prompts supplies LLM prompt templates. Optional.
	Prompts driven.PromptStore

	// DisableRateLimit turns provider throttling off, for tests.
	DisableRateLimit bool
}

func (o Options) limiter(p ratelimit.Provider) *ratelimit.Limiter {
	if o.DisableRateLimit {
		return nil
	}
	return ratelimit.New(p)
}

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // nil when no LLM key is configured
	Extractor        driven.Extractor
	Warnings         []string // Non-fatal issues, such as a missing LLM key.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates every AI adapter from settings. A missing embedding provider
// is an error; a missing LLM is reported as a warning so ingestion still
// works.
func Init(settings *domain.AppSettings, opts Options) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrConfiguration)
	}

	embedder, err := CreateEmbeddingService(&settings.Embedding, opts)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured. Run 'recall settings set embedding.api_key <key>' to fix",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	result := &InitResult{
		EmbeddingService: embedder,
		Extractor:        CreateExtractor(&settings.Extractor, opts),
	}

	llm, err := CreateLLMService(&settings.LLM, opts)
	switch {
	case err != nil:
		result.Close()
		return nil, err
	case llm == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no API key for LLM provider %s; questions cannot be answered until one is set", settings.LLM.Provider))
	default:
		result.LLMService = llm
	}

	return result, nil
}

// Check pings every service in r and joins the failures.
func Check(ctx context.Context, r *InitResult) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var errs []error
	if r.EmbeddingService != nil {
		if err := r.EmbeddingService.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err))
		}
	}
	if r.LLMService != nil {
		if err := r.LLMService.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err))
		}
	}
	return errors.Join(errs...)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, opts Options) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderJina:
		return jinaembed.NewEmbeddingService(jinaembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
			BatchSize:  settings.BatchSize,
			Timeout:    settings.Timeout,
			Limiter:    opts.limiter(ratelimit.ProviderJinaEmbeddings),
			Metrics:    opts.Metrics,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
			BatchSize:  settings.BatchSize,
			Timeout:    settings.Timeout,
			Limiter:    opts.limiter(ratelimit.ProviderOpenAI),
			Metrics:    opts.Metrics,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s does not provide embeddings, use jina or openai",
			domain.ErrConfiguration, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings, opts Options) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderJina {
		return nil, fmt.Errorf("%w: jina does not provide chat completions, use groq or openai", domain.ErrConfiguration)
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	cfg := groq.Config{
		Provider: settings.Provider.String(),
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.Model,
		Timeout:  settings.Timeout,
		Prompts:  opts.Prompts,
		Metrics:  opts.Metrics,
	}

	switch settings.Provider {
	case domain.AIProviderGroq:
		cfg.Limiter = opts.limiter(ratelimit.ProviderGroq)
	case domain.AIProviderOpenAI:
		if cfg.BaseURL == "" {
			cfg.BaseURL = OpenAIBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = domain.DefaultLLMModels()[domain.AIProviderOpenAI]
		}
		cfg.Limiter = opts.limiter(ratelimit.ProviderOpenAI)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrConfiguration, settings.Provider)
	}

	svc, err := groq.NewLLMService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// CreateExtractor creates the URL extractor.
func CreateExtractor(settings *domain.ExtractorSettings, opts Options) driven.Extractor {
	cfg := jinaextract.Config{
		Limiter: opts.limiter(ratelimit.ProviderJinaReader),
		Metrics: opts.Metrics,
	}
	if settings != nil {
		cfg.ReaderURL = settings.ReaderURL
		cfg.APIKey = settings.APIKey
		cfg.Timeout = settings.Timeout
	}
	return jinaextract.NewExtractor(cfg)
}
