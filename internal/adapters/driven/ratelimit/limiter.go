// Package ratelimit throttles outbound calls to AI providers.
package ratelimit

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Provider identifies an external service for rate limiting purposes.
type Provider string

const (
	// ProviderJinaEmbeddings is the Jina embeddings API.
	ProviderJinaEmbeddings Provider = "jina_embeddings"
	// ProviderJinaReader is the Jina reader service.
	ProviderJinaReader Provider = "jina_reader"
	// ProviderGroq is the Groq chat API.
	ProviderGroq Provider = "groq"
	// ProviderOpenAI is the OpenAI API.
	ProviderOpenAI Provider = "openai"
)

// Config holds rate limiting configuration for a provider.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultLimits are below the providers' free-tier limits.
var DefaultLimits = map[Provider]Config{
	ProviderJinaEmbeddings: {RequestsPerSecond: 5, BurstSize: 5},
	ProviderJinaReader:     {RequestsPerSecond: 2, BurstSize: 4},
	ProviderGroq:           {RequestsPerSecond: 0.5, BurstSize: 5},
	ProviderOpenAI:         {RequestsPerSecond: 5, BurstSize: 10},
}

// DefaultBackoff is used when a 429 response carries no Retry-After.
const DefaultBackoff = 30 * time.Second

// Limiter is a token bucket with an optional backoff window after a 429.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// New creates a limiter for provider using DefaultLimits.
func New(provider Provider) *Limiter {
	cfg, ok := DefaultLimits[provider]
	if !ok {
		cfg = Config{RequestsPerSecond: 5, BurstSize: 10}
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a limiter with custom configuration.
func NewWithConfig(cfg Config) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		now:     time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by Backoff.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := retryAt.Sub(l.now()); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Backoff records a rate limit response. The next Wait blocks until
// retryAfter has elapsed.
func (l *Limiter) Backoff(retryAfter time.Duration) {
	if l == nil {
		return
	}
	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.retryAt = l.now().Add(retryAfter)
}

// ParseRetryAfter reads a Retry-After header given in seconds.
// HTTP-date values and garbage return 0.
func ParseRetryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
