// Package jina provides a URL extractor backed by the Jina reader service,
// with a local fallback that fetches the page and extracts its text itself.
package jina

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/recall/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/recall/internal/adapters/driven/transport"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
	"github.com/custodia-labs/recall/internal/normalisers/html"
	"github.com/custodia-labs/recall/internal/normalisers/pdf"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultReaderURL = domain.DefaultReaderURL
	DefaultTimeout   = 30 * time.Second

	// MaxPageBytes bounds how much of a page is read.
	MaxPageBytes = 10 << 20
)

const (
	readerProvider = "jina_reader"
	pageProvider   = "page"
	userAgent      = "recall/1.0 (+https://github.com/custodia-labs/recall)"
)

// Config holds configuration for the extractor.
type Config struct {
	// ReaderURL is the reader prefix the page URL is appended to
	// (default: https://r.jina.ai/).
	ReaderURL string

	// DisableReader skips the reader and always fetches pages directly.
	DisableReader bool

	// APIKey is sent as a bearer token to the reader. Optional.
	APIKey string

	// Timeout bounds each HTTP request (default: 30s).
	Timeout time.Duration

	// Limiter throttles reader requests. Optional.
	Limiter *ratelimit.Limiter

	// Metrics records call latency. Optional.
	Metrics driven.MetricsRecorder
}

// Extractor turns URLs into plain text.
type Extractor struct {
	client    *http.Client
	readerURL string
	apiKey    string
	limiter   *ratelimit.Limiter
	metrics   driven.MetricsRecorder
}

// NewExtractor creates a new extractor.
func NewExtractor(cfg Config) *Extractor {
	if cfg.ReaderURL == "" && !cfg.DisableReader {
		cfg.ReaderURL = DefaultReaderURL
	}
	if cfg.DisableReader {
		cfg.ReaderURL = ""
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = driven.NopMetrics{}
	}
	if cfg.ReaderURL != "" && !strings.HasSuffix(cfg.ReaderURL, "/") {
		cfg.ReaderURL += "/"
	}

	return &Extractor{
		client:    &http.Client{Timeout: cfg.Timeout},
		readerURL: cfg.ReaderURL,
		apiKey:    cfg.APIKey,
		limiter:   cfg.Limiter,
		metrics:   cfg.Metrics,
	}
}

// Extract returns the readable text of the page at url. The reader is tried
// first; on any failure other than cancellation the page is fetched directly.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	if e.readerURL != "" {
		text, err := e.read(ctx, url)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", transport.CallError(readerProvider, ctx.Err())
		}
		logger.Debug("reader failed for %s, fetching directly: %v", url, err)
	}
	return e.fetch(ctx, url)
}

// read asks the reader service for the page text.
func (e *Extractor) read(ctx context.Context, url string) (text string, err error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", transport.CallError(readerProvider, err)
	}

	started := time.Now()
	defer func() { e.metrics.ExternalCall(readerProvider, time.Since(started), err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.readerURL+url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", transport.CallError(readerProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return "", transport.CallError(readerProvider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			e.limiter.Backoff(ratelimit.ParseRetryAfter(resp.Header.Get("Retry-After")))
		}
		return "", transport.StatusError(readerProvider, resp.StatusCode, body)
	}

	text = strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("%s: %w: empty response", readerProvider, domain.ErrTransient)
	}
	return text, nil
}

// fetch downloads the page and extracts text locally based on its
// content type.
func (e *Extractor) fetch(ctx context.Context, url string) (text string, err error) {
	started := time.Now()
	defer func() { e.metrics.ExternalCall(pageProvider, time.Since(started), err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", pageProvider, domain.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", transport.CallError(pageProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return "", transport.CallError(pageProvider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", transport.StatusError(pageProvider, resp.StatusCode, body)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/pdf":
		return pdf.New().Normalise(body, url)
	case strings.HasPrefix(mediaType, "text/plain"), mediaType == "text/markdown":
		return strings.TrimSpace(string(body)), nil
	default:
		return html.Extract(string(body), resp.Request.URL), nil
	}
}
