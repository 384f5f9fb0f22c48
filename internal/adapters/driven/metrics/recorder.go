// Package metrics records pipeline metrics with client_golang collectors
// on a private registry.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "recall"

// Outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeValidation    = "validation"
	OutcomeTransient     = "transient"
	OutcomeConfiguration = "configuration"
	OutcomeStorage       = "storage"
	OutcomeNotFound      = "not_found"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeError         = "error"
)

// Recorder implements driven.MetricsRecorder.
type Recorder struct {
	registry       *prometheus.Registry
	ingests        *prometheus.CounterVec
	ingestedChunks prometheus.Counter
	droppedChunks  prometheus.Counter
	queries        *prometheus.CounterVec
	sources        prometheus.Histogram
	externalCalls  *prometheus.HistogramVec
}

// New creates a recorder with its own registry. Go runtime and process
// collectors are registered alongside the recall metrics.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ingests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Ingestion attempts by source kind and outcome.",
		}, []string{"source", "outcome"}),
		ingestedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_chunks_total",
			Help:      "Chunks stored by successful ingestions.",
		}),
		droppedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_chunks_total",
			Help:      "Chunks discarded because an item exceeded the chunk cap.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Questions answered by outcome.",
		}, []string{"outcome"}),
		sources: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieved_sources",
			Help:      "Chunks used as context per answered question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10, 20},
		}),
		externalCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_seconds",
			Help:      "Latency of calls to embedding, LLM and extraction services.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "outcome"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ingests,
		r.ingestedChunks,
		r.droppedChunks,
		r.queries,
		r.sources,
		r.externalCalls,
	)
	return r
}

// IngestCompleted records an ingestion attempt.
func (r *Recorder) IngestCompleted(source string, chunks, dropped int, err error) {
	if source == "" {
		source = "unknown"
	}
	r.ingests.WithLabelValues(source, Outcome(err)).Inc()
	if err != nil {
		return
	}
	r.ingestedChunks.Add(float64(chunks))
	r.droppedChunks.Add(float64(dropped))
}

// QueryCompleted records a question.
func (r *Recorder) QueryCompleted(sources int, err error) {
	r.queries.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		r.sources.Observe(float64(sources))
	}
}

// ExternalCall records the latency of a call to an outside service.
func (r *Recorder) ExternalCall(service string, elapsed time.Duration, err error) {
	r.externalCalls.WithLabelValues(service, Outcome(err)).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Outcome maps err to a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return OutcomeUnauthorized
	}
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return OutcomeValidation
	case domain.ErrTransient:
		return OutcomeTransient
	case domain.ErrConfiguration:
		return OutcomeConfiguration
	case domain.ErrStorage:
		return OutcomeStorage
	default:
		return OutcomeError
	}
}
