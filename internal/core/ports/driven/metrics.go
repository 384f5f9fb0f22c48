package driven

import "time"

// MetricsRecorder observes pipeline outcomes.
type MetricsRecorder interface {
	// IngestCompleted records an ingestion attempt. err is nil on success.
	IngestCompleted(source string, chunks, dropped int, err error)

	// QueryCompleted records a question. sources is the number of chunks
	// used as context.
	QueryCompleted(sources int, err error)

	// ExternalCall records the latency of a call to an outside service.
	ExternalCall(service string, elapsed time.Duration, err error)
}

// NopMetrics discards everything.
type NopMetrics struct{}

// IngestCompleted does nothing.
func (NopMetrics) IngestCompleted(string, int, int, error) {}

// QueryCompleted does nothing.
func (NopMetrics) QueryCompleted(int, error) {}

// ExternalCall does nothing.
func (NopMetrics) ExternalCall(string, time.Duration, error) {}
