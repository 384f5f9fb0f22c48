package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// ErrMissingPorts is returned when a required service is not provided.
var ErrMissingPorts = errors.New("api: ingest, query, items and admin services are required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Ingest driving.IngestService
	Query  driving.QueryService
	Items  driving.ItemService
	Admin  driving.AdminService

	// Metrics serves GET /metrics. Optional.
	Metrics http.Handler

	// Check pings the AI providers for GET /healthz?deep=1. Optional.
	Check func(ctx context.Context) error
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Ingest == nil || p.Query == nil || p.Items == nil || p.Admin == nil {
		return ErrMissingPorts
	}
	return nil
}
