package mcp

import (
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions from stored knowledge.
	Query driving.QueryService

	// Ingest adds notes and web pages. Optional; ingest tools are not
	// registered without it.
	Ingest driving.IngestService

	// Items lists stored items. Optional.
	Items driving.ItemService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
