// Package mcp provides an MCP (Model Context Protocol) server adapter for Recall.
// It lets AI assistants ask questions against the knowledge base and add to it.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
