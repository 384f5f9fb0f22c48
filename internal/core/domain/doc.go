// Package domain defines the core business entities for recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A unit of ingested knowledge (a note or a fetched URL)
//   - Chunk: A bounded slice of an item's text with its embedding
//   - Content: The note-or-URL variant accepted at ingestion
//   - Source: A ranked chunk returned alongside an answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
