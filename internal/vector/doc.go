// Package vector scores embeddings against each other and ranks a corpus
// for a query vector.
//
// Retrieval is a linear scan: every stored vector is scored on every query.
// There is no index, so cost grows with corpus size.
package vector
