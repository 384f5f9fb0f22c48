package domain

import "time"

// SourceKind records how an item entered the knowledge base.
type SourceKind string

// Available source kinds.
const (
	// SourceNote is text supplied directly by the user.
	SourceNote SourceKind = "note"

	// SourceURL is text extracted from a web page.
	SourceURL SourceKind = "url"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceNote || k == SourceURL
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Item is one unit of ingested knowledge. Items are immutable once created
// and are removed only by a global reset.
type Item struct {
	// ID is the unique identifier for the item.
	ID string

	// Content is the full text after extraction, before chunking.
	Content string

	// Source records whether the item came from a note or a URL.
	Source SourceKind

	// Origin is the URL or file path the content came from, if any.
	Origin string

	// CreatedAt is when the item was ingested.
	CreatedAt time.Time
}

// Chunk is a contiguous window of an item's text with its embedding.
// Chunks belong exclusively to one item.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ItemID links to the owning Item.
	ItemID string

	// Position is the ordinal position within the item.
	Position int

	// Text is the chunk text.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32
}

// CorpusEntry is a chunk as loaded for retrieval: its text and vector.
type CorpusEntry struct {
	ChunkID string
	ItemID  string
	Text    string
	Vector  []float32
}

// ItemSummary is an item with its chunk count, used for listings.
type ItemSummary struct {
	Item
	Chunks int
}
