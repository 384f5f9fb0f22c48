package domain

// NoKnowledgeAnswer is returned verbatim when a question is asked before
// anything has been ingested.
const NoKnowledgeAnswer = "I don't have any knowledge stored yet. Please add some content first."

// Source is a retrieved chunk and its similarity to the question.
type Source struct {
	// Text is the chunk text.
	Text string `json:"text"`

	// Score is the cosine similarity in [-1, 1].
	Score float64 `json:"score"`

	// ItemID is the item the chunk belongs to.
	ItemID string `json:"item_id,omitempty"`
}

// Answer is the result of a question.
type Answer struct {
	// Answer is the generated text.
	Answer string `json:"answer"`

	// Sources are the chunks used as context, highest score first.
	Sources []Source `json:"sources"`
}

// IngestResult describes a completed ingestion.
type IngestResult struct {
	// ItemID is the identifier of the created item.
	ItemID string

	// Source is the kind of the created item.
	Source SourceKind

	// Chunks is the number of chunks stored.
	Chunks int

	// Dropped is the number of chunks discarded by the per-item cap.
	Dropped int
}
