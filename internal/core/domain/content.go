package domain

// Content is raw material submitted for ingestion. It is either a Note or
// a URLRef; no other implementations exist.
type Content interface {
	// Kind returns the source kind the ingested item will carry.
	Kind() SourceKind

	isContent()
}

// Note is text supplied directly.
type Note struct {
	// Text is the note body.
	Text string

	// Origin optionally records where the text came from, such as a file path.
	Origin string
}

// Kind returns SourceNote.
func (Note) Kind() SourceKind { return SourceNote }

func (Note) isContent() {}

// URLRef is a web page whose readable text should be ingested.
type URLRef struct {
	// URL is the absolute http(s) address to fetch.
	URL string
}

// Kind returns SourceURL.
func (URLRef) Kind() SourceKind { return SourceURL }

func (URLRef) isContent() {}
