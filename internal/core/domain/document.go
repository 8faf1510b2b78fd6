package domain

import "time"

// Metadata maps string keys to string values. Keys are unique.
type Metadata map[string]string

// Clone returns an independent copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Document represents a loaded source text.
// It is created at ingestion and never mutated once metadata is attached.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID identifies where the text came from (relative file path).
	SourceID string

	// URI is the original location.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full raw text. Segments are spans of it.
	Content string

	// Metadata holds the extracted key-value attributes.
	Metadata Metadata

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Segment is a bounded span of a document's text, the unit of embedding
// and retrieval. Offsets and lengths are counted in runes.
type Segment struct {
	// ID is the unique identifier for the segment.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text equals the parent content between Start and End.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// Start is the rune offset of Text in the parent content.
	Start int

	// End is the exclusive rune offset of Text in the parent content.
	End int

	// Overlap is how many leading runes are shared with the previous segment.
	Overlap int

	// Metadata is inherited from the parent document.
	Metadata Metadata
}

// RawDocument represents bytes read by the corpus loader before normalisation.
type RawDocument struct {
	// SourceID identifies where the bytes came from.
	SourceID string

	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
