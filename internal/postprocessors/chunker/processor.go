// Package chunker splits document text into overlapping segments.
//
// Text is partitioned into contiguous pieces of at most chunkSize-overlap
// runes, preferring paragraph, line, sentence and word boundaries before
// falling back to a fixed window. Each segment is its piece prefixed with the
// overlap taken from the preceding text, so dropping every segment's overlap
// prefix and concatenating gives back the document exactly.
package chunker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of runes per segment.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 50

// Compile-time interface check.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits document content into segments.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum segment size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between consecutive segments in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidInput, p.chunkSize)
	}
	if p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidInput, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum segment size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into segments.
// Input segments are ignored; this processor creates new segments from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Segment) ([]domain.Segment, error) {
	return p.Chunk(doc), nil
}

// Split chunks every document in order.
func (p *Processor) Split(docs []domain.Document) ([]domain.Segment, error) {
	var out []domain.Segment
	for i := range docs {
		out = append(out, p.Chunk(&docs[i])...)
	}
	return out, nil
}

// Chunk splits one document. Empty content produces no segments.
func (p *Processor) Chunk(doc *domain.Document) []domain.Segment {
	if doc == nil || doc.Content == "" {
		return nil
	}

	runes := []rune(doc.Content)
	pieces := partition(runes, p.chunkSize-p.overlap)
	segments := make([]domain.Segment, 0, len(pieces))

	for i, piece := range pieces {
		prefix := min(p.overlap, piece.start)
		start := piece.start - prefix

		segments = append(segments, domain.Segment{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Text:       string(runes[start:piece.end]),
			Position:   i,
			Start:      start,
			End:        piece.end,
			Overlap:    prefix,
			Metadata:   doc.Metadata.Clone(),
		})
	}

	return segments
}

// Reconstruct rebuilds the document text from its segments in order.
func Reconstruct(segments []domain.Segment) string {
	var out []rune
	for i, s := range segments {
		r := []rune(s.Text)
		if i > 0 {
			r = r[min(s.Overlap, len(r)):]
		}
		out = append(out, r...)
	}
	return string(out)
}
