package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// PostProcessor processes a loaded document during ingestion.
// PostProcessors are chained in a pipeline (metadata extraction, then chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns segments.
	// If the processor annotates the document (e.g., metadata), it returns the segments it received.
	// If the processor creates segments (e.g., chunker), it returns new segments.
	Process(ctx context.Context, doc *domain.Document, segments []domain.Segment) ([]domain.Segment, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final segments after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Segment, error)
}
