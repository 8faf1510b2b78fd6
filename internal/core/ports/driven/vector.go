package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// VectorIndex stores VectorRecords and answers filtered similarity queries.
// Inserts are serialised and atomic with respect to concurrent searches.
type VectorIndex interface {
	// AddAll inserts one batch and returns the new ids in input order.
	// Fails with domain.ErrDimensionMismatch without inserting anything when any
	// vector's size differs from the index dimension.
	AddAll(ctx context.Context, vectors [][]float32, segments []domain.Segment) ([]domain.RecordID, error)

	// Search returns at most topK records matching filter with score >= minScore,
	// by descending score then ascending id. No match is an empty result, not an error.
	Search(
		ctx context.Context, query []float32, filter domain.FilterPredicate, minScore float64, topK int,
	) (domain.RetrievalResult, error)

	// Restore loads previously persisted records, keeping their ids.
	Restore(ctx context.Context, records []domain.VectorRecord) error

	// Len returns the number of indexed records.
	Len() int

	// Dimensions returns the established dimension, or 0 when empty.
	Dimensions() int

	// Close releases resources.
	Close() error
}
