package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// RecordStore persists VectorRecords as (id, vector, segment, metadata).
type RecordStore interface {
	// SaveRecords stores a batch in one transaction. The store assigns its
	// own ids in batch order, so several processes may share one store;
	// the ids of the given records are not kept.
	SaveRecords(ctx context.Context, records []domain.VectorRecord) error

	// LoadRecords returns every stored record ordered by its stored id.
	LoadRecords(ctx context.Context) ([]domain.VectorRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// RunStore is the ingestion run ledger.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.IngestRun) error

	// List returns the newest runs first, at most limit (0 = all).
	List(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
