package driving

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// IngestService loads a corpus location and indexes it.
type IngestService interface {
	// Ingest runs one ingestion. The report's Message is always set,
	// including on failure, so callers can show it as is.
	Ingest(ctx context.Context, location string) (domain.IngestReport, error)
}

// AskService answers questions from the indexed corpus.
type AskService interface {
	// Ask returns a grounded answer, the canonical refusal or the apology.
	// An error is returned only for a blank question or when ctx is cancelled.
	Ask(ctx context.Context, session, question string) (domain.Answer, error)
}

// RunService exposes the ingestion run ledger.
type RunService interface {
	// List returns the newest runs first.
	List(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
