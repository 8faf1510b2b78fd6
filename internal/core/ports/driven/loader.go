package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// CorpusLoader reads a location into documents with raw text and a source id.
// An empty result is valid and is not an error.
type CorpusLoader interface {
	Load(ctx context.Context, location string) ([]domain.Document, error)
}
