package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// Retriever embeds a query and searches the index under the compiled filter.
type Retriever struct {
	filters   *FilterCompiler
	embedding driven.EmbeddingService
	index     driven.VectorIndex
}

// NewRetriever creates a retriever.
func NewRetriever(filters *FilterCompiler, embedding driven.EmbeddingService, index driven.VectorIndex) *Retriever {
	return &Retriever{
		filters:   filters,
		embedding: embedding,
		index:     index,
	}
}

// Retrieve returns at most topK segments scoring at least minScore.
// An empty result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, minScore float64, topK int) (domain.RetrievalResult, error) {
	filter := r.filters.Compile(query)
	logger.Debug("Filter: %s", filter)

	vector, err := r.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	result, err := r.index.Search(ctx, vector, filter, minScore, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	logger.Debug("Retrieved %d segments (minScore=%.2f, topK=%d)", len(result), minScore, topK)
	for i, hit := range result {
		logger.Debug("  %d. record=%d score=%.4f", i+1, hit.RecordID, hit.Score)
	}

	return result, nil
}
