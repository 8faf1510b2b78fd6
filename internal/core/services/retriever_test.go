package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/groundrag/internal/core/domain"
)

func TestRetrieve_FilterBeatsHigherRawScore(t *testing.T) {
	index := flat.New(2)
	_, err := index.AddAll(context.Background(),
		[][]float32{{1, 0}, {0.9, 0.3}, {0.85, 0.4}},
		[]domain.Segment{
			{ID: "a", Text: "geral", Metadata: domain.Metadata{"section": "Geral"}},
			{ID: "b", Text: "cascata", Metadata: domain.Metadata{"sdlc_type": "sequencial"}},
			{ID: "c", Text: "ágil", Metadata: domain.Metadata{"sdlc_type": "iterativo"}},
		})
	require.NoError(t, err)

	embedding := &mockEmbedding{fallback: []float32{1, 0}}
	r := NewRetriever(NewFilterCompiler(domain.DefaultFilterRules()), embedding, index)

	result, err := r.Retrieve(context.Background(), "Explique o modelo sequencial", 0.75, 3)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "cascata", result[0].Segment.Text)
	assert.Equal(t, "sequencial", result[0].Segment.Metadata["sdlc_type"])
}

func TestRetrieve_TopKOfFiveQualifying(t *testing.T) {
	index := flat.New(2)
	vectors := [][]float32{{1, 0.25}, {1, 0.05}, {1, 0.2}, {1, 0.1}, {1, 0.15}}
	segments := make([]domain.Segment, len(vectors))
	for i := range segments {
		segments[i] = domain.Segment{ID: fmt.Sprint(i), Text: fmt.Sprintf("s%d", i)}
	}
	_, err := index.AddAll(context.Background(), vectors, segments)
	require.NoError(t, err)

	r := NewRetriever(NewFilterCompiler(nil), &mockEmbedding{fallback: []float32{1, 0}}, index)

	result, err := r.Retrieve(context.Background(), "qualquer", 0.75, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s3", "s4"}, result.Texts())
}

func TestRetrieve_EmptyIsNotAnError(t *testing.T) {
	r := NewRetriever(NewFilterCompiler(nil), &mockEmbedding{fallback: []float32{1, 0}}, flat.New(2))

	result, err := r.Retrieve(context.Background(), "nada", 0.75, 3)

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestRetrieve_PropagatesErrors(t *testing.T) {
	index := flat.New(2)
	_, err := index.AddAll(context.Background(), [][]float32{{1, 0}}, []domain.Segment{{ID: "a"}})
	require.NoError(t, err)

	failing := &mockEmbedding{err: domain.ErrTimeout}
	_, err = NewRetriever(NewFilterCompiler(nil), failing, index).Retrieve(context.Background(), "q", 0, 3)
	assert.ErrorIs(t, err, domain.ErrTimeout)

	wrongDims := &mockEmbedding{fallback: []float32{1, 0, 0}}
	_, err = NewRetriever(NewFilterCompiler(nil), wrongDims, index).Retrieve(context.Background(), "q", 0, 3)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}
