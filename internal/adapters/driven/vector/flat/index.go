// Package flat provides an exact, in-memory vector index.
//
// Search is an exhaustive cosine scan over the records that satisfy the
// filter, which is adequate for corpora of a few thousand segments.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Compile-time interface check.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	record domain.VectorRecord
	norm   float64
}

// Index is a thread-safe flat vector index.
// Writers hold the write lock for a whole batch, readers share the read lock.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	nextID     domain.RecordID
	entries    []entry
	closed     bool
}

// New creates an empty index. A dimensions value of 0 lets the first batch
// establish it.
func New(dimensions int) *Index {
	return &Index{
		dimensions: dimensions,
		nextID:     1,
	}
}

// AddAll inserts one record per (vector, segment) pair and returns their ids.
// The batch is validated before any mutation, so a rejected batch leaves the
// index untouched.
func (x *Index) AddAll(ctx context.Context, vectors [][]float32, segments []domain.Segment) ([]domain.RecordID, error) {
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("%w: %d vectors for %d segments", domain.ErrInvalidInput, len(vectors), len(segments))
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil, fmt.Errorf("%w: index closed", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims := x.dimensions
	if dims == 0 {
		dims = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), dims)
		}
	}

	ids := make([]domain.RecordID, len(vectors))
	for i := range vectors {
		ids[i] = x.nextID
		x.nextID++

		seg := segments[i]
		x.entries = append(x.entries, newEntry(domain.VectorRecord{
			ID:       ids[i],
			Vector:   append([]float32(nil), vectors[i]...),
			Segment:  seg,
			Metadata: seg.Metadata.Clone(),
		}))
	}
	x.dimensions = dims

	return ids, nil
}

// Restore loads persisted records, keeping their ids. The next id continues
// after the largest restored id.
func (x *Index) Restore(_ context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dims := x.dimensions
	if dims == 0 {
		dims = len(records[0].Vector)
	}
	for _, r := range records {
		if len(r.Vector) == 0 || len(r.Vector) != dims {
			return fmt.Errorf("%w: record %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, r.ID, len(r.Vector), dims)
		}
	}

	for _, r := range records {
		x.entries = append(x.entries, newEntry(r))
		if r.ID >= x.nextID {
			x.nextID = r.ID + 1
		}
	}
	sort.SliceStable(x.entries, func(i, j int) bool {
		return x.entries[i].record.ID < x.entries[j].record.ID
	})
	x.dimensions = dims

	return nil
}

// Search returns up to topK records matching filter whose cosine similarity
// with query is at least minScore, best first and ties by ascending id.
func (x *Index) Search(
	ctx context.Context,
	query []float32,
	filter domain.FilterPredicate,
	minScore float64,
	topK int,
) (domain.RetrievalResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if topK <= 0 || len(x.entries) == 0 {
		return domain.RetrievalResult{}, nil
	}
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dimensions)
	}

	qNorm := norm(query)
	hits := make(domain.RetrievalResult, 0, topK)

	for i := range x.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		e := &x.entries[i]
		if !filter.Matches(e.record.Metadata) {
			continue
		}
		score := cosine(query, qNorm, e.record.Vector, e.norm)
		if score < minScore {
			continue
		}
		hits = append(hits, domain.ScoredSegment{
			RecordID: e.record.ID,
			Segment:  e.record.Segment,
			Score:    score,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].RecordID < hits[j].RecordID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	return hits, nil
}

// Records returns a snapshot of all records in id order.
func (x *Index) Records() []domain.VectorRecord {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]domain.VectorRecord, len(x.entries))
	for i := range x.entries {
		out[i] = x.entries[i].record
	}
	return out
}

// Len returns the number of records.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Dimensions returns the established dimension, or 0 before the first batch.
func (x *Index) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimensions
}

// Close releases the records. Further writes fail.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.closed = true
	return nil
}

func newEntry(r domain.VectorRecord) entry {
	return entry{record: r, norm: norm(r.Vector)}
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero norm.
func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
