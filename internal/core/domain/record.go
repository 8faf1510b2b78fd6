package domain

// RecordID identifies a VectorRecord. Ids are assigned by the index
// and strictly increase in insertion order.
type RecordID uint64

// VectorRecord is the indexed unit. It is also the persisted unit.
type VectorRecord struct {
	ID       RecordID
	Vector   []float32
	Segment  Segment
	Metadata Metadata
}

// ScoredSegment is a single retrieval hit.
type ScoredSegment struct {
	// RecordID is the matched record.
	RecordID RecordID

	// Segment is the matched segment.
	Segment Segment

	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// RetrievalResult is ordered by descending score, ties by ascending record id.
type RetrievalResult []ScoredSegment

// Empty reports whether nothing was retrieved.
func (r RetrievalResult) Empty() bool {
	return len(r) == 0
}

// Texts returns the segment texts in result order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r))
	for i := range r {
		texts[i] = r[i].Segment.Text
	}
	return texts
}
