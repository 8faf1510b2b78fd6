package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultBatchSize is how many segment texts go into one embedding call.
const DefaultBatchSize = 32

// IngestService loads a corpus, segments and embeds it, and indexes the
// whole run in one batch so a failed run inserts nothing.
type IngestService struct {
	loader    driven.CorpusLoader
	pipeline  driven.PostProcessorPipeline
	embedding driven.EmbeddingService
	index     driven.VectorIndex
	records   driven.RecordStore
	runs      driven.RunStore
	batchSize int
	now       func() time.Time
}

// NewIngestService creates an ingestion service.
func NewIngestService(
	loader driven.CorpusLoader,
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		loader:    loader,
		pipeline:  pipeline,
		embedding: embedding,
		index:     index,
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
}

// SetRecordStore enables persistence of indexed records.
func (s *IngestService) SetRecordStore(store driven.RecordStore) {
	s.records = store
}

// SetRunStore enables the run ledger.
func (s *IngestService) SetRunStore(store driven.RunStore) {
	s.runs = store
}

// SetBatchSize sets the embedding batch size. Non-positive values are ignored.
func (s *IngestService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Ingest runs one ingestion of location.
func (s *IngestService) Ingest(ctx context.Context, location string) (domain.IngestReport, error) {
	run := domain.IngestRun{
		ID:        uuid.New().String(),
		Location:  location,
		StartedAt: s.now(),
	}
	report := domain.IngestReport{RunID: run.ID, Location: location}

	logger.Section("Ingestion")
	logger.Debug("Run %s: %s", run.ID, location)

	segments, docs, err := s.segment(ctx, location)
	report.Documents = docs
	if err == nil && docs == 0 {
		err = fmt.Errorf("%w: %s", domain.ErrEmptyCorpus, location)
	}
	if err == nil {
		err = s.embedAndIndex(ctx, segments)
	}

	run.Documents = docs
	run.FinishedAt = s.now()

	switch {
	case errors.Is(err, domain.ErrEmptyCorpus):
		report.Message = domain.EmptyCorpusMessage(location)
	case err != nil:
		report.Message = domain.FailedIngestMessage(err)
		logger.Error("ingestion of %s failed: %v", location, err)
	default:
		report.Segments = len(segments)
		report.Message = domain.SuccessMessage(docs, len(segments))
	}

	run.Segments = report.Segments
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
	} else {
		run.Status = domain.RunSucceeded
	}
	s.record(ctx, run)

	logger.Debug("%s", report.Message)
	return report, err
}

// segment loads location and runs every document through the pipeline.
func (s *IngestService) segment(ctx context.Context, location string) ([]domain.Segment, int, error) {
	docs, err := s.loader.Load(ctx, location)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("Loaded %d documents", len(docs))

	var segments []domain.Segment
	for i := range docs {
		segs, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, len(docs), fmt.Errorf("process %s: %w", docs[i].URI, err)
		}
		logger.Debug("  %s: %d segments", docs[i].SourceID, len(segs))
		segments = append(segments, segs...)
	}
	return segments, len(docs), nil
}

// embedAndIndex embeds all segments in batches, then inserts them at once.
func (s *IngestService) embedAndIndex(ctx context.Context, segments []domain.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	vectors := make([][]float32, 0, len(segments))
	for start := 0; start < len(segments); start += s.batchSize {
		end := min(start+s.batchSize, len(segments))
		texts := make([]string, 0, end-start)
		for _, seg := range segments[start:end] {
			texts = append(texts, seg.Text)
		}

		batch, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed segments %d-%d: %w", start, end, err)
		}
		if len(batch) != len(texts) {
			return fmt.Errorf("%w: %d embeddings for %d texts", domain.ErrInvalidResponse, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	ids, err := s.index.AddAll(ctx, vectors, segments)
	if err != nil {
		return fmt.Errorf("index segments: %w", err)
	}
	logger.Debug("Indexed %d records", len(ids))

	if s.records != nil {
		records := make([]domain.VectorRecord, len(ids))
		for i, id := range ids {
			records[i] = domain.VectorRecord{
				ID:       id,
				Vector:   vectors[i],
				Segment:  segments[i],
				Metadata: segments[i].Metadata,
			}
		}
		// The records stay searchable in this process; the run is still
		// failed so the caller knows they will be gone after a restart.
		if err := s.records.SaveRecords(ctx, records); err != nil {
			return fmt.Errorf("persist records: %w", err)
		}
	}

	return nil
}

func (s *IngestService) record(ctx context.Context, run domain.IngestRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}
