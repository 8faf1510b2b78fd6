package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func testRecord(id domain.RecordID, text string, vector []float32, md domain.Metadata) domain.VectorRecord {
	return domain.VectorRecord{
		ID:     id,
		Vector: vector,
		Segment: domain.Segment{
			ID:         "seg-" + text,
			DocumentID: "doc-1",
			Text:       text,
			Position:   int(id) - 1,
			Start:      0,
			End:        len([]rune(text)),
			Metadata:   md.Clone(),
		},
		Metadata: md,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "groundrag.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RecordStore().SaveRecords(ctx, []domain.VectorRecord{
		testRecord(1, "a", []float32{1, 0}, nil),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.RecordStore().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	input := []domain.VectorRecord{
		testRecord(7, "regras de férias", []float32{0.5, -0.25, 1.5}, domain.Metadata{"categoria": "rh"}),
		testRecord(3, "plano de saúde", []float32{0, 1, 0}, domain.Metadata{"categoria": "beneficios"}),
	}
	require.NoError(t, records.SaveRecords(ctx, input))

	loaded, err := records.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Ids are assigned by the store in batch order.
	assert.Equal(t, domain.RecordID(1), loaded[0].ID)
	assert.Equal(t, domain.RecordID(2), loaded[1].ID)

	assert.Equal(t, []float32{0.5, -0.25, 1.5}, loaded[0].Vector)
	assert.Equal(t, "regras de férias", loaded[0].Segment.Text)
	assert.Equal(t, "doc-1", loaded[0].Segment.DocumentID)
	assert.Equal(t, domain.Metadata{"categoria": "rh"}, loaded[0].Metadata)
	assert.Equal(t, domain.Metadata{"categoria": "rh"}, loaded[0].Segment.Metadata)
	assert.Equal(t, "plano de saúde", loaded[1].Segment.Text)
}

func TestRecordStore_NoMetadata(t *testing.T) {
	store := setupTestStore(t)
	records := store.RecordStore()
	ctx := context.Background()

	require.NoError(t, records.SaveRecords(ctx, []domain.VectorRecord{
		testRecord(1, "sem metadados", []float32{1}, nil),
	}))

	loaded, err := records.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Empty(t, loaded[0].Metadata)
}

func TestRecordStore_EmptyBatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordStore().SaveRecords(ctx, nil))

	count, err := store.RecordStore().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordStore_SameIDsFromTwoWriters(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	server, err := NewStore(dir)
	require.NoError(t, err)
	defer server.Close()

	cli, err := NewStore(dir)
	require.NoError(t, err)
	defer cli.Close()

	// Both processes number their first record 1.
	require.NoError(t, cli.RecordStore().SaveRecords(ctx, []domain.VectorRecord{
		testRecord(1, "do cli", []float32{1, 0}, nil),
	}))
	require.NoError(t, server.RecordStore().SaveRecords(ctx, []domain.VectorRecord{
		testRecord(1, "do servidor", []float32{0, 1}, nil),
		testRecord(2, "também do servidor", []float32{1, 1}, nil),
	}))

	loaded, err := server.RecordStore().LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "do cli", loaded[0].Segment.Text)
	assert.Equal(t, "do servidor", loaded[1].Segment.Text)
	assert.Equal(t, "também do servidor", loaded[2].Segment.Text)
	assert.Equal(t, domain.RecordID(3), loaded[2].ID)
}

func TestRecordStore_CancelledContextSavesNothing(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RecordStore().SaveRecords(ctx, []domain.VectorRecord{
		testRecord(1, "a", []float32{1}, nil),
	})
	require.Error(t, err)

	count, err := store.RecordStore().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunStore_SaveAndList(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		start := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, runs.Save(ctx, domain.IngestRun{
			ID:         id,
			Location:   "./docs",
			Status:     domain.RunSucceeded,
			Documents:  i + 1,
			Segments:   (i + 1) * 10,
			StartedAt:  start,
			FinishedAt: start.Add(2 * time.Second),
		}))
	}

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-3", all[0].ID)
	assert.Equal(t, "run-1", all[2].ID)
	assert.Equal(t, 2*time.Second, all[0].Duration())
	assert.True(t, all[0].StartedAt.Equal(base.Add(2*time.Minute)))

	limited, err := runs.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-2", limited[1].ID)
}

func TestRunStore_Upsert(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()
	now := time.Now()

	run := domain.IngestRun{ID: "run-1", Location: "./docs", Status: domain.RunFailed, Error: "boom", StartedAt: now, FinishedAt: now}
	require.NoError(t, runs.Save(ctx, run))

	run.Status = domain.RunSucceeded
	run.Error = ""
	require.NoError(t, runs.Save(ctx, run))

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.RunSucceeded, all[0].Status)
	assert.Empty(t, all[0].Error)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -3.25, 1e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
