package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Verify interface implementation at compile time.
var _ driven.RecordStore = (*recordStore)(nil)

// recordStore implements driven.RecordStore using SQLite.
type recordStore struct {
	store *Store
}

// SaveRecords stores a batch of records in one transaction.
// SQLite assigns the ids, so concurrent writers never collide.
func (r *recordStore) SaveRecords(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vector_records (
			segment_id, document_id, text, position,
			start_offset, end_offset, overlap, dimensions, vector, metadata
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		seg := rec.Segment
		_, err = stmt.ExecContext(ctx,
			seg.ID,
			seg.DocumentID,
			seg.Text,
			seg.Position,
			seg.Start,
			seg.End,
			seg.Overlap,
			len(rec.Vector),
			float32SliceToBytes(rec.Vector),
			string(metadataJSON),
		)
		if err != nil {
			return fmt.Errorf("saving segment %s: %w", seg.ID, err)
		}
	}

	return tx.Commit()
}

// LoadRecords returns every stored record ordered by id.
func (r *recordStore) LoadRecords(ctx context.Context) ([]domain.VectorRecord, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, segment_id, document_id, text, position,
		       start_offset, end_offset, overlap, vector, metadata
		FROM vector_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.VectorRecord
	for rows.Next() {
		var (
			id           int64
			seg          domain.Segment
			vectorBytes  []byte
			metadataJSON string
		)
		if err := rows.Scan(
			&id, &seg.ID, &seg.DocumentID, &seg.Text, &seg.Position,
			&seg.Start, &seg.End, &seg.Overlap, &vectorBytes, &metadataJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		var metadata domain.Metadata
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling metadata: %w", err)
			}
		}
		seg.Metadata = metadata.Clone()

		records = append(records, domain.VectorRecord{
			ID:       domain.RecordID(id),
			Vector:   bytesToFloat32Slice(vectorBytes),
			Segment:  seg,
			Metadata: metadata,
		})
	}

	return records, rows.Err()
}

// Count returns the number of stored records.
func (r *recordStore) Count(ctx context.Context) (int, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vector_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}
