package services

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService exposes the ingestion ledger.
type RunService struct {
	store driven.RunStore
}

// NewRunService creates a run service.
func NewRunService(store driven.RunStore) *RunService {
	return &RunService{store: store}
}

// List returns the newest runs first.
func (s *RunService) List(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	return s.store.List(ctx, limit)
}
