package mcp

import (
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers grounded questions.
	Ask driving.AskService

	// Ingest loads a corpus location into the index.
	Ingest driving.IngestService

	// Runs exposes the ingestion run ledger.
	Runs driving.RunService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	// Runs is optional
	return nil
}
