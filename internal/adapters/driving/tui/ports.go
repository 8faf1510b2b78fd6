// Package tui provides an interactive chat terminal user interface for groundrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers grounded questions.
	Ask driving.AskService

	// Ingest runs /ingest commands typed in the chat. Optional.
	Ingest driving.IngestService

	// Session is the conversation session for every question.
	Session string
}

// Validate ensures all required ports are set and fills defaults.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Session == "" {
		p.Session = domain.DefaultSession
	}
	return nil
}
