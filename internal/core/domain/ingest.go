package domain

import (
	"fmt"
	"time"
)

// IngestReport summarises one ingestion run for the caller.
type IngestReport struct {
	// RunID identifies the run in the run ledger.
	RunID string

	// Location is the corpus location that was loaded.
	Location string

	// Documents is the number of documents loaded.
	Documents int

	// Segments is the number of segments indexed.
	Segments int

	// Message is the human-readable outcome, also set on failure.
	Message string
}

// SuccessMessage formats the report line for a completed run.
func SuccessMessage(documents, segments int) string {
	return fmt.Sprintf("Treinamento concluído. Documentos processados: %d, segmentos ingeridos: %d.", documents, segments)
}

// EmptyCorpusMessage formats the report line for a location with no documents.
func EmptyCorpusMessage(location string) string {
	return "Nenhum documento encontrado no caminho: " + location
}

// FailedIngestMessage formats the report line for a failed run.
func FailedIngestMessage(err error) string {
	return "Falha no treinamento: " + err.Error()
}

// RunStatus is the terminal state of an ingestion run.
type RunStatus string

// Run statuses.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// IngestRun is a ledger entry for one ingestion run.
type IngestRun struct {
	ID         string
	Location   string
	Status     RunStatus
	Documents  int
	Segments   int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r IngestRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
