// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// AnswerReceived carries the result of one question back to the model.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// IngestCompleted carries the result of an ingestion started from the chat.
type IngestCompleted struct {
	Location string
	Report   domain.IngestReport
	Err      error
}

// EntryKind classifies a transcript entry.
type EntryKind int

const (
	// EntryQuestion is a question typed by the user.
	EntryQuestion EntryKind = iota
	// EntryAnswer is a grounded answer.
	EntryAnswer
	// EntryRefusal is the canonical refusal.
	EntryRefusal
	// EntryFailure is the apology or a transport error.
	EntryFailure
	// EntryNotice is a local message such as an ingestion report.
	EntryNotice
)

// String returns the string representation of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryQuestion:
		return "question"
	case EntryAnswer:
		return "answer"
	case EntryRefusal:
		return "refusal"
	case EntryFailure:
		return "failure"
	case EntryNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// KindFor maps an answer outcome to its transcript kind.
func KindFor(outcome domain.AnswerOutcome) EntryKind {
	switch outcome {
	case domain.OutcomeGrounded:
		return EntryAnswer
	case domain.OutcomeRefused:
		return EntryRefusal
	default:
		return EntryFailure
	}
}
