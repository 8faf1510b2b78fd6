package driven

import (
	"context"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

// ConversationMemory keeps a bounded FIFO window of turns per session.
type ConversationMemory interface {
	// Acquire takes the session's lock. Waiting is abandoned when ctx ends.
	// Different sessions never contend.
	Acquire(ctx context.Context, session string) (release func(), err error)

	// Window returns the session's turns, oldest first.
	Window(session string) []domain.ConversationTurn

	// Append adds turns in order, evicting the oldest on overflow.
	Append(session string, turns ...domain.ConversationTurn)

	// Forget discards a session.
	Forget(session string)

	// Sessions returns the number of live sessions.
	Sessions() int
}
