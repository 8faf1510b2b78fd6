package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationMemory = (*ConversationStore)(nil)

type session struct {
	// lock is a one-slot semaphore so that waiting can be cancelled.
	lock  chan struct{}
	turns []domain.ConversationTurn
	seq   uint64
}

// ConversationStore keeps a FIFO window of the last size turns per session.
// The session map has its own mutex; each session has its own lock.
type ConversationStore struct {
	mu       sync.Mutex
	size     int
	sessions map[string]*session
}

// NewConversationStore creates a store that keeps size turns per session.
// A size of 0 keeps no history.
func NewConversationStore(size int) *ConversationStore {
	if size < 0 {
		size = 0
	}
	return &ConversationStore{
		size:     size,
		sessions: make(map[string]*session),
	}
}

// Size returns the window bound.
func (s *ConversationStore) Size() int {
	return s.size
}

func (s *ConversationStore) get(name string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[name]
	if !ok {
		sess = &session{lock: make(chan struct{}, 1)}
		s.sessions[name] = sess
	}
	return sess
}

// Acquire serialises queries of one session.
func (s *ConversationStore) Acquire(ctx context.Context, name string) (func(), error) {
	sess := s.get(name)

	select {
	case sess.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-sess.lock })
	}, nil
}

// Window returns a copy of the session's turns, oldest first.
func (s *ConversationStore) Window(name string) []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[name]
	if !ok || len(sess.turns) == 0 {
		return nil
	}
	return append([]domain.ConversationTurn(nil), sess.turns...)
}

// Append adds turns in order and drops the oldest beyond the bound.
func (s *ConversationStore) Append(name string, turns ...domain.ConversationTurn) {
	sess := s.get(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range turns {
		sess.seq++
		t.Seq = sess.seq
		sess.turns = append(sess.turns, t)
	}
	if over := len(sess.turns) - s.size; over > 0 {
		sess.turns = append([]domain.ConversationTurn(nil), sess.turns[over:]...)
	}
}

// Forget discards the session's history.
func (s *ConversationStore) Forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[name]; ok {
		sess.turns = nil
	}
}

// Sessions returns the number of sessions seen.
func (s *ConversationStore) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
