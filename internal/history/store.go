// Package history keeps per-session conversation transcripts.
//
// A Store is purely in-memory unless it is given a repository, in which case
// transcripts are hydrated from it on first reference and every append is
// written through before it becomes visible in memory.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/m2tx/session_chat/internal/model"
	"github.com/m2tx/session_chat/internal/repository"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Store maps session identifiers to transcripts.
type Store struct {
	mu       sync.Mutex
	sessions *orderedmap.OrderedMap[string, *Transcript]
	repo     repository.SessionRepository
}

// NewMemoryStore creates a Store whose transcripts live only for the
// lifetime of the process.
func NewMemoryStore() *Store {
	return NewStore(nil)
}

// NewStore creates a Store backed by repo. A nil repo gives a memory-only store.
func NewStore(repo repository.SessionRepository) *Store {
	return &Store{
		sessions: orderedmap.New[string, *Transcript](),
		repo:     repo,
	}
}

// GetOrCreate returns the transcript for sessionID, creating an empty one on
// first reference. Repeated calls return the same *Transcript.
func (s *Store) GetOrCreate(ctx context.Context, sessionID string) (*Transcript, error) {
	if t, ok := s.lookup(sessionID); ok {
		return t, nil
	}

	var stored []model.Turn
	if s.repo != nil {
		var err error
		stored, err = s.repo.Load(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("history: load session %q: %w", sessionID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have hydrated the same session while we were loading
	if t, ok := s.sessions.Get(sessionID); ok {
		return t, nil
	}

	t := &Transcript{id: sessionID, turns: stored}
	s.sessions.Set(sessionID, t)

	return t, nil
}

// Append adds turns to t as one update. With a repository the turns are
// persisted first; if that fails the in-memory transcript is left as it was.
func (s *Store) Append(ctx context.Context, t *Transcript, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	if s.repo != nil {
		if err := s.repo.Append(ctx, t.id, turns...); err != nil {
			return fmt.Errorf("history: append session %q: %w", t.id, err)
		}
	}

	t.append(turns...)

	return nil
}

// Delete forgets a session, both in memory and in the repository.
// Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if s.repo != nil {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("history: delete session %q: %w", sessionID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Delete(sessionID)

	return nil
}

// Sessions lists the sessions referenced so far, oldest first.
func (s *Store) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, s.sessions.Len())
	for pair := s.sessions.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}

	return ids
}

// Close drops every in-memory transcript. Persisted sessions are untouched.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = orderedmap.New[string, *Transcript]()
}

func (s *Store) lookup(sessionID string) (*Transcript, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Get(sessionID)
}
