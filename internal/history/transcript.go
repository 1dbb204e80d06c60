package history

import (
	"slices"
	"sync"

	"github.com/m2tx/session_chat/internal/model"
)

// Transcript is the ordered turn history of one session. It is only
// created by a Store; readers always get copies.
type Transcript struct {
	id    string
	mu    sync.RWMutex
	turns []model.Turn
}

// ID returns the session identifier the transcript is keyed by.
func (t *Transcript) ID() string {
	return t.id
}

// Turns returns a copy of the turns in insertion order.
func (t *Transcript) Turns() []model.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.turns)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.turns)
}

func (t *Transcript) append(turns ...model.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turns...)
}
