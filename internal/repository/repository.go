package repository

import (
	"context"

	"github.com/m2tx/session_chat/internal/model"
)

// SessionRepository defines persistence operations for conversation transcripts.
type SessionRepository interface {
	// Append adds turns to the end of the stored transcript for a session,
	// creating the session if needed. All turns are written in one update.
	Append(ctx context.Context, sessionID string, turns ...model.Turn) error

	// Load retrieves the stored transcript for a given session.
	// Returns nil, nil if the session does not exist.
	Load(ctx context.Context, sessionID string) ([]model.Turn, error)

	// Delete removes the stored transcript for a given session.
	// Is a no-op if the session does not exist.
	Delete(ctx context.Context, sessionID string) error
}
