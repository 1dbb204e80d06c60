package chat

import (
	"errors"
	"fmt"
)

// ErrEmptySessionID is returned by Send when no session identifier is given.
var ErrEmptySessionID = errors.New("session id is required")

// ErrEmptyReply marks a model response that carried no text.
var ErrEmptyReply = errors.New("model returned no text")

// ModelInvocationError reports a failed model call. The session transcript
// is never modified when Send returns this error.
type ModelInvocationError struct {
	SessionID string
	Model     string
	Err       error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("chat: invoke model %q for session %q: %v", e.Model, e.SessionID, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
