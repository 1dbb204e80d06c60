// Package chat runs conversation turns: it assembles a request from the
// system instruction, the session transcript and the new user turn, calls the
// model and records the exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/m2tx/session_chat/internal/history"
	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
)

// DefaultSystemInstruction is used when no other instruction is configured.
const DefaultSystemInstruction = "You are a helpful Technical Assistant for Engineering and AI projects."

// Pipeline is the conversation pipeline for all sessions of a Store.
type Pipeline struct {
	store             *history.Store
	completer         llm.Completer
	model             string
	systemInstruction string
	timeout           time.Duration
	logger            *slog.Logger
	locks             *sessionLocks
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout bounds each model call. Zero disables the pipeline timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline. An empty systemInstruction falls back to
// DefaultSystemInstruction.
func New(store *history.Store, completer llm.Completer, modelName string, systemInstruction string, opts ...Option) *Pipeline {
	if systemInstruction == "" {
		systemInstruction = DefaultSystemInstruction
	}

	p := &Pipeline{
		store:             store,
		completer:         completer,
		model:             modelName,
		systemInstruction: systemInstruction,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		locks:             newSessionLocks(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Model returns the model name requests are sent to.
func (p *Pipeline) Model() string {
	return p.model
}

// Send runs one turn for sessionID and returns the model's reply text. On
// success the user turn and the reply are appended to the transcript together;
// on failure the transcript is left untouched.
func (p *Pipeline) Send(ctx context.Context, sessionID string, userText string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	unlock := p.locks.lock(sessionID)
	defer unlock()

	transcript, err := p.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("chat: get session %q: %w", sessionID, err)
	}

	userTurn := model.NewTurn(model.RoleUser, userText)
	req := p.assemble(transcript.Turns(), userTurn)

	start := time.Now()
	text, err := p.complete(ctx, req)
	if err != nil {
		p.logger.WarnContext(ctx, "model invocation failed",
			slog.String("session_id", sessionID),
			slog.String("model", p.model),
			slog.Any("error", err),
		)
		return "", &ModelInvocationError{SessionID: sessionID, Model: p.model, Err: err}
	}

	if err := p.store.Append(ctx, transcript, userTurn, model.NewTurn(model.RoleAssistant, text)); err != nil {
		return "", fmt.Errorf("chat: record turn: %w", err)
	}

	p.logger.DebugContext(ctx, "turn completed",
		slog.String("session_id", sessionID),
		slog.Int("turns", transcript.Len()),
		slog.Duration("duration", time.Since(start)),
	)

	return text, nil
}

// History returns a copy of the session transcript.
func (p *Pipeline) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	transcript, err := p.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("chat: get session %q: %w", sessionID, err)
	}

	turns := transcript.Turns()
	if turns == nil {
		return []model.Turn{}, nil
	}

	return turns, nil
}

// Reset deletes a session. It waits for any turn in flight on that session.
func (p *Pipeline) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	unlock := p.locks.lock(sessionID)
	defer unlock()

	return p.store.Delete(ctx, sessionID)
}

// assemble builds the ordered request: system turn, history, new user turn.
func (p *Pipeline) assemble(turns []model.Turn, userTurn model.Turn) llm.Request {
	request := make([]model.Turn, 0, len(turns)+2)
	request = append(request, model.Turn{Role: model.RoleSystem, Content: p.systemInstruction})
	request = append(request, turns...)
	request = append(request, userTurn)

	return llm.Request{Model: p.model, Turns: request}
}

func (p *Pipeline) complete(ctx context.Context, req llm.Request) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reply, err := p.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	// a completer that ignores ctx could return after the deadline
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return extractText(reply)
}

// extractText joins the text parts of a reply.
func extractText(reply *model.Reply) (string, error) {
	if reply == nil {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, part := range reply.Parts {
		sb.WriteString(part.Text)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		if reply.FinishReason != "" {
			return "", fmt.Errorf("%w (finish reason %s)", ErrEmptyReply, reply.FinishReason)
		}
		return "", ErrEmptyReply
	}

	return text, nil
}

// IsModelError reports whether err came from the model call.
func IsModelError(err error) bool {
	var mie *ModelInvocationError
	return errors.As(err, &mie)
}
