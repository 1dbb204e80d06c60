package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m2tx/session_chat/internal/chat"
)

type promptRequest struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
}

type promptResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// New returns the HTTP API for a pipeline:
//
//	POST   /prompt   {"session_id", "prompt"} -> {"session_id", "reply"}
//	GET    /history?session_id=...            -> transcript
//	DELETE /history?session_id=...
func New(p *chat.Pipeline, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}

		if r.Method == http.MethodDelete {
			if err := p.Reset(r.Context(), sessionID); err != nil {
				logger.ErrorContext(r.Context(), "reset session", slog.String("session_id", sessionID), slog.Any("error", err))
				http.Error(w, "reset session", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		turns, err := p.History(r.Context(), sessionID)
		if err != nil {
			logger.ErrorContext(r.Context(), "get session", slog.String("session_id", sessionID), slog.Any("error", err))
			http.Error(w, "get session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, turns)
	})

	mux.HandleFunc("/prompt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req promptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}

		if req.Prompt == "" {
			http.Error(w, "prompt is required", http.StatusBadRequest)
			return
		}

		reply, err := p.Send(r.Context(), req.SessionID, req.Prompt)
		if err != nil {
			var mie *chat.ModelInvocationError
			if errors.As(err, &mie) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			logger.ErrorContext(r.Context(), "send prompt", slog.String("session_id", req.SessionID), slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, promptResponse{SessionID: req.SessionID, Reply: reply})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	_ = json.NewEncoder(w).Encode(v)
}
