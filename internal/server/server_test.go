package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m2tx/session_chat/internal/chat"
	"github.com/m2tx/session_chat/internal/history"
	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
	"github.com/m2tx/session_chat/internal/server"
)

func newServer(t *testing.T, c llm.Completer) *httptest.Server {
	t.Helper()
	p := chat.New(history.NewMemoryStore(), c, "gemini-2.0-flash", "")
	srv := httptest.NewServer(server.New(p, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func echo() llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, req llm.Request) (*model.Reply, error) {
		return &model.Reply{Parts: []model.Part{{Text: "echo: " + req.Turns[len(req.Turns)-1].Content}}}, nil
	})
}

func postPrompt(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/prompt", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPrompt_ThenHistory(t *testing.T) {
	srv := newServer(t, echo())

	resp := postPrompt(t, srv, `{"session_id":"s1","prompt":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}

	var out struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != "s1" || out.Reply != "echo: hello" {
		t.Errorf("unexpected response %+v", out)
	}

	hresp, err := http.Get(srv.URL + "/history?session_id=s1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer hresp.Body.Close()

	var turns []model.Turn
	if err := json.NewDecoder(hresp.Body).Decode(&turns); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(turns) != 2 || turns[0].Role != model.RoleUser || turns[1].Content != "echo: hello" {
		t.Errorf("unexpected history %+v", turns)
	}
}

func TestPrompt_Validation(t *testing.T) {
	srv := newServer(t, echo())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing session", `{"prompt":"hello"}`},
		{"missing prompt", `{"session_id":"s1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postPrompt(t, srv, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestPrompt_ModelFailureIsBadGateway(t *testing.T) {
	srv := newServer(t, llm.CompleterFunc(func(ctx context.Context, req llm.Request) (*model.Reply, error) {
		return nil, errors.New("quota exceeded")
	}))

	resp := postPrompt(t, srv, `{"session_id":"s1","prompt":"hello"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", resp.StatusCode)
	}
}

func TestPrompt_MethodNotAllowed(t *testing.T) {
	srv := newServer(t, echo())

	resp, err := http.Get(srv.URL + "/prompt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", resp.StatusCode)
	}
}

func TestHistory_Delete(t *testing.T) {
	srv := newServer(t, echo())
	postPrompt(t, srv, `{"session_id":"s1","prompt":"hello"}`)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/history?session_id=s1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", resp.StatusCode)
	}

	hresp, err := http.Get(srv.URL + "/history?session_id=s1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer hresp.Body.Close()

	var turns []model.Turn
	if err := json.NewDecoder(hresp.Body).Decode(&turns); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns after delete, want 0", len(turns))
	}
}

func TestHistory_MissingSessionID(t *testing.T) {
	srv := newServer(t, echo())

	resp, err := http.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", resp.StatusCode)
	}
}
