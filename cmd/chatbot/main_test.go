package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m2tx/session_chat/assets"
	"github.com/m2tx/session_chat/internal/chat"
	"github.com/m2tx/session_chat/internal/console"
	"github.com/m2tx/session_chat/internal/history"
	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
)

func echoPipeline(failOn string) *chat.Pipeline {
	c := llm.CompleterFunc(func(ctx context.Context, req llm.Request) (*model.Reply, error) {
		last := req.Turns[len(req.Turns)-1].Content
		if failOn != "" && last == failOn {
			return nil, errors.New("quota exceeded")
		}
		return &model.Reply{Parts: []model.Part{{Text: "echo: " + last}}}, nil
	})
	return chat.New(history.NewMemoryStore(), c, "gemini-2.0-flash", "")
}

func TestRunDemo(t *testing.T) {
	queries := assets.DemoQueries()
	p := echoPipeline(queries[1])

	var buf bytes.Buffer
	if err := runDemo(context.Background(), p, "test_session_123", queries, console.NewPrinter(&buf)); err != nil {
		t.Fatalf("runDemo: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"--- Starting Chatbot Test Suite (gemini-2.0-flash) ---",
		"Session ID: test_session_123",
		"[Turn 1] User: " + queries[0],
		"[Turn 1] Bot: echo: " + queries[0],
		"Error during invocation:",
		"[Turn 5] Bot: echo: " + queries[4],
		"--- Test Suite Completed ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "[Turn 2] Bot:") {
		t.Errorf("failed turn printed a reply\n%s", out)
	}

	turns, err := p.History(context.Background(), "test_session_123")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if got, want := len(turns), 2*(len(queries)-1); got != want {
		t.Errorf("got %d turns, want %d", got, want)
	}
}

func TestRunDemo_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runDemo(ctx, echoPipeline(""), "s", []string{"one", "two"}, console.NewPrinter(&buf))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if strings.Contains(buf.String(), "[Turn 2]") {
		t.Errorf("demo continued after cancellation\n%s", buf.String())
	}
}

func TestRunChat(t *testing.T) {
	p := echoPipeline("boom")
	in := strings.NewReader("hello\n\nboom\n/history\n/reset\nagain\n/exit\nignored\n")

	var buf bytes.Buffer
	if err := runChat(context.Background(), p, "s1", in, &buf); err != nil {
		t.Fatalf("runChat: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[Turn 1] Bot: echo: hello",
		"Error during invocation:",
		"user: hello",
		"assistant: echo: hello",
		"Session s1 cleared.",
		"[Turn 1] Bot: echo: again",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "ignored") {
		t.Errorf("input after /exit was processed\n%s", out)
	}

	turns, err := p.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 || turns[0].Content != "again" {
		t.Errorf("unexpected transcript after reset: %+v", turns)
	}
}

func TestRunChat_EOF(t *testing.T) {
	var buf bytes.Buffer
	if err := runChat(context.Background(), echoPipeline(""), "s1", strings.NewReader("hi\n"), &buf); err != nil {
		t.Fatalf("runChat: %v", err)
	}
	if !strings.Contains(buf.String(), "[Turn 1] Bot: echo: hi") {
		t.Errorf("unexpected output\n%s", buf.String())
	}
}
