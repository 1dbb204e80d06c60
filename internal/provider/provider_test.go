package provider_test

import (
	"context"
	"testing"

	"github.com/m2tx/session_chat/internal/llm/anthropic"
	"github.com/m2tx/session_chat/internal/llm/gemini"
	"github.com/m2tx/session_chat/internal/llm/openai"
	"github.com/m2tx/session_chat/internal/provider"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := provider.New(ctx, "gemini", "key")
	if err != nil {
		t.Fatalf("gemini: %v", err)
	}
	if _, ok := c.(*gemini.Client); !ok {
		t.Errorf("gemini: got %T", c)
	}

	c, err = provider.New(ctx, "openai", "key")
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := c.(*openai.Client); !ok {
		t.Errorf("openai: got %T", c)
	}

	c, err = provider.New(ctx, "anthropic", "key")
	if err != nil {
		t.Fatalf("anthropic: %v", err)
	}
	if _, ok := c.(*anthropic.Client); !ok {
		t.Errorf("anthropic: got %T", c)
	}

	if _, err := provider.New(ctx, "ollama", "key"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
