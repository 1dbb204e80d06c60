// Package llm defines the model-completion collaborator used by the chat
// pipeline. Provider backends live in subpackages (gemini, openai, anthropic).
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/m2tx/session_chat/internal/model"
)

// Request is an ordered list of role-tagged turns for one model.
type Request struct {
	Model string
	Turns []model.Turn
}

// Completer turns a request into the model's raw reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (*model.Reply, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (*model.Reply, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (*model.Reply, error) {
	return f(ctx, req)
}

// SplitSystem separates system turns from the conversation. Providers that
// take the system instruction out of band (Gemini, Anthropic) use it.
func SplitSystem(turns []model.Turn) (string, []model.Turn) {
	var system []string
	conversation := make([]model.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == model.RoleSystem {
			system = append(system, t.Content)
			continue
		}
		conversation = append(conversation, t)
	}

	return strings.Join(system, "\n\n"), conversation
}

// ParseModel parses a model string in "provider:model" format. A bare model
// name selects the default provider.
//
// Example:
//
//	provider, name, err := ParseModel("openai:gpt-4o-mini")
//	// provider = "openai", name = "gpt-4o-mini"
func ParseModel(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("model cannot be empty")
	}

	provider, name, found := strings.Cut(s, ":")
	if !found {
		return DefaultProvider, s, nil
	}

	provider = strings.TrimSpace(provider)
	name = strings.TrimSpace(name)
	if provider == "" || name == "" {
		return "", "", fmt.Errorf("invalid model format: %s (expected provider:model, e.g. gemini:gemini-2.0-flash)", s)
	}

	return provider, name, nil
}

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultProvider = ProviderGemini
)
