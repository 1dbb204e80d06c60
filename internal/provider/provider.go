package provider

import (
	"context"
	"fmt"

	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/llm/anthropic"
	"github.com/m2tx/session_chat/internal/llm/gemini"
	"github.com/m2tx/session_chat/internal/llm/openai"
)

// New returns the Completer for the named provider.
func New(ctx context.Context, provider string, apiKey string) (llm.Completer, error) {
	switch provider {
	case llm.ProviderGemini:
		return gemini.NewClient(ctx, apiKey)
	case llm.ProviderOpenAI:
		return openai.NewClient(apiKey), nil
	case llm.ProviderAnthropic:
		return anthropic.NewClient(apiKey), nil
	default:
		return nil, fmt.Errorf("provider: unsupported provider: %s", provider)
	}
}
