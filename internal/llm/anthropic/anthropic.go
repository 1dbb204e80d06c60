package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
)

// DefaultMaxTokens caps the length of a single reply.
const DefaultMaxTokens = 1024

// Client sends requests to the Anthropic messages API.
type Client struct {
	client    *anthropic.Client
	maxTokens int64
}

// NewClient creates an Anthropic client. Extra options are passed through to the SDK.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Client{client: &client, maxTokens: DefaultMaxTokens}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*model.Reply, error) {
	system, conversation := llm.SplitSystem(req.Turns)

	messages := make([]anthropic.MessageParam, 0, len(conversation))
	for _, t := range conversation {
		if t.Role == model.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: c.maxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: new message: %w", err)
	}

	reply := &model.Reply{FinishReason: string(msg.StopReason)}
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			reply.Parts = append(reply.Parts, model.Part{Text: tb.Text})
		}
	}

	return reply, nil
}
