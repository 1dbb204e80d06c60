package openai

import (
	"context"
	"fmt"

	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client sends requests to the OpenAI chat completions API.
type Client struct {
	client *openai.Client
}

// NewClient creates an OpenAI client. Extra options (base URL, HTTP client)
// are passed through to the SDK.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Client{client: &client}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*model.Reply, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Turns))
	for i, t := range req.Turns {
		switch t.Role {
		case model.RoleSystem:
			messages[i] = openai.SystemMessage(t.Content)
		case model.RoleAssistant:
			messages[i] = openai.AssistantMessage(t.Content)
		default:
			messages[i] = openai.UserMessage(t.Content)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	reply := &model.Reply{}
	if len(resp.Choices) == 0 {
		return reply, nil
	}

	choice := resp.Choices[0]
	if choice.Message.Content != "" {
		reply.Parts = append(reply.Parts, model.Part{Text: choice.Message.Content})
	}
	reply.FinishReason = string(choice.FinishReason)

	return reply, nil
}
