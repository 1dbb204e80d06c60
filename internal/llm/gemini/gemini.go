package gemini

import (
	"context"
	"fmt"

	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/model"
	"google.golang.org/genai"
)

// Client sends requests to the Gemini API.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	return New(client), nil
}

// New wraps an existing genai client.
func New(client *genai.Client) *Client {
	return &Client{client: client}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*model.Reply, error) {
	system, conversation := llm.SplitSystem(req.Turns)

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, toGenAIContents(conversation), config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	return parseResponse(resp), nil
}

// toGenAIContents converts conversation turns to genai history.
func toGenAIContents(turns []model.Turn) []*genai.Content {
	result := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := string(genai.RoleUser)
		if t.Role == model.RoleAssistant {
			role = string(genai.RoleModel)
		}

		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	return result
}

// parseResponse keeps the text parts of the first candidate that has content.
func parseResponse(resp *genai.GenerateContentResponse) *model.Reply {
	reply := &model.Reply{}
	if resp == nil {
		return reply
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			reply.Parts = append(reply.Parts, model.Part{Text: part.Text})
		}
		reply.FinishReason = string(candidate.FinishReason)

		break
	}

	return reply
}
