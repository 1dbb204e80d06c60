package llm

import (
	"testing"

	"github.com/m2tx/session_chat/internal/model"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "gemini model",
			input:        "gemini:gemini-2.0-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:         "openai model",
			input:        "openai:gpt-4o-mini",
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
		},
		{
			name:         "model with colon",
			input:        "openai:o1:2024-12-17",
			wantProvider: "openai",
			wantModel:    "o1:2024-12-17",
		},
		{
			name:         "bare model uses default provider",
			input:        "gemini-2.5-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.5-flash",
		},
		{
			name:         "with whitespace",
			input:        " anthropic : claude-3-5-haiku-latest ",
			wantProvider: "anthropic",
			wantModel:    "claude-3-5-haiku-latest",
		},
		{
			name:    "empty provider",
			input:   ":gpt-4",
			wantErr: true,
		},
		{
			name:    "empty model",
			input:   "openai:",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, name, err := ParseModel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseModel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", provider, tt.wantProvider)
			}
			if name != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", name, tt.wantModel)
			}
		})
	}
}

func TestSplitSystem(t *testing.T) {
	turns := []model.Turn{
		{Role: model.RoleSystem, Content: "be brief"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
		{Role: model.RoleUser, Content: "again"},
	}

	system, conversation := SplitSystem(turns)
	if system != "be brief" {
		t.Errorf("got system %q, want %q", system, "be brief")
	}
	if len(conversation) != 3 {
		t.Fatalf("got %d conversation turns, want 3", len(conversation))
	}
	if conversation[0].Content != "hi" || conversation[2].Content != "again" {
		t.Errorf("conversation order changed: %+v", conversation)
	}
}
