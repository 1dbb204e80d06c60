package model

import "time"

// Role tags who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message of a conversation.
type Turn struct {
	Role      Role      `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewTurn stamps a turn with the current time.
func NewTurn(role Role, content string) Turn {
	return Turn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Part is a single piece of a model reply.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Reply is the raw output of a model call, before text extraction.
type Reply struct {
	Parts        []Part `json:"parts"`
	FinishReason string `json:"finish_reason,omitempty"`
}
