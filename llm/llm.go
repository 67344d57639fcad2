// Package llm defines the generation backend boundary: a role-tagged
// message sequence in, text out. Backends may fail or refuse; callers
// map both to a user-safe fallback, never a crash.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrBlocked is returned when the backend refuses to answer on safety
// grounds. Callers substitute a fallback reply.
var ErrBlocked = errors.New("llm: response blocked by safety filter")

// ErrNoContent is returned when the backend produced no usable text.
var ErrNoContent = errors.New("llm: backend returned no text content")

// Backend generates a text reply from a message sequence.
type Backend interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// System is a convenience constructor for a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User is a convenience constructor for a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant is a convenience constructor for an assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
