// Package llm provides LLM-based resale price estimation, abstracted behind
// interfaces for testability. Backends speak to a concrete provider; the
// Pricer turns a backend into a structured price estimator.
package llm

import (
	"context"
	"strings"
)

// FormatJSON is the format string for requesting JSON mode from LLM backends.
const FormatJSON = "json"

// Role tags a message in a conversation.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest defines the input for an LLM generation call.
type GenerateRequest struct {
	Messages    []Message
	Format      string // FormatJSON for JSON mode
	Temperature float64
	MaxTokens   int
}

// System returns the concatenated system messages, for providers that take
// the system prompt out of band.
func (r *GenerateRequest) System() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Conversation returns the non-system messages in order.
func (r *GenerateRequest) Conversation() []Message {
	out := make([]Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// TokenUsage tracks LLM token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// LLMBackend defines the interface for LLM text generation.
type LLMBackend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
