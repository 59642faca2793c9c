// Package llm provides abstractions for LLM provider integration.
//
// Providers handle API communication with LLM services and return plain
// messages. Tool-call orchestration (executing calls, feeding results
// back) is owned by the gateway layer, which keeps providers reusable and
// testable independently of agent logic.
package llm

import (
	"context"
)

// Role identifies a message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the model.
// Arguments is the raw JSON argument object as produced by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one turn in a conversation.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on assistant messages that request tool use.
	ToolCalls []ToolCall

	// ToolCallID links a tool-role message to the call it answers.
	ToolCallID string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolMessage creates a tool-result message answering the given call.
func ToolMessage(content, toolCallID string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// ToolDef describes one callable tool offered to the model. Schema is a
// JSON-schema object for the tool's input.
type ToolDef struct {
	Name        string
	Description string
	Schema      map[string]any
}

// CompletionRequest carries one provider call.
type CompletionRequest struct {
	Messages []Message
	Tools    []ToolDef
}

// Provider defines the interface for LLM integrations.
//
// Complete sends the conversation to the model and returns the assistant's
// next message, which either carries final content or tool calls for the
// caller to execute.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Message, error)

	// GetModel returns the model name being used.
	GetModel() string
}
