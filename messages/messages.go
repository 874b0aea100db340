// Package messages defines the LLM conversation payload schemas understood
// by the collector's run viewer.
package messages

// Role identifies the author of a message.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
	RoleTool   Role = "tool"
)

// ToolCall is a tool invocation requested by an AI message.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Message is one conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// ToolCalls is set on AI messages that request tool invocations.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID and Name are set on tool result messages.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Human builds a user message.
func Human(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AI builds an assistant message, optionally carrying tool calls.
func AI(content string, toolCalls ...ToolCall) Message {
	return Message{Role: RoleAI, Content: content, ToolCalls: toolCalls}
}

// ToolResult builds the result message for a prior tool call.
func ToolResult(toolCallID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID, Name: name}
}

// Thread wraps messages in the payload shape the collector expects for run
// inputs and outputs.
func Thread(msgs ...Message) map[string]any {
	return map[string]any{"messages": msgs}
}
