package ai

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message written by the human user.
	RoleUser Role = "user"
	// RoleAssistant marks a message written by the assistant.
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation history, ordered oldest first.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
