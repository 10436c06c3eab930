// ABOUTME: ChatMessage model and roles for the coach conversation.
// ABOUTME: Messages are append-only and never mutated after creation.
package models

import "time"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is a single entry in the coach conversation.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewChatMessage creates a message stamped with at in Unix milliseconds.
func NewChatMessage(id string, role Role, text string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        id,
		Role:      role,
		Text:      text,
		Timestamp: at.UnixMilli(),
	}
}

// Turn is the role and text of a message, as sent to the advisor.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Turns strips ids and timestamps from a message history.
func Turns(messages []ChatMessage) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, Turn{Role: m.Role, Text: m.Text})
	}
	return turns
}
