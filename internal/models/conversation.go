package models

import (
	"fmt"
	"strings"
	"time"
)

// ChatMessage is a single message in a conversation session
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a chat session scoped to a website context
type Conversation struct {
	SessionID      string        `json:"session_id"`
	WebsiteContext string        `json:"website_context"`
	Messages       []ChatMessage `json:"messages"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// AddMessage appends a message to the conversation
func (c *Conversation) AddMessage(role, content string) {
	now := time.Now()
	c.Messages = append(c.Messages, ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	c.UpdatedAt = now
}

// History returns the most recent maxMessages messages
func (c *Conversation) History(maxMessages int) []ChatMessage {
	if maxMessages <= 0 || len(c.Messages) <= maxMessages {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-maxMessages:]
}

// FormatForPrompt renders recent history for inclusion in an LLM prompt.
// Returns an empty string when the conversation has no messages.
func (c *Conversation) FormatForPrompt(maxMessages int) string {
	history := c.History(maxMessages)
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n=== CONVERSATION HISTORY ===\n")
	for _, msg := range history {
		label := "Assistant"
		if msg.Role == "user" {
			label = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, msg.Content)
	}
	b.WriteString("=== END HISTORY ===\n")
	return b.String()
}

// SessionInfo summarizes a conversation session
type SessionInfo struct {
	SessionID      string    `json:"session_id"`
	WebsiteContext string    `json:"website_context"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
}
