package ai

import "github.com/nhle/study-dashboard/internal/model"

// maxHistory bounds how many messages of a session are sent to the model.
const maxHistory = 20

// ConversationContext is the ordered message history handed to a
// Responder, trimmed to the most recent messages.
type ConversationContext struct {
	messages    []model.ChatMessage
	maxMessages int
}

// NewConversationContext builds a context from a session's history.
func NewConversationContext(history []model.ChatMessage) *ConversationContext {
	c := &ConversationContext{
		messages:    make([]model.ChatMessage, 0, maxHistory),
		maxMessages: maxHistory,
	}
	for _, m := range history {
		c.AddMessage(m)
	}
	return c
}

// AddMessage appends a message. Past the limit the oldest messages are
// dropped, except the first one, which carries the opening question.
func (c *ConversationContext) AddMessage(m model.ChatMessage) {
	c.messages = append(c.messages, m)

	if len(c.messages) > c.maxMessages {
		trimmed := make([]model.ChatMessage, 0, c.maxMessages)
		trimmed = append(trimmed, c.messages[0])
		excess := len(c.messages) - c.maxMessages
		trimmed = append(trimmed, c.messages[1+excess:]...)
		c.messages = trimmed
	}
}

// Messages returns a copy of the history.
func (c *ConversationContext) Messages() []model.ChatMessage {
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message.
func (c *ConversationContext) Last() (model.ChatMessage, bool) {
	if len(c.messages) == 0 {
		return model.ChatMessage{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Len returns the number of messages kept.
func (c *ConversationContext) Len() int {
	return len(c.messages)
}
