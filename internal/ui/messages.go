package ui

import (
	"sync"
	"time"
)

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Timestamp time.Time
}

// MessageLogger keeps the last few status messages for `:messages`
type MessageLogger struct {
	mu       sync.Mutex
	messages []Message
	maxSize  int
	now      func() time.Time
}

// NewMessageLogger creates a new message logger with the specified max size
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{maxSize: maxSize, now: time.Now}
}

// Add records text; empty text is ignored
func (ml *MessageLogger) Add(text string) {
	if text == "" {
		return
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.messages = append(ml.messages, Message{Text: text, Timestamp: ml.now()})
	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// Newest returns the messages, newest first
func (ml *MessageLogger) Newest() []Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	result := make([]Message, len(ml.messages))
	for i, msg := range ml.messages {
		result[len(ml.messages)-1-i] = msg
	}
	return result
}

// Count returns the number of messages in the logger
func (ml *MessageLogger) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.messages)
}
