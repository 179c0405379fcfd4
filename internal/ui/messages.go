package ui

import (
	"sync"
	"time"
)

// StatusTimeout is how long a status message stays on the status line
const StatusTimeout = 4 * time.Second

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Error     bool
	Timestamp time.Time
}

// MessageLogger keeps the status line message and the last N messages
type MessageLogger struct {
	messages []*Message
	maxSize  int
	mu       sync.Mutex
	now      func() time.Time
}

// NewMessageLogger creates a new message logger with the specified max size
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{
		messages: make([]*Message, 0, maxSize),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

// AddMessage adds an informational status message
func (ml *MessageLogger) AddMessage(text string) {
	ml.add(text, false)
}

// AddError adds an error status message
func (ml *MessageLogger) AddError(text string) {
	ml.add(text, true)
}

func (ml *MessageLogger) add(text string, isError bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if text == "" {
		return // Don't log empty messages
	}

	ml.messages = append(ml.messages, &Message{
		Text:      text,
		Error:     isError,
		Timestamp: ml.now(),
	})

	// Keep only the last maxSize messages
	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// Current returns the newest message while it has not timed out
func (ml *MessageLogger) Current() (*Message, bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if len(ml.messages) == 0 {
		return nil, false
	}
	last := ml.messages[len(ml.messages)-1]
	if ml.now().Sub(last.Timestamp) > StatusTimeout {
		return nil, false
	}
	return last, true
}

// GetMessagesReverse returns a copy of all messages, newest first
func (ml *MessageLogger) GetMessagesReverse() []*Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	result := make([]*Message, len(ml.messages))
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
