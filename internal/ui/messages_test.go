package ui

import (
	"testing"
	"time"
)

func TestMessageLoggerKeepsNewest(t *testing.T) {
	ml := NewMessageLogger(2)
	ml.AddMessage("one")
	ml.AddMessage("")
	ml.AddError("two")
	ml.AddMessage("three")

	if ml.Count() != 2 {
		t.Errorf("Expected 2 messages, got %d", ml.Count())
	}
	msgs := ml.GetMessagesReverse()
	if msgs[0].Text != "three" {
		t.Errorf("Expected newest 'three', got '%s'", msgs[0].Text)
	}
	if msgs[1].Text != "two" || !msgs[1].Error {
		t.Errorf("Expected error 'two', got %+v", msgs[1])
	}
}

func TestMessageLoggerCurrentExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ml := NewMessageLogger(5)
	ml.now = func() time.Time { return now }

	if _, ok := ml.Current(); ok {
		t.Errorf("Empty logger should have no current message")
	}

	ml.AddError("clipboard unavailable")
	msg, ok := ml.Current()
	if !ok {
		t.Fatalf("Expected a current message")
	}
	if msg.Text != "clipboard unavailable" {
		t.Errorf("Unexpected message '%s'", msg.Text)
	}

	now = now.Add(StatusTimeout + time.Second)
	if _, ok := ml.Current(); ok {
		t.Errorf("Message should expire after %v", StatusTimeout)
	}
}
