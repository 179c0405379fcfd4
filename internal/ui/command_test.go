package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/history"
)

func typeCommand(c *CommandMode, s string) (string, bool) {
	for _, ev := range runes(s) {
		c.HandleKey(ev)
	}
	return c.HandleKey(key(tcell.KeyEnter))
}

func TestCommandModeEnter(t *testing.T) {
	c := NewCommandMode(":")
	c.Start()
	if !c.IsActive() {
		t.Fatalf("Start should activate command mode")
	}

	cmd, done := typeCommand(c, " export png ")
	if !done {
		t.Errorf("Enter should finish the command")
	}
	if cmd != "export png" {
		t.Errorf("Expected 'export png', got '%s'", cmd)
	}
	if c.IsActive() {
		t.Errorf("Command mode should end after Enter")
	}
}

func TestCommandModeEscapeAndBackspace(t *testing.T) {
	c := NewCommandMode(":")
	c.Start()
	cmd, done := c.HandleKey(key(tcell.KeyEscape))
	if !done || cmd != "" {
		t.Errorf("Escape should cancel with no command, got '%s' done=%v", cmd, done)
	}

	// Backspace on an empty line leaves command mode
	c.Start()
	if _, done = c.HandleKey(key(tcell.KeyBackspace2)); !done {
		t.Errorf("Backspace on empty input should finish")
	}
	if c.IsActive() {
		t.Errorf("Command mode should end after backspacing past the prompt")
	}
}

func TestCommandHistoryNavigation(t *testing.T) {
	mgr, err := history.NewManagerIn(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewManagerIn failed: %v", err)
	}

	c := NewCommandModeWithHistory(":", mgr, history.CommandFile)
	c.Start()
	typeCommand(c, "w")
	c.Start()
	typeCommand(c, "export json")

	c.Start()
	for _, ev := range runes("ex") {
		c.HandleKey(ev)
	}
	steps := []struct {
		key  tcell.Key
		want string
	}{
		{tcell.KeyUp, "export json"},
		{tcell.KeyUp, "w"},
		{tcell.KeyDown, "export json"},
		{tcell.KeyDown, "ex"},
	}
	for i, s := range steps {
		c.HandleKey(key(s.key))
		if got := c.GetInput(); got != s.want {
			t.Errorf("step %d: expected '%s', got '%s'", i, s.want, got)
		}
	}

	// History is persisted and reloaded
	reloaded := NewCommandModeWithHistory(":", mgr, history.CommandFile)
	if reloaded.history.Len() != 2 {
		t.Errorf("Expected 2 history entries, got %d", reloaded.history.Len())
	}
}
