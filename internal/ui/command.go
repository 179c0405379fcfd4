package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/history"
)

const commandHistorySize = 50

// CommandMode manages command line input (`:command`)
type CommandMode struct {
	prompt  string
	editor  *Editor
	history *History
}

// NewCommandMode creates a new CommandMode without history persistence
func NewCommandMode(prompt string) *CommandMode {
	return &CommandMode{
		prompt:  prompt,
		editor:  NewEditor(""),
		history: NewHistory(commandHistorySize),
	}
}

// NewCommandModeWithHistory creates a CommandMode whose history lives in
// filename. Load errors leave the history empty.
func NewCommandModeWithHistory(prompt string, manager *history.Manager, filename string) *CommandMode {
	c := NewCommandMode(prompt)
	if h, err := NewHistoryWithManager(commandHistorySize, manager, filename); err == nil {
		c.history = h
	}
	return c
}

// Start enters command mode
func (c *CommandMode) Start() {
	c.editor = NewEditor("")
	c.editor.Start()
	c.history.Reset()
}

// Stop exits command mode
func (c *CommandMode) Stop() {
	c.editor.Stop()
}

// IsActive returns whether command mode is active
func (c *CommandMode) IsActive() bool {
	return c.editor.IsActive()
}

// HandleKey processes a key press in command mode
func (c *CommandMode) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(c.editor.GetText())
		c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyUp:
		if !c.history.IsNavigating() {
			c.history.SetTemporary(c.editor.GetText())
		}
		if prevCmd, ok := c.history.Previous(); ok {
			c.editor.SetText(prevCmd)
		}
	case tcell.KeyDown:
		if nextCmd, ok := c.history.Next(); ok {
			c.editor.SetText(nextCmd)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.editor.GetText() == "" {
			// Exit command mode when backspace is pressed on empty command line
			c.Stop()
			return "", true
		}
		c.editor.HandleKey(ev)
	default:
		c.editor.HandleKey(ev)
	}

	return "", false
}

// GetInput returns the current command input
func (c *CommandMode) GetInput() string {
	return strings.TrimSpace(c.editor.GetText())
}

// Render renders the command line
func (c *CommandMode) Render(screen *Screen, y int) {
	if !c.IsActive() {
		return
	}

	x := screen.DrawString(0, y, c.prompt, screen.CommandPromptStyle())
	c.editor.Render(screen, x, y, screen.GetWidth()-x, screen.CommandTextStyle())
}
