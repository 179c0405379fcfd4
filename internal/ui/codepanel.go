package ui

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// CodePanel is a titled text area with an inline error line, used for the
// code view and the import view
type CodePanel struct {
	title string
	hint  string
	area  *TextArea
	err   string
}

// NewCodePanel creates an inactive panel
func NewCodePanel(title, hint string) *CodePanel {
	return &CodePanel{title: title, hint: hint, area: NewTextArea("")}
}

// Open starts editing text
func (p *CodePanel) Open(text string) {
	p.area.SetText(text)
	p.area.SetCursor(0, 0)
	p.area.Start()
	p.err = ""
}

// Close stops editing and returns the text
func (p *CodePanel) Close() string {
	return p.area.Stop()
}

// IsActive reports whether the panel takes keys
func (p *CodePanel) IsActive() bool {
	return p.area.IsActive()
}

// Text returns the edited text
func (p *CodePanel) Text() string {
	return p.area.GetText()
}

// SetText replaces the text, keeping the cursor where it is
func (p *CodePanel) SetText(text string) {
	row, col := p.area.Cursor()
	p.area.SetText(text)
	p.area.SetCursor(row, col)
}

// SetError shows err below the text. An empty string clears it.
func (p *CodePanel) SetError(err string) {
	p.err = err
}

// Error returns the shown error
func (p *CodePanel) Error() string {
	return p.err
}

// Paste inserts clipboard text at the cursor
func (p *CodePanel) Paste(s string) {
	p.area.Paste(s)
}

// HandleKey feeds the text area. It returns false for keys that end the
// edit (Escape and Ctrl+S) so the caller decides what they mean.
func (p *CodePanel) HandleKey(ev *tcell.EventKey) bool {
	return p.area.HandleKey(ev)
}

// Render draws the panel into r
func (p *CodePanel) Render(screen *Screen, r Rect, parseErr error) {
	if r.W < 4 || r.H < 4 {
		return
	}
	screen.Fill(r.X, r.Y, r.W, r.H, screen.PanelStyle())
	screen.DrawBox(r.X, r.Y, r.W, r.H, screen.PanelBorderStyle())
	screen.DrawStringLimited(r.X+2, r.Y, " "+p.title+" ", r.W-4, screen.PanelTitleStyle())

	inner := Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 3}
	p.area.Render(screen, inner, errorLine(p.Text(), parseErr))

	footerY := r.Y + r.H - 2
	if p.err != "" {
		screen.DrawStringLimited(r.X+1, footerY, TruncateToWidthWithEllipsis(p.err, r.W-2), r.W-2, screen.PanelErrorStyle())
		return
	}
	screen.DrawStringLimited(r.X+1, footerY, p.hint, r.W-2, screen.PanelLabelStyle())
}

// errorLine returns the one-based line of a JSON syntax error in text, or
// 0 when err carries no offset
func errorLine(text string, err error) int {
	var syntax *json.SyntaxError
	if !errors.As(err, &syntax) {
		return 0
	}
	off := int(max(0, min(syntax.Offset, int64(len(text)))))
	return strings.Count(text[:off], "\n") + 1
}
