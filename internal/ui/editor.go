package ui

import (
	"github.com/gdamore/tcell/v2"
)

// Editor is a single line text input. The cursor is a rune index.
type Editor struct {
	text      []rune
	original  string
	cursorPos int
	active    bool
}

// NewEditor creates an editor holding text
func NewEditor(text string) *Editor {
	return &Editor{
		text:      []rune(text),
		original:  text,
		cursorPos: len([]rune(text)),
	}
}

// Start starts editing mode
func (e *Editor) Start() {
	e.active = true
	e.cursorPos = len(e.text)
}

// Stop stops editing mode and returns the final text
func (e *Editor) Stop() string {
	e.active = false
	return string(e.text)
}

// Cancel cancels editing and returns the text the editor started with
func (e *Editor) Cancel() string {
	e.active = false
	e.text = []rune(e.original)
	return e.original
}

// IsActive returns whether the editor is active
func (e *Editor) IsActive() bool {
	return e.active
}

// HandleKey handles a key press during editing. It returns false when the
// key ends the edit (Enter or Escape). The caller decides which one by
// looking at the key.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if !e.active {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cursorPos > 0 {
			e.text = append(e.text[:e.cursorPos-1], e.text[e.cursorPos:]...)
			e.cursorPos--
		}
	case tcell.KeyDelete:
		if e.cursorPos < len(e.text) {
			e.text = append(e.text[:e.cursorPos], e.text[e.cursorPos+1:]...)
		}
	case tcell.KeyLeft:
		if e.cursorPos > 0 {
			e.cursorPos--
		}
	case tcell.KeyRight:
		if e.cursorPos < len(e.text) {
			e.cursorPos++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		e.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		e.cursorPos = len(e.text)
	case tcell.KeyCtrlU:
		// Delete from start to cursor
		e.text = append([]rune{}, e.text[e.cursorPos:]...)
		e.cursorPos = 0
	case tcell.KeyCtrlK:
		// Delete from cursor to end
		e.text = e.text[:e.cursorPos]
	case tcell.KeyCtrlW:
		e.deleteWordBackwards()
	case tcell.KeyRune:
		e.Insert(string(ev.Rune()))
	}

	return true
}

// Insert inserts s at the cursor
func (e *Editor) Insert(s string) {
	ins := []rune(s)
	rest := append([]rune{}, e.text[e.cursorPos:]...)
	e.text = append(append(e.text[:e.cursorPos], ins...), rest...)
	e.cursorPos += len(ins)
}

func (e *Editor) deleteWordBackwards() {
	pos := e.cursorPos
	for pos > 0 && e.text[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && e.text[pos-1] != ' ' {
		pos--
	}
	e.text = append(e.text[:pos], e.text[e.cursorPos:]...)
	e.cursorPos = pos
}

// Render renders the editor on the screen, scrolling so the cursor stays
// visible
func (e *Editor) Render(screen *Screen, x, y int, maxWidth int, style tcell.Style) {
	if maxWidth <= 0 {
		return
	}
	cursorStyle := style.Reverse(true)

	start := 0
	for StringWidth(string(e.text[start:e.cursorPos]))+1 > maxWidth && start < e.cursorPos {
		start++
	}

	col := 0
	for i := start; i < len(e.text); i++ {
		r := e.text[i]
		w := RuneWidth(r)
		if col+w > maxWidth {
			break
		}
		charStyle := style
		if i == e.cursorPos && e.active {
			charStyle = cursorStyle
		}
		screen.SetCell(x+col, y, r, charStyle)
		col += w
	}
	if e.cursorPos == len(e.text) && e.active && col < maxWidth {
		screen.SetCell(x+col, y, ' ', cursorStyle)
		col++
	}
	for ; col < maxWidth; col++ {
		screen.SetCell(x+col, y, ' ', style)
	}
}

// GetText returns the current text
func (e *Editor) GetText() string {
	return string(e.text)
}

// SetText replaces the text and moves the cursor to the end
func (e *Editor) SetText(text string) {
	e.text = []rune(text)
	e.cursorPos = len(e.text)
}

// GetCursorPos returns the cursor position in runes
func (e *Editor) GetCursorPos() int {
	return e.cursorPos
}
