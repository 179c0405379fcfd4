package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// textState is one undo/redo state
type textState struct {
	text     string
	row, col int
}

// TextArea is a multi-line editor for code. Lines are not wrapped; the view
// scrolls to keep the cursor visible.
type TextArea struct {
	lines    [][]rune
	row, col int
	top      int
	left     int
	active   bool

	undoStack     []textState
	redoStack     []textState
	maxUndoLevels int
}

// NewTextArea creates a text area holding text
func NewTextArea(text string) *TextArea {
	ta := &TextArea{maxUndoLevels: 50}
	ta.setText(text)
	return ta
}

func (ta *TextArea) setText(text string) {
	parts := strings.Split(text, "\n")
	ta.lines = make([][]rune, len(parts))
	for i, p := range parts {
		ta.lines[i] = []rune(p)
	}
	ta.clampCursor()
}

// SetText replaces the content and clears the undo history
func (ta *TextArea) SetText(text string) {
	ta.setText(text)
	ta.undoStack = nil
	ta.redoStack = nil
}

// GetText returns the content
func (ta *TextArea) GetText() string {
	parts := make([]string, len(ta.lines))
	for i, l := range ta.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// Start activates the editor with the cursor at the top
func (ta *TextArea) Start() {
	ta.active = true
}

// Stop deactivates the editor and returns the content
func (ta *TextArea) Stop() string {
	ta.active = false
	return ta.GetText()
}

// IsActive returns whether the editor is active
func (ta *TextArea) IsActive() bool {
	return ta.active
}

// Cursor returns the cursor line and column, both zero based
func (ta *TextArea) Cursor() (int, int) {
	return ta.row, ta.col
}

// SetCursor moves the cursor, clamped to the content
func (ta *TextArea) SetCursor(row, col int) {
	ta.row, ta.col = row, col
	ta.clampCursor()
}

func (ta *TextArea) clampCursor() {
	ta.row = min(max(ta.row, 0), len(ta.lines)-1)
	ta.col = min(max(ta.col, 0), len(ta.lines[ta.row]))
}

func (ta *TextArea) saveUndoState() {
	ta.undoStack = append(ta.undoStack, textState{text: ta.GetText(), row: ta.row, col: ta.col})
	if len(ta.undoStack) > ta.maxUndoLevels {
		ta.undoStack = ta.undoStack[1:]
	}
	ta.redoStack = nil
}

func (ta *TextArea) undo() {
	if len(ta.undoStack) == 0 {
		return
	}
	ta.redoStack = append(ta.redoStack, textState{text: ta.GetText(), row: ta.row, col: ta.col})
	s := ta.undoStack[len(ta.undoStack)-1]
	ta.undoStack = ta.undoStack[:len(ta.undoStack)-1]
	ta.setText(s.text)
	ta.SetCursor(s.row, s.col)
}

func (ta *TextArea) redo() {
	if len(ta.redoStack) == 0 {
		return
	}
	ta.undoStack = append(ta.undoStack, textState{text: ta.GetText(), row: ta.row, col: ta.col})
	s := ta.redoStack[len(ta.redoStack)-1]
	ta.redoStack = ta.redoStack[:len(ta.redoStack)-1]
	ta.setText(s.text)
	ta.SetCursor(s.row, s.col)
}

// Insert types s at the cursor. Newlines split the line.
func (ta *TextArea) Insert(s string) {
	for _, r := range s {
		if r == '\n' {
			ta.splitLine("")
			continue
		}
		line := ta.lines[ta.row]
		line = append(line[:ta.col], append([]rune{r}, line[ta.col:]...)...)
		ta.lines[ta.row] = line
		ta.col++
	}
}

func (ta *TextArea) splitLine(indent string) {
	line := ta.lines[ta.row]
	head := append([]rune{}, line[:ta.col]...)
	tail := append([]rune(indent), line[ta.col:]...)
	ta.lines[ta.row] = head
	ta.lines = append(ta.lines[:ta.row+1], append([][]rune{tail}, ta.lines[ta.row+1:]...)...)
	ta.row++
	ta.col = len([]rune(indent))
}

func leadingSpace(line []rune) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return string(line[:i])
}

func (ta *TextArea) backspace() {
	if ta.col > 0 {
		line := ta.lines[ta.row]
		ta.lines[ta.row] = append(line[:ta.col-1], line[ta.col:]...)
		ta.col--
		return
	}
	if ta.row == 0 {
		return
	}
	prev := ta.lines[ta.row-1]
	ta.col = len(prev)
	ta.lines[ta.row-1] = append(prev, ta.lines[ta.row]...)
	ta.lines = append(ta.lines[:ta.row], ta.lines[ta.row+1:]...)
	ta.row--
}

func (ta *TextArea) deleteForward() {
	line := ta.lines[ta.row]
	if ta.col < len(line) {
		ta.lines[ta.row] = append(line[:ta.col], line[ta.col+1:]...)
		return
	}
	if ta.row < len(ta.lines)-1 {
		ta.lines[ta.row] = append(line, ta.lines[ta.row+1]...)
		ta.lines = append(ta.lines[:ta.row+1], ta.lines[ta.row+2:]...)
	}
}

func (ta *TextArea) deleteWordBackwards() {
	line := ta.lines[ta.row]
	i := ta.col
	for i > 0 && line[i-1] == ' ' {
		i--
	}
	for i > 0 && line[i-1] != ' ' {
		i--
	}
	ta.lines[ta.row] = append(line[:i], line[ta.col:]...)
	ta.col = i
}

// HandleKey handles a key press. It returns false for Escape and Ctrl+S,
// which the caller handles as leave and apply.
func (ta *TextArea) HandleKey(ev *tcell.EventKey) bool {
	if !ta.active {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlS:
		return false
	case tcell.KeyCtrlZ:
		ta.undo()
	case tcell.KeyCtrlY:
		ta.redo()
	case tcell.KeyEnter:
		ta.saveUndoState()
		ta.splitLine(leadingSpace(ta.lines[ta.row]))
	case tcell.KeyTab:
		ta.saveUndoState()
		ta.Insert("  ")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ta.saveUndoState()
		ta.backspace()
	case tcell.KeyDelete:
		ta.saveUndoState()
		ta.deleteForward()
	case tcell.KeyCtrlW:
		ta.saveUndoState()
		ta.deleteWordBackwards()
	case tcell.KeyCtrlU:
		ta.saveUndoState()
		ta.lines[ta.row] = append([]rune{}, ta.lines[ta.row][ta.col:]...)
		ta.col = 0
	case tcell.KeyCtrlK:
		ta.saveUndoState()
		ta.lines[ta.row] = ta.lines[ta.row][:ta.col]
	case tcell.KeyLeft:
		if ta.col > 0 {
			ta.col--
		} else if ta.row > 0 {
			ta.row--
			ta.col = len(ta.lines[ta.row])
		}
	case tcell.KeyRight:
		if ta.col < len(ta.lines[ta.row]) {
			ta.col++
		} else if ta.row < len(ta.lines)-1 {
			ta.row++
			ta.col = 0
		}
	case tcell.KeyUp:
		ta.SetCursor(ta.row-1, ta.col)
	case tcell.KeyDown:
		ta.SetCursor(ta.row+1, ta.col)
	case tcell.KeyPgUp:
		ta.SetCursor(ta.row-10, ta.col)
	case tcell.KeyPgDn:
		ta.SetCursor(ta.row+10, ta.col)
	case tcell.KeyHome, tcell.KeyCtrlA:
		ta.col = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		ta.col = len(ta.lines[ta.row])
	case tcell.KeyRune:
		ta.saveUndoState()
		ta.Insert(string(ev.Rune()))
	}
	return true
}

// Paste inserts a block of text as one undo step
func (ta *TextArea) Paste(s string) {
	ta.saveUndoState()
	ta.Insert(strings.ReplaceAll(s, "\r\n", "\n"))
}

func (ta *TextArea) scrollTo(w, h int) {
	if ta.row < ta.top {
		ta.top = ta.row
	}
	if ta.row >= ta.top+h {
		ta.top = ta.row - h + 1
	}
	cursorX := StringWidth(string(ta.lines[ta.row][:ta.col]))
	if cursorX < ta.left {
		ta.left = cursorX
	}
	if cursorX >= ta.left+w {
		ta.left = cursorX - w + 1
	}
}

// Render draws the visible part of the content with a line number gutter.
// errLine, when positive, marks a one-based line with the error style.
func (ta *TextArea) Render(screen *Screen, r Rect, errLine int) {
	gutter := len(strconv.Itoa(len(ta.lines))) + 1
	w, h := r.W-gutter, r.H
	if w <= 0 || h <= 0 {
		return
	}
	ta.scrollTo(w, h)

	text := screen.PanelStyle()
	numbers := screen.PanelLabelStyle()
	cursor := screen.CursorStyle()
	screen.Fill(r.X, r.Y, r.W, r.H, text)

	for i := 0; i < h && ta.top+i < len(ta.lines); i++ {
		row := ta.top + i
		y := r.Y + i
		numStyle := numbers
		if row+1 == errLine {
			numStyle = screen.PanelErrorStyle()
		}
		num := strconv.Itoa(row + 1)
		screen.DrawString(r.X+gutter-1-len(num), y, num, numStyle)

		col := 0
		for j, ch := range ta.lines[row] {
			cw := RuneWidth(ch)
			vis := col - ta.left
			col += cw
			if vis < 0 {
				continue
			}
			if vis+cw > w {
				break
			}
			style := text
			if ta.active && row == ta.row && j == ta.col {
				style = cursor
			}
			screen.SetCell(r.X+gutter+vis, y, ch, style)
		}
		if ta.active && row == ta.row && ta.col == len(ta.lines[row]) {
			if vis := col - ta.left; vis >= 0 && vis < w {
				screen.SetCell(r.X+gutter+vis, y, ' ', cursor)
			}
		}
	}
}
