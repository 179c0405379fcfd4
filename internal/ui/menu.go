package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
)

// ContextMenuWidget draws the engine's context menu next to its target
// and drives it from the keyboard or mouse
type ContextMenuWidget struct {
	menu  *engine.ContextMenu
	index int
	rect  Rect
}

// NewContextMenuWidget creates a widget for menu. A nil menu is never open.
func NewContextMenuWidget(menu *engine.ContextMenu) *ContextMenuWidget {
	return &ContextMenuWidget{menu: menu}
}

// IsOpen reports whether the menu is showing
func (w *ContextMenuWidget) IsOpen() bool {
	return w.menu != nil && w.menu.IsOpen()
}

// Close hides the menu
func (w *ContextMenuWidget) Close() {
	if w.menu != nil {
		w.menu.Close()
	}
	w.index = 0
}

// Index returns the highlighted entry
func (w *ContextMenuWidget) Index() int {
	return w.index
}

// HandleKey moves the highlight, runs an entry or closes the menu. It
// returns false when the menu is closed and the key was not used.
func (w *ContextMenuWidget) HandleKey(ev *tcell.EventKey) bool {
	if !w.IsOpen() {
		return false
	}
	items := w.menu.Items()
	switch ev.Key() {
	case tcell.KeyEscape:
		w.Close()
	case tcell.KeyUp:
		if w.index > 0 {
			w.index--
		}
	case tcell.KeyDown:
		if w.index < len(items)-1 {
			w.index++
		}
	case tcell.KeyEnter:
		i := w.index
		w.index = 0
		w.menu.Select(i)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			if w.index > 0 {
				w.index--
			}
		case 'j':
			if w.index < len(items)-1 {
				w.index++
			}
		case 'q':
			w.Close()
		}
	}
	return true
}

// HandleClick runs the entry under (x, y). A click elsewhere closes the
// menu. It returns false when the menu is closed.
func (w *ContextMenuWidget) HandleClick(x, y int) bool {
	if !w.IsOpen() {
		return false
	}
	if !w.rect.Contains(x, y) {
		w.Close()
		return true
	}
	i := y - w.rect.Y
	w.index = 0
	w.menu.Select(i)
	return true
}

// Render draws the open menu at the point it was opened on
func (w *ContextMenuWidget) Render(screen *Screen, canvas *Canvas) {
	if !w.IsOpen() {
		w.rect = Rect{}
		return
	}
	items := w.menu.Items()
	_, _, at := w.menu.Target()
	x, y := canvas.PointToCell(at)

	width := 0
	for _, it := range items {
		width = max(width, StringWidth(it.Text))
	}
	width += 2

	area := canvas.Rect()
	if x+width > area.X+area.W {
		x = area.X + area.W - width
	}
	if y+len(items) > area.Y+area.H {
		y = area.Y + area.H - len(items)
	}
	w.rect = Rect{X: x, Y: y, W: width, H: len(items)}

	for i, it := range items {
		style := screen.MenuStyle()
		if i == w.index {
			style = screen.MenuSelectedStyle()
		}
		screen.Fill(x, y+i, width, 1, style)
		screen.DrawString(x+1, y+i, it.Text, style)
	}
}
