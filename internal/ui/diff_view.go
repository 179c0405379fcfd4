package ui

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/diff"
)

// DiffViewWidget displays a formatted diff between two diagrams
type DiffViewWidget struct {
	visible      bool
	lines        []diff.DiffLine
	scrollOffset int
	maxHeight    int
	verbose      bool

	result    *diff.DiffResult
	leftName  string
	rightName string
}

// NewDiffViewWidget creates a new diff view widget
func NewDiffViewWidget() *DiffViewWidget {
	return &DiffViewWidget{
		lines: make([]diff.DiffLine, 0),
	}
}

// Show displays the diff view with the given result
func (dv *DiffViewWidget) Show(result *diff.DiffResult, left, right string) {
	dv.result = result
	dv.leftName = filepath.Base(left)
	dv.rightName = filepath.Base(right)
	dv.scrollOffset = 0
	dv.lines = diff.BuildDiffLines(result, dv.verbose)
	dv.visible = true
}

// Hide closes the diff view
func (dv *DiffViewWidget) Hide() {
	dv.visible = false
}

// IsVisible returns whether the widget is currently visible
func (dv *DiffViewWidget) IsVisible() bool {
	return dv.visible
}

// Lines returns the rendered diff lines
func (dv *DiffViewWidget) Lines() []diff.DiffLine {
	return dv.lines
}

// HandleKeyEvent processes keyboard input
func (dv *DiffViewWidget) HandleKeyEvent(ev *tcell.EventKey) {
	if !dv.visible {
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		dv.Hide()
	case tcell.KeyUp, tcell.KeyCtrlK:
		dv.scroll(-1)
	case tcell.KeyDown, tcell.KeyCtrlJ:
		dv.scroll(1)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		dv.scroll(-dv.maxHeight / 2)
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		dv.scroll(dv.maxHeight / 2)
	case tcell.KeyHome:
		dv.scrollOffset = 0
	case tcell.KeyEnd:
		dv.scroll(len(dv.lines))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			dv.Hide()
		case 'j':
			dv.scroll(1)
		case 'k':
			dv.scroll(-1)
		case 'v':
			// Toggle coordinates and colours in the listing
			dv.verbose = !dv.verbose
			if dv.result != nil {
				dv.lines = diff.BuildDiffLines(dv.result, dv.verbose)
			}
		}
	}
}

func (dv *DiffViewWidget) scroll(lines int) {
	maxScroll := max(0, len(dv.lines)-(dv.maxHeight-4))
	dv.scrollOffset = max(0, min(dv.scrollOffset+lines, maxScroll))
}

// Render draws the diff view on the screen
func (dv *DiffViewWidget) Render(screen *Screen) {
	if !dv.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()
	dv.maxHeight = height
	if width < 10 || height < 5 {
		return
	}

	style := screen.PanelStyle()
	screen.Fill(0, 0, width, height, style)
	screen.DrawBox(0, 0, width, height, screen.PanelBorderStyle())

	title := " Diff: " + dv.leftName + " → " + dv.rightName + " "
	screen.DrawStringLimited(2, 0, title, width-4, screen.PanelTitleStyle())

	renderDiffLines(screen, 1, 1, width-2, height-3, dv.lines[min(dv.scrollOffset, len(dv.lines)):])

	footer := "j/k: scroll | v: verbose | q/Esc: close"
	screen.DrawStringLimited(2, height-2, footer, width-4, screen.PanelLabelStyle())
}

// renderDiffLines draws as many lines as fit into the rectangle
func renderDiffLines(screen *Screen, x, y, width, height int, lines []diff.DiffLine) {
	if len(lines) == 0 {
		screen.DrawStringLimited(x, y, "(no changes)", width, screen.PanelLabelStyle())
		return
	}
	for i, line := range lines {
		if i >= height {
			break
		}
		text := strings.Repeat("  ", line.Indent) + line.Content
		screen.DrawStringLimited(x, y+i, TruncateToWidthWithEllipsis(text, width), width, diffLineStyle(screen, line.Type))
	}
}

// diffLineStyle returns the appropriate style for a diff line type
func diffLineStyle(screen *Screen, lineType diff.DiffLineType) tcell.Style {
	switch lineType {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return screen.PanelTitleStyle()
	case diff.DiffTypeNewSection, diff.DiffTypeNewItem:
		return screen.ConnectPreviewStyle()
	case diff.DiffTypeDeletedSection, diff.DiffTypeDeletedItem:
		return screen.PanelErrorStyle()
	case diff.DiffTypeModifiedSection, diff.DiffTypeModifiedItem:
		return screen.SelectionStyle()
	case diff.DiffTypeItemDetail:
		return screen.PanelLabelStyle()
	default:
		return screen.PanelStyle()
	}
}
