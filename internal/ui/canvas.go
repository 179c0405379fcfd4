package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// One terminal cell covers CellWidth x CellHeight engine screen units
const (
	CellWidth  = 8.0
	CellHeight = 16.0
	gridStep   = 40.0
)

// Rect is a rectangle of terminal cells
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Canvas draws an engine graph into a region of the screen. It is the
// engine's container: its size is the region in engine screen units.
type Canvas struct {
	rect Rect
}

// NewCanvas creates a canvas with no area. The engine cannot start on it
// until SetRect gives it one.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// SetRect places the canvas on the screen and reports whether it changed
func (c *Canvas) SetRect(r Rect) bool {
	if r == c.rect {
		return false
	}
	c.rect = r
	return true
}

// Rect returns the canvas region
func (c *Canvas) Rect() Rect {
	return c.rect
}

// Size implements engine.Container
func (c *Canvas) Size() (int, int) {
	if c.rect.W <= 0 || c.rect.H <= 0 {
		return 0, 0
	}
	return int(float64(c.rect.W) * CellWidth), int(float64(c.rect.H) * CellHeight)
}

// CellToPoint maps a screen cell to the engine screen point at its centre
func (c *Canvas) CellToPoint(x, y int) (engine.Point, bool) {
	if !c.rect.Contains(x, y) {
		return engine.Point{}, false
	}
	return engine.Point{
		X: (float64(x-c.rect.X) + 0.5) * CellWidth,
		Y: (float64(y-c.rect.Y) + 0.5) * CellHeight,
	}, true
}

// PointToCell maps an engine screen point to a screen cell
func (c *Canvas) PointToCell(p engine.Point) (int, int) {
	return c.rect.X + int(math.Floor(p.X/CellWidth)), c.rect.Y + int(math.Floor(p.Y/CellHeight))
}

// CanvasState is the per-frame interaction state the canvas shows
type CanvasState struct {
	Selected     string
	SelectedEdge string
	ConnectFrom  string
	// LabelEditor is drawn over the label of the edge being edited
	LabelEditor *Editor
}

// nodeBox is a node's footprint in screen cells, inclusive bounds
type nodeBox struct {
	left, top, right, bottom int
}

func (b nodeBox) midX() int { return (b.left + b.right) / 2 }
func (b nodeBox) midY() int { return (b.top + b.bottom) / 2 }

func (c *Canvas) box(eng *engine.Engine, n *engine.NodeModel) nodeBox {
	tl := eng.DiagramToScreen(engine.Point{X: n.X - n.Width/2, Y: n.Y - n.Height/2})
	br := eng.DiagramToScreen(engine.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2})
	l, t := c.PointToCell(tl)
	r, b := c.PointToCell(br)
	// Every shape needs room for a border and one label row
	if r-l < 4 {
		r = l + 4
	}
	if b-t < 2 {
		b = t + 2
	}
	return nodeBox{left: l, top: t, right: r, bottom: b}
}

// Render draws the grid, the edges and then the nodes
func (c *Canvas) Render(screen *Screen, eng *engine.Engine, st CanvasState) {
	r := c.rect
	screen.Fill(r.X, r.Y, r.W, r.H, screen.CanvasStyle())
	if eng == nil || eng.Destroyed() {
		return
	}
	c.renderGrid(screen, eng)

	boxes := make(map[string]nodeBox, len(eng.Nodes()))
	for _, n := range eng.Nodes() {
		boxes[n.ID] = c.box(eng, n)
	}

	for _, ed := range eng.Edges() {
		from, okFrom := boxes[ed.SourceNodeID]
		to, okTo := boxes[ed.TargetNodeID]
		if !okFrom || !okTo {
			continue
		}
		if ed.SourceNodeID == ed.TargetNodeID {
			c.renderLoop(screen, from)
			continue
		}
		c.renderEdge(screen, from, to)
	}

	for _, n := range eng.Nodes() {
		c.renderNode(screen, eng, n, boxes[n.ID], st)
	}

	// Labels go last so they stay readable where lines cross nodes
	editing := ""
	if eng.EditingKind() == engine.ElementEdge {
		editing = eng.EditingID()
	}
	for _, ed := range eng.Edges() {
		pos, ok := eng.EdgeTextPosition(ed)
		if !ok {
			continue
		}
		x, y := c.PointToCell(eng.DiagramToScreen(pos))
		if ed.ID == editing && st.LabelEditor != nil {
			w := max(StringWidth(st.LabelEditor.GetText())+2, 12)
			st.LabelEditor.Render(screen, x-w/2, y, w, screen.EdgeLabelStyle())
			continue
		}
		if ed.Text == "" {
			continue
		}
		style := screen.EdgeLabelStyle()
		if ed.ID == st.SelectedEdge {
			style = style.Reverse(true)
		}
		c.drawClipped(screen, x-StringWidth(ed.Text)/2, y, ed.Text, style)
	}
}

func (c *Canvas) renderGrid(screen *Screen, eng *engine.Engine) {
	t := eng.Transform()
	step := gridStep * t.Scale
	if step < CellWidth*2 {
		return
	}
	style := screen.GridStyle()
	for row := 0; row < c.rect.H; row++ {
		y := float64(row) * CellHeight
		if !crossesLine(y, CellHeight, t.TranslateY, step) {
			continue
		}
		for col := 0; col < c.rect.W; col++ {
			x := float64(col) * CellWidth
			if crossesLine(x, CellWidth, t.TranslateX, step) {
				screen.SetCell(c.rect.X+col, c.rect.Y+row, '·', style)
			}
		}
	}
}

// crossesLine reports whether a grid line lies in [start, start+size)
func crossesLine(start, size, offset, step float64) bool {
	first := math.Ceil((start-offset)/step)*step + offset
	return first < start+size
}

func (c *Canvas) renderEdge(screen *Screen, from, to nodeBox) {
	style := screen.EdgeStyle()
	sx, sy := from.midX(), from.bottom+1
	tx, ty := to.midX(), to.top-1

	if ty > sy {
		// Leave the source at the bottom and enter the target at the top
		midY := (sy + ty) / 2
		c.vline(screen, sx, sy, midY-1, style)
		c.vline(screen, tx, midY+1, ty-1, style)
		c.hline(screen, min(sx, tx)+1, max(sx, tx)-1, midY, style)
		switch {
		case sx == tx:
			c.set(screen, sx, midY, '│', style)
		case sx < tx:
			c.set(screen, sx, midY, '└', style)
			c.set(screen, tx, midY, '┐', style)
		default:
			c.set(screen, sx, midY, '┘', style)
			c.set(screen, tx, midY, '┌', style)
		}
		c.set(screen, tx, ty, '▼', style)
		return
	}

	// The target is level with or above the source: connect the sides
	fy, toY := from.midY(), to.midY()
	var fx, txx int
	arrow := '▶'
	if to.left > from.right {
		fx, txx = from.right+1, to.left-1
	} else {
		fx, txx = from.left-1, to.right+1
		arrow = '◀'
	}
	midX := (fx + txx) / 2
	c.hline(screen, min(fx, midX), max(fx, midX), fy, style)
	c.hline(screen, min(midX, txx), max(midX, txx), toY, style)
	if fy != toY {
		c.vline(screen, midX, min(fy, toY)+1, max(fy, toY)-1, style)
		c.set(screen, midX, fy, '┼', style)
		c.set(screen, midX, toY, '┼', style)
	}
	c.set(screen, txx, toY, arrow, style)
}

// renderLoop leaves the top of b and comes back into its right side
func (c *Canvas) renderLoop(screen *Screen, b nodeBox) {
	style := screen.EdgeStyle()
	x0 := b.midX() + (b.right-b.left)/4
	x1 := b.right + 4
	y0 := b.top - 2
	y1 := b.midY()

	c.set(screen, x0, b.top-1, '│', style)
	c.set(screen, x0, y0, '┌', style)
	c.hline(screen, x0+1, x1-1, y0, style)
	c.set(screen, x1, y0, '┐', style)
	c.vline(screen, x1, y0+1, y1-1, style)
	c.set(screen, x1, y1, '┘', style)
	c.hline(screen, b.right+2, x1-1, y1, style)
	c.set(screen, b.right+1, y1, '◀', style)
}

func (c *Canvas) vline(screen *Screen, x, y0, y1 int, style tcell.Style) {
	for y := y0; y <= y1; y++ {
		c.set(screen, x, y, '│', style)
	}
}

func (c *Canvas) hline(screen *Screen, x0, x1, y int, style tcell.Style) {
	for x := x0; x <= x1; x++ {
		c.set(screen, x, y, '─', style)
	}
}

// set draws a cell only inside the canvas
func (c *Canvas) set(screen *Screen, x, y int, r rune, style tcell.Style) {
	if c.rect.Contains(x, y) {
		screen.SetCell(x, y, r, style)
	}
}

func (c *Canvas) drawClipped(screen *Screen, x, y int, text string, style tcell.Style) {
	if y < c.rect.Y || y >= c.rect.Y+c.rect.H {
		return
	}
	col := x
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= c.rect.X && col+w <= c.rect.X+c.rect.W {
			screen.SetCell(col, y, r, style)
		}
		col += w
	}
}

// shapeRunes are the border characters of a shape
type shapeRunes struct {
	tl, tr, bl, br, h, left, right, midLeft, midRight rune
}

func runesFor(kind engine.ShapeKind) shapeRunes {
	switch kind {
	case engine.ShapeEllipse:
		return shapeRunes{'╭', '╮', '╰', '╯', '─', '(', ')', '(', ')'}
	case engine.ShapeDiamond:
		return shapeRunes{'╱', '╲', '╲', '╱', '─', '│', '│', '<', '>'}
	default:
		return shapeRunes{'┌', '┐', '└', '┘', '─', '│', '│', '│', '│'}
	}
}

func (c *Canvas) renderNode(screen *Screen, eng *engine.Engine, n *engine.NodeModel, b nodeBox, st CanvasState) {
	style := eng.EffectiveStyle(n)
	fill := hexOr(style.Fill, screen.Theme.Colors.Background)
	stroke := hexOr(style.Stroke, screen.Theme.Colors.Edge)
	text := hexOr(eng.EffectiveTextColor(n), screen.Theme.Colors.PanelValue)

	inside := tcell.StyleDefault.Background(fill).Foreground(text)
	border := tcell.StyleDefault.Background(screen.Theme.Colors.Background).Foreground(stroke)
	switch n.ID {
	case st.ConnectFrom:
		border = screen.ConnectPreviewStyle()
	case st.Selected:
		border = screen.SelectionStyle()
	}

	sr := runesFor(n.Type)
	mid := b.midY()
	for y := b.top; y <= b.bottom; y++ {
		for x := b.left; x <= b.right; x++ {
			var r rune
			s := border
			switch {
			case y == b.top && x == b.left:
				r = sr.tl
			case y == b.top && x == b.right:
				r = sr.tr
			case y == b.bottom && x == b.left:
				r = sr.bl
			case y == b.bottom && x == b.right:
				r = sr.br
			case y == b.top || y == b.bottom:
				r = sr.h
			case x == b.left && y == mid:
				r = sr.midLeft
			case x == b.right && y == mid:
				r = sr.midRight
			case x == b.left:
				r = sr.left
			case x == b.right:
				r = sr.right
			default:
				r, s = ' ', inside
			}
			c.set(screen, x, y, r, s)
		}
	}

	// Label, wrapped to the interior and centred vertically
	innerW := b.right - b.left - 1
	innerH := b.bottom - b.top - 1
	lines := WrapToWidth(n.Text, innerW)
	if len(lines) > innerH && innerH > 0 {
		lines = lines[:innerH]
		lines[innerH-1] = TruncateToWidthWithEllipsis(lines[innerH-1]+"…", innerW)
	}
	startY := b.top + 1 + (innerH-len(lines))/2
	for i, line := range lines {
		c.drawClipped(screen, b.left+1+CenterOffset(line, innerW), startY+i, line, inside)
	}
}

func hexOr(hex string, fallback tcell.Color) tcell.Color {
	if hex == "" {
		return fallback
	}
	if _, err := theme.ParseColor(hex); err != nil {
		return fallback
	}
	return theme.HexToColor(hex)
}

// RenderTooltip draws the hover tooltip near its anchor point
func (c *Canvas) RenderTooltip(screen *Screen, text string, at engine.Point) {
	if text == "" {
		return
	}
	x, y := c.PointToCell(at)
	x++
	y++
	width := StringWidth(text) + 2
	if x+width > c.rect.X+c.rect.W {
		x = c.rect.X + c.rect.W - width
	}
	if y >= c.rect.Y+c.rect.H {
		y = c.rect.Y + c.rect.H - 1
	}
	style := screen.TooltipStyle()
	screen.Fill(x, y, width, 1, style)
	screen.DrawString(x+1, y, text, style)
}
