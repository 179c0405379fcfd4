package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
)

func newSimScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim, nil)
	require.NoError(t, err)
	sim.SetSize(w, h)
	t.Cleanup(func() { _ = screen.Close() })
	return screen, sim
}

func cellAt(sim tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := sim.GetContent(x, y)
	return r
}

func TestCanvasHasNoSizeUntilPlaced(t *testing.T) {
	c := NewCanvas()
	w, h := c.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)

	_, err := engine.New(c, engine.Options{})
	assert.ErrorIs(t, err, engine.ErrContainerNotReady)

	assert.True(t, c.SetRect(Rect{X: 0, Y: 1, W: 100, H: 40}))
	assert.False(t, c.SetRect(Rect{X: 0, Y: 1, W: 100, H: 40}))
	w, h = c.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 640, h)
}

func TestCanvasCellMapping(t *testing.T) {
	c := NewCanvas()
	c.SetRect(Rect{X: 2, Y: 1, W: 10, H: 5})

	_, ok := c.CellToPoint(1, 1)
	assert.False(t, ok)

	p, ok := c.CellToPoint(2, 1)
	require.True(t, ok)
	assert.Equal(t, engine.Point{X: 4, Y: 8}, p)

	p, ok = c.CellToPoint(5, 3)
	require.True(t, ok)
	x, y := c.PointToCell(p)
	assert.Equal(t, 5, x)
	assert.Equal(t, 3, y)
}

func TestCanvasRendersNodesAndEdges(t *testing.T) {
	screen, sim := newSimScreen(t, 100, 40)
	c := NewCanvas()
	c.SetRect(Rect{W: 100, H: 40})

	eng, err := engine.New(c, engine.Options{})
	require.NoError(t, err)
	require.NoError(t, eng.Render(engine.GraphData{
		Nodes: []engine.NodeConfig{
			{ID: "a", Type: engine.ShapeEllipse, X: 200, Y: 80, Text: "A"},
			{ID: "b", Type: engine.ShapeRect, X: 200, Y: 400, Text: "B"},
		},
		Edges: []engine.EdgeConfig{
			{ID: "e", Type: engine.EdgePolyline, SourceNodeID: "a", TargetNodeID: "b", Text: "go"},
		},
	}))

	c.Render(screen, eng, CanvasState{Selected: "b"})
	screen.Show()

	assert.Equal(t, '╭', cellAt(sim, 17, 3))
	assert.Equal(t, '╯', cellAt(sim, 32, 6))
	assert.Equal(t, 'A', cellAt(sim, 24, 4))
	assert.Equal(t, '┌', cellAt(sim, 17, 23))

	assert.Equal(t, '│', cellAt(sim, 24, 8))
	assert.Equal(t, '▼', cellAt(sim, 24, 22))
	assert.Equal(t, 'g', cellAt(sim, 24, 15))
	assert.Equal(t, 'o', cellAt(sim, 25, 15))

	_, _, style, _ := sim.GetContent(17, 23)
	fg, _, _ := style.Decompose()
	selFg, _, _ := screen.SelectionStyle().Decompose()
	assert.Equal(t, selFg, fg)
}

func TestCanvasDrawsLabelEditor(t *testing.T) {
	screen, sim := newSimScreen(t, 100, 40)
	c := NewCanvas()
	c.SetRect(Rect{W: 100, H: 40})

	eng, err := engine.New(c, engine.Options{})
	require.NoError(t, err)
	require.NoError(t, eng.Render(engine.GraphData{
		Nodes: []engine.NodeConfig{
			{ID: "a", Type: engine.ShapeRect, X: 200, Y: 80},
			{ID: "b", Type: engine.ShapeRect, X: 200, Y: 400},
		},
		Edges: []engine.EdgeConfig{{ID: "e", SourceNodeID: "a", TargetNodeID: "b"}},
	}))

	// Double click on the edge midpoint starts a label edit
	eng.DoubleClick(eng.DiagramToScreen(engine.Point{X: 200, Y: 240}))
	require.Equal(t, "e", eng.EditingID())

	ed := NewEditor("yes")
	ed.Start()
	c.Render(screen, eng, CanvasState{LabelEditor: ed})
	screen.Show()

	// The editor is 12 columns wide and centred on the label cell
	assert.Equal(t, 'y', cellAt(sim, 19, 15))
}

func TestCanvasRendersSelfLoop(t *testing.T) {
	screen, sim := newSimScreen(t, 100, 40)
	c := NewCanvas()
	c.SetRect(Rect{W: 100, H: 40})

	eng, err := engine.New(c, engine.Options{})
	require.NoError(t, err)
	require.NoError(t, eng.Render(engine.GraphData{
		Nodes: []engine.NodeConfig{{ID: "a", Type: engine.ShapeRect, X: 200, Y: 80}},
		Edges: []engine.EdgeConfig{{ID: "a", SourceNodeID: "a", TargetNodeID: "a", Text: "again"}},
	}))

	c.Render(screen, eng, CanvasState{SelectedEdge: "a"})
	screen.Show()

	// The node spans columns 17-32 and rows 3-6
	assert.Equal(t, '│', cellAt(sim, 27, 2))
	assert.Equal(t, '┌', cellAt(sim, 27, 1))
	assert.Equal(t, '┐', cellAt(sim, 36, 1))
	assert.Equal(t, '│', cellAt(sim, 36, 3))
	assert.Equal(t, '┘', cellAt(sim, 36, 4))
	assert.Equal(t, '◀', cellAt(sim, 33, 4))

	// The label sits on the top run and shows the edge selection
	assert.Equal(t, 'a', cellAt(sim, 31, 1))
	assert.Equal(t, 'n', cellAt(sim, 35, 1))
	_, _, style, _ := sim.GetContent(31, 1)
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Errorf("selected loop label is not reversed")
	}
}
