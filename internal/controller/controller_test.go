package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/adapter"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

type box struct {
	w, h int
}

func (b *box) Size() (int, int) { return b.w, b.h }

type recorder struct {
	changes    []model.FlowchartData
	selections []string
}

func (r *recorder) last() model.FlowchartData {
	return r.changes[len(r.changes)-1]
}

func newController(t *testing.T, data *model.FlowchartData) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(Options{
		Container: &box{800, 600},
		OnChange:  func(d model.FlowchartData) { rec.changes = append(rec.changes, d) },
		OnSelect:  func(id string) { rec.selections = append(rec.selections, id) },
		Rand:      func() float64 { return 0.5 },
	})
	c.SetData(data)
	require.NoError(t, c.Mount())
	return c, rec
}

func node(id string, t model.FlowNodeType, x, y float64) model.FlowNode {
	s := theme.DefaultStyle(t)
	return model.FlowNode{
		ID: id, Type: t, Text: id, X: x, Y: y,
		Width: 120, Height: 50, FillColor: s.Fill, StrokeColor: s.Stroke,
	}
}

func conn(id, from, to string) model.FlowConnection {
	return model.FlowConnection{
		ID:   id,
		From: model.Endpoint{NodeID: from, Position: model.AnchorBottom},
		To:   model.Endpoint{NodeID: to, Position: model.AnchorTop},
	}
}

func triangle() *model.FlowchartData {
	return &model.FlowchartData{
		Nodes: []model.FlowNode{
			node("a", model.NodeStart, 100, 100),
			node("b", model.NodeProcess, 100, 300),
			node("c", model.NodeEnd, 400, 300),
		},
		Connections: []model.FlowConnection{
			conn("ab", "a", "b"),
			conn("ca", "c", "a"),
			conn("bc", "b", "c"),
		},
	}
}

func TestMountIsDeferredUntilContainerHasSize(t *testing.T) {
	container := &box{}
	rec := &recorder{}
	c := New(Options{
		Container: container,
		OnChange:  func(d model.FlowchartData) { rec.changes = append(rec.changes, d) },
	})
	c.SetData(triangle())

	err := c.Mount()
	assert.ErrorIs(t, err, engine.ErrContainerNotReady)
	assert.Equal(t, Uninitialized, c.State())
	assert.Empty(t, rec.changes)

	// still no size
	c.NotifyResize()
	assert.Equal(t, Uninitialized, c.State())

	container.w, container.h = 800, 600
	c.NotifyResize()
	require.Equal(t, Ready, c.State())
	require.Len(t, rec.changes, 1)
	assert.True(t, model.Equal(*triangle(), rec.last()))
}

func TestMountConfiguresEngine(t *testing.T) {
	c, _ := newController(t, nil)

	assert.Equal(t, engine.EditConfig{
		MultiSelect:       false,
		NodeTextEdit:      false,
		EdgeTextEdit:      true,
		EdgeTextDraggable: true,
	}, c.Engine().EditConfig())
	assert.Same(t, c.ContextMenu(), c.Engine().Extension(engine.ContextMenuName))
	assert.Equal(t, theme.EngineTheme().TextColor, c.Engine().Theme().TextColor)
}

func TestNilDataIsEmptyDiagram(t *testing.T) {
	c, rec := newController(t, nil)
	require.Len(t, rec.changes, 1)
	assert.Equal(t, model.Empty(), rec.last())
	assert.Equal(t, model.Empty(), c.Snapshot())
}

func TestAddNodeUsesDefaults(t *testing.T) {
	c, rec := newController(t, nil)

	for _, nt := range model.AllNodeTypes() {
		id := c.AddNode(nt)
		require.NotEmpty(t, id)

		n := c.Engine().Node(id)
		require.NotNil(t, n)
		want := theme.DefaultStyle(nt)
		got := c.Engine().EffectiveStyle(n)
		assert.Equal(t, want.Fill, got.Fill, nt)
		assert.Equal(t, want.Stroke, got.Stroke, nt)
		assert.Equal(t, model.DefaultText(nt), n.Text)
		assert.Equal(t, 400.0, n.X)
		assert.Equal(t, 300.0, n.Y)

		emitted, ok := rec.last().Node(id)
		require.True(t, ok)
		assert.Equal(t, nt, emitted.Type)
		assert.Equal(t, want.Fill, emitted.FillColor)
	}
	assert.Empty(t, c.Selected())
}

func TestAddNodeFollowsTransformAndJitter(t *testing.T) {
	values := []float64{0, 1}
	c := New(Options{
		Container: &box{800, 600},
		Rand: func() float64 {
			v := values[0]
			values = values[1:]
			return v
		},
	})
	require.NoError(t, c.Mount())
	c.Engine().Translate(100, 50)

	id := c.AddNode(model.NodeProcess)
	n := c.Engine().Node(id)
	require.NotNil(t, n)
	assert.InDelta(t, 300-DefaultJitter/2, n.X, 1e-9)
	assert.InDelta(t, 250+DefaultJitter/2, n.Y, 1e-9)
}

func TestDeleteSelectedCascades(t *testing.T) {
	c, rec := newController(t, triangle())

	c.DeleteSelected()
	assert.Len(t, rec.changes, 1, "nothing selected is a no-op")

	c.Select("a")
	c.DeleteSelected()

	out := rec.last()
	require.Len(t, out.Nodes, 2)
	require.Len(t, out.Connections, 1)
	assert.Equal(t, "bc", out.Connections[0].ID)
	assert.Empty(t, c.Selected())
	assert.Equal(t, []string{"a", ""}, rec.selections)
}

func TestUndoRedoSymmetry(t *testing.T) {
	c, _ := newController(t, triangle())

	mutations := map[string]func(){
		"add":     func() { c.AddNode(model.NodeDecision) },
		"connect": func() { _, _ = c.Connect("c", "b", "back") },
		"delete":  func() { c.DeleteElement(engine.ElementNode, "a") },
		"move":    func() { _ = c.Engine().MoveNode("b", 10, 10) },
	}
	for name, m := range mutations {
		c.SetData(triangle())
		pre := c.Recompute()
		m()
		post := c.Recompute()
		require.False(t, model.Equal(pre, post), name)

		require.True(t, c.Undo(), name)
		assert.True(t, model.Equal(pre, c.Snapshot()), name)
		require.True(t, c.Redo(), name)
		assert.True(t, model.Equal(post, c.Snapshot()), name)
	}
}

func TestUndoClearsSelectionOfVanishedNode(t *testing.T) {
	c, _ := newController(t, nil)
	id := c.AddNode(model.NodeProcess)
	c.Select(id)

	c.Undo()
	assert.Empty(t, c.Selected())
}

func TestRecomputeIsIdempotent(t *testing.T) {
	c, _ := newController(t, triangle())
	c.AddNode(model.NodeImage)
	assert.Equal(t, c.Recompute(), c.Recompute())
}

func TestEveryHistoryChangeEmits(t *testing.T) {
	c, rec := newController(t, triangle())
	before := len(rec.changes)

	require.NoError(t, c.Engine().SetProperties("a", map[string]any{adapter.PropDescription: "x"}))
	assert.Len(t, rec.changes, before+1)
}

func TestSetDataAfterReadyReplaces(t *testing.T) {
	c, rec := newController(t, triangle())
	c.Select("a")

	replacement := &model.FlowchartData{Nodes: []model.FlowNode{node("z", model.NodeProcess, 0, 0)}}
	c.SetData(replacement)

	assert.Empty(t, c.Selected())
	require.Len(t, rec.last().Nodes, 1)
	assert.Equal(t, "z", rec.last().Nodes[0].ID)
	assert.Empty(t, rec.last().Connections)
	assert.False(t, c.Engine().History().CanUndo())
}

func TestClickSelectsAndBlankClears(t *testing.T) {
	c, rec := newController(t, triangle())
	eng := c.Engine()

	eng.PointerDown(engine.Point{X: 100, Y: 300})
	eng.PointerUp(engine.Point{X: 100, Y: 300})
	assert.Equal(t, "b", c.Selected())

	eng.PointerDown(engine.Point{X: 700, Y: 50})
	eng.PointerUp(engine.Point{X: 700, Y: 50})
	assert.Empty(t, c.Selected())
	assert.Equal(t, []string{"b", ""}, rec.selections)
}

func TestDoubleClickNeverEditsNodeText(t *testing.T) {
	c, _ := newController(t, triangle())
	eng := c.Engine()

	eng.DoubleClick(engine.Point{X: 100, Y: 300})
	assert.Empty(t, eng.EditingID())

	cfg := eng.EditConfig()
	cfg.NodeTextEdit = true
	eng.UpdateEditConfig(cfg)

	eng.DoubleClick(engine.Point{X: 100, Y: 300})
	assert.Empty(t, eng.EditingID())
	assert.True(t, eng.EditConfig().NodeTextEdit, "flag is restored")
}

func TestContextMenuDeletes(t *testing.T) {
	c, rec := newController(t, triangle())
	eng := c.Engine()

	eng.ContextMenuAt(engine.Point{X: 400, Y: 300})
	menu := c.ContextMenu()
	require.True(t, menu.IsOpen())
	require.Len(t, menu.Items(), 1)
	assert.Equal(t, DeleteLabel, menu.Items()[0].Text)

	require.True(t, menu.Select(0))
	out := rec.last()
	_, ok := out.Node("c")
	assert.False(t, ok)
	assert.Len(t, out.Connections, 1)
	assert.False(t, menu.IsOpen())
}

func TestContextMenuDeletesEdgeSharingNodeID(t *testing.T) {
	data := &model.FlowchartData{
		Nodes: []model.FlowNode{
			node("1", model.NodeStart, 100, 100),
			node("2", model.NodeEnd, 100, 300),
		},
		Connections: []model.FlowConnection{conn("1", "1", "2")},
	}
	c, rec := newController(t, data)
	require.True(t, model.Equal(*data, rec.last()))

	c.Engine().ContextMenuAt(engine.Point{X: 100, Y: 200})
	kind, id, _ := c.ContextMenu().Target()
	require.Equal(t, engine.ElementEdge, kind)
	require.Equal(t, "1", id)
	require.True(t, c.ContextMenu().Select(0))

	out := rec.last()
	assert.Empty(t, out.Connections)
	assert.Len(t, out.Nodes, 2)
}

func TestConnectRefusesSelfLoop(t *testing.T) {
	c, _ := newController(t, triangle())

	_, err := c.Connect("a", "a", "")
	assert.ErrorIs(t, err, ErrSelfLoop)
	assert.False(t, c.Engine().History().CanUndo())
}

func TestSelfLoopSurvivesLoad(t *testing.T) {
	data := triangle()
	data.Connections = append(data.Connections, conn("retry", "b", "b"))

	c, _ := newController(t, data)
	assert.NoError(t, c.LoadError())
	assert.True(t, model.Equal(*data, c.Snapshot()))
}

func TestSetDataReportsDroppedElements(t *testing.T) {
	c, rec := newController(t, triangle())

	broken := &model.FlowchartData{
		Nodes:       []model.FlowNode{node("a", model.NodeStart, 0, 0)},
		Connections: []model.FlowConnection{conn("x", "a", "ghost")},
	}
	err := c.SetData(broken)
	var renderErr *engine.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "ghost")
	assert.Equal(t, err, c.LoadError())
	assert.Len(t, rec.last().Nodes, 1)
	assert.Empty(t, rec.last().Connections)

	require.NoError(t, c.SetData(triangle()))
	assert.NoError(t, c.LoadError())
}

func TestLoadErrorAfterDeferredMount(t *testing.T) {
	container := &box{}
	c := New(Options{Container: container})
	broken := &model.FlowchartData{
		Nodes:       []model.FlowNode{node("a", model.NodeStart, 0, 0), node("a", model.NodeEnd, 0, 0)},
		Connections: []model.FlowConnection{},
	}
	require.NoError(t, c.SetData(broken))
	require.ErrorIs(t, c.Mount(), engine.ErrContainerNotReady)

	container.w, container.h = 800, 600
	c.NotifyResize()
	require.Equal(t, Ready, c.State())
	assert.Error(t, c.LoadError())
	assert.Len(t, c.Snapshot().Nodes, 1)
}

func TestTooltipFollowsDescription(t *testing.T) {
	c, _ := newController(t, triangle())
	eng := c.Engine()
	require.NoError(t, eng.SetProperties("a", map[string]any{adapter.PropDescription: "first step"}))

	eng.PointerMove(engine.Point{X: 100, Y: 100})
	tip := c.Tooltip()
	assert.True(t, tip.Visible)
	assert.Equal(t, "first step", tip.Text)
	assert.Equal(t, 100.0, tip.X)

	eng.PointerMove(engine.Point{X: 100, Y: 300})
	assert.False(t, c.Tooltip().Visible, "b has no description")

	eng.PointerMove(engine.Point{X: 100, Y: 100})
	eng.PointerMove(engine.Point{X: 700, Y: 50})
	assert.False(t, c.Tooltip().Visible)
}

func TestZoomAndResetView(t *testing.T) {
	c, _ := newController(t, nil)
	c.ZoomIn()
	c.ZoomIn()
	c.Engine().Translate(30, 30)
	assert.Greater(t, c.Engine().Transform().Scale, 1.0)

	c.ResetView()
	assert.Equal(t, engine.DefaultTransform(), c.Engine().Transform())
}

func TestResizeIsIdempotent(t *testing.T) {
	c, _ := newController(t, triangle())
	before := c.Recompute()
	for range 5 {
		c.NotifyResize()
	}
	assert.Equal(t, before, c.Recompute())
	w, h := c.Engine().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestDispose(t *testing.T) {
	c, rec := newController(t, triangle())
	eng := c.Engine()

	c.Dispose()
	assert.Equal(t, Uninitialized, c.State())
	assert.True(t, eng.Destroyed())
	assert.Nil(t, c.Engine())

	n := len(rec.changes)
	c.AddNode(model.NodeStart)
	c.Undo()
	assert.Len(t, rec.changes, n)

	c.Dispose()
}
