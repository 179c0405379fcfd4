package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedContainer struct {
	w, h int
}

func (c fixedContainer) Size() (int, int) { return c.w, c.h }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(fixedContainer{800, 600}, Options{HistoryLimit: 20})
	require.NoError(t, err)
	return e
}

func twoNodes() GraphData {
	return GraphData{
		Nodes: []NodeConfig{
			{ID: "a", Type: ShapeEllipse, X: 100, Y: 100, Text: "A", Properties: map[string]any{"flowType": "start"}},
			{ID: "b", Type: ShapeRect, X: 100, Y: 300, Text: "B"},
		},
		Edges: []EdgeConfig{
			{ID: "e1", Type: EdgePolyline, SourceNodeID: "a", TargetNodeID: "b", Text: "go"},
		},
	}
}

func TestNewRequiresSizedContainer(t *testing.T) {
	_, err := New(fixedContainer{0, 600}, Options{})
	assert.ErrorIs(t, err, ErrContainerNotReady)

	_, err = New(nil, Options{})
	assert.ErrorIs(t, err, ErrContainerNotReady)
}

func TestRenderAndGraphData(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	g := e.GraphData()
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "start", g.Nodes[0].Properties["flowType"])
	assert.Equal(t, 120.0, g.Nodes[0].Width)
	assert.False(t, e.History().CanUndo())
}

func TestRenderDoesNotApplyPropertyStyles(t *testing.T) {
	e := newTestEngine(t)
	g := twoNodes()
	g.Nodes[1].Properties = map[string]any{"style": map[string]any{"fill": "#000000"}}
	require.NoError(t, e.Render(g))

	assert.Equal(t, Style{}, e.Node("b").Style)
}

func TestRenderReportsDanglingEdges(t *testing.T) {
	e := newTestEngine(t)
	g := twoNodes()
	g.Edges = append(g.Edges, EdgeConfig{ID: "bad", SourceNodeID: "a", TargetNodeID: "ghost"})

	err := e.Render(g)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Len(t, re.Skipped, 1)
	assert.Len(t, e.Edges(), 1)
}

func TestDeleteNodeCascadesEdges(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	var deleted []string
	e.On(EventEdgeDelete, func(ev Event) { deleted = append(deleted, ev.ID) })

	require.NoError(t, e.DeleteNode("a"))
	assert.Nil(t, e.Node("a"))
	assert.Empty(t, e.Edges())
	assert.Equal(t, []string{"e1"}, deleted)

	assert.ErrorIs(t, e.DeleteNode("a"), ErrUnknownNode)
}

func TestUndoRedo(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))
	before := e.GraphData()

	_, err := e.AddNode(NodeConfig{ID: "c", Type: ShapeDiamond, X: 10, Y: 10})
	require.NoError(t, err)
	after := e.GraphData()

	require.True(t, e.Undo())
	assert.Equal(t, before, e.GraphData())
	require.True(t, e.Redo())
	assert.Equal(t, after, e.GraphData())
	assert.False(t, e.Redo())
}

func TestNewMutationDropsRedoBranch(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	require.NoError(t, e.UpdateText("a", "one"))
	require.True(t, e.Undo())
	require.NoError(t, e.UpdateText("a", "two"))

	assert.False(t, e.History().CanRedo())
	assert.Equal(t, "two", e.Node("a").Text)
}

func TestHistoryLimit(t *testing.T) {
	e, err := New(fixedContainer{10, 10}, Options{HistoryLimit: 3})
	require.NoError(t, err)
	for i := range 10 {
		_, err := e.AddNode(NodeConfig{X: float64(i)})
		require.NoError(t, err)
	}

	undone := 0
	for e.Undo() {
		undone++
	}
	assert.Equal(t, 3, undone)
	assert.Len(t, e.Nodes(), 7)
}

func TestHistoryChangeEmittedPerMutation(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	count := 0
	e.On(EventHistoryChange, func(Event) { count++ })

	require.NoError(t, e.SetNodeStyle("a", Style{Fill: "#ffffff"}))
	require.NoError(t, e.SetProperties("a", map[string]any{"description": "x"}))
	e.Undo()
	e.Redo()
	assert.Equal(t, 4, count)
}

func TestAmendReplacesCurrentEntry(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	e.Amend(func() {
		require.NoError(t, e.SetNodeStyle("a", Style{Fill: "#123456", Stroke: "#654321"}))
	})
	assert.False(t, e.History().CanUndo())

	require.NoError(t, e.UpdateText("a", "changed"))
	require.True(t, e.Undo())
	assert.Equal(t, "#123456", e.Node("a").Style.Fill)
}

func TestPropertiesAreIsolatedFromHistory(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	require.NoError(t, e.SetProperties("a", map[string]any{"attachments": []any{map[string]any{"id": "1"}}}))
	atts := e.Node("a").Properties["attachments"].([]any)
	atts[0].(map[string]any)["id"] = "mutated"

	require.NoError(t, e.UpdateText("a", "x"))
	require.True(t, e.Undo())
	atts = e.Node("a").Properties["attachments"].([]any)
	assert.Equal(t, "1", atts[0].(map[string]any)["id"])
}

func TestAddEdgeValidation(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))

	_, err := e.AddEdge(EdgeConfig{SourceNodeID: "a", TargetNodeID: "zz"})
	assert.ErrorIs(t, err, ErrUnknownNode)
	_, err = e.AddEdge(EdgeConfig{ID: "e1", SourceNodeID: "b", TargetNodeID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	ed, err := e.AddEdge(EdgeConfig{SourceNodeID: "b", TargetNodeID: "a"})
	require.NoError(t, err)
	assert.Equal(t, EdgePolyline, ed.Type)
	assert.NotEmpty(t, ed.ID)
}

func TestNodeAndEdgeIDsAreSeparate(t *testing.T) {
	e := newTestEngine(t)
	g := GraphData{
		Nodes: []NodeConfig{
			{ID: "1", X: 100, Y: 100, Text: "one"},
			{ID: "2", X: 100, Y: 300, Text: "two"},
		},
		Edges: []EdgeConfig{{ID: "1", SourceNodeID: "1", TargetNodeID: "2", Text: "go"}},
	}
	require.NoError(t, e.Render(g))
	require.NotNil(t, e.Node("1"))
	require.NotNil(t, e.Edge("1"))

	_, err := e.AddNode(NodeConfig{ID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = e.AddEdge(EdgeConfig{ID: "1", SourceNodeID: "2", TargetNodeID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	require.NoError(t, e.UpdateEdgeText("1", "yes"))
	assert.Equal(t, "yes", e.Edge("1").Text)
	assert.Equal(t, "one", e.Node("1").Text)

	require.NoError(t, e.DeleteElement(ElementEdge, "1"))
	assert.Nil(t, e.Edge("1"))
	assert.NotNil(t, e.Node("1"))

	assert.ErrorIs(t, e.DeleteElement(ElementNone, "1"), ErrUnknownKind)
}

func TestSelfLoopIsKept(t *testing.T) {
	e := newTestEngine(t)
	g := twoNodes()
	g.Edges = append(g.Edges, EdgeConfig{ID: "retry", SourceNodeID: "b", TargetNodeID: "b", Text: "again"})
	require.NoError(t, e.Render(g))
	require.NotNil(t, e.Edge("retry"))
	assert.Len(t, e.GraphData().Edges, 2)

	require.NoError(t, e.DeleteNode("b"))
	assert.Empty(t, e.Edges())
}

func TestDestroyDetachesListeners(t *testing.T) {
	e := newTestEngine(t)
	called := false
	e.On(EventHistoryChange, func(Event) { called = true })
	menu := NewContextMenu()
	e.Use(menu)

	e.Destroy()
	assert.True(t, e.Destroyed())
	assert.Equal(t, 0, e.events.Count(EventHistoryChange))
	assert.ErrorIs(t, e.Render(twoNodes()), ErrDestroyed)
	assert.False(t, called)
}

func TestResizeIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Render(twoNodes()))
	g := e.GraphData()
	for range 3 {
		e.Resize(1024, 768)
	}
	w, h := e.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, g, e.GraphData())
}
