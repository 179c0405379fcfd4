package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

type fixedContainer struct{}

func (fixedContainer) Size() (int, int) { return 800, 600 }

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(fixedContainer{}, engine.Options{})
	require.NoError(t, err)
	e.SetTheme(theme.EngineTheme())
	return e
}

func sample() model.FlowchartData {
	return model.FlowchartData{
		Nodes: []model.FlowNode{
			{ID: "s", Type: model.NodeStart, Text: "开始", X: 100, Y: 50, Width: 120, Height: 50, FillColor: "#dcfce7", StrokeColor: "#22c55e"},
			{ID: "p", Type: model.NodeProcess, Text: "step", X: 100, Y: 150, Width: 120, Height: 50, FillColor: "#ff0000", StrokeColor: "#3b82f6"},
			{ID: "i", Type: model.NodeImage, Text: "pic", X: 100, Y: 250, Width: 120, Height: 50, FillColor: "#f3f4f6", StrokeColor: "#9ca3af", ImageURL: "data:image/png;base64,AAAA"},
		},
		Connections: []model.FlowConnection{
			{ID: "c1", From: model.Endpoint{NodeID: "s", Position: model.AnchorBottom}, To: model.Endpoint{NodeID: "p", Position: model.AnchorTop}, Text: "yes"},
			{ID: "c2", From: model.Endpoint{NodeID: "p", Position: model.AnchorBottom}, To: model.Endpoint{NodeID: "i", Position: model.AnchorTop}},
		},
	}
}

func TestRoundTripIsIdentity(t *testing.T) {
	d := sample()
	assert.Equal(t, d, FromEngineGraph(ToEngineGraph(d)))
}

func TestToEngineGraphShapesAndProperties(t *testing.T) {
	g := ToEngineGraph(sample())

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, engine.ShapeEllipse, g.Nodes[0].Type)
	assert.Equal(t, engine.ShapeRect, g.Nodes[2].Type)
	assert.Equal(t, "image", g.Nodes[2].Properties[PropFlowType])
	assert.Equal(t, "data:image/png;base64,AAAA", g.Nodes[2].Properties[PropImageURL])
	assert.Equal(t, map[string]any{"fill": "#ff0000", "stroke": "#3b82f6"}, g.Nodes[1].Properties[PropStyle])

	require.Len(t, g.Edges, 2)
	assert.Equal(t, engine.EdgePolyline, g.Edges[0].Type)
	assert.Equal(t, "", g.Edges[1].Text)
}

func TestMissingColoursGetRegistryDefaults(t *testing.T) {
	d := model.FlowchartData{Nodes: []model.FlowNode{{ID: "d", Type: model.NodeDecision, Text: "?"}}}

	out := FromEngineGraph(ToEngineGraph(d))
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, "#fef3c7", out.Nodes[0].FillColor)
	assert.Equal(t, "#f59e0b", out.Nodes[0].StrokeColor)
	assert.Equal(t, 120.0, out.Nodes[0].Width)
	assert.Equal(t, 50.0, out.Nodes[0].Height)
}

func TestFromEngineGraphTypeResolution(t *testing.T) {
	g := engine.GraphData{Nodes: []engine.NodeConfig{
		{ID: "a", Type: engine.ShapeRect, Properties: map[string]any{PropFlowType: "image"}},
		{ID: "b", Type: engine.ShapeEllipse},
		{ID: "c", Type: engine.ShapeDiamond, Properties: map[string]any{PropFlowType: "bogus"}},
		{ID: "d", Type: engine.ShapeRect},
	}}

	d := FromEngineGraph(g)
	assert.Equal(t, model.NodeImage, d.Nodes[0].Type)
	assert.Equal(t, model.NodeStart, d.Nodes[1].Type)
	assert.Equal(t, model.NodeDecision, d.Nodes[2].Type)
	assert.Equal(t, model.NodeProcess, d.Nodes[3].Type)
	assert.Equal(t, "#f3f4f6", d.Nodes[0].FillColor)
}

func TestFromEngineGraphFixesAnchorsAndSize(t *testing.T) {
	g := engine.GraphData{
		Nodes: []engine.NodeConfig{
			{ID: "a", Type: engine.ShapeRect, Width: 300, Height: 90},
			{ID: "b", Type: engine.ShapeRect},
		},
		Edges: []engine.EdgeConfig{{ID: "e", SourceNodeID: "a", TargetNodeID: "b"}},
	}

	d := FromEngineGraph(g)
	assert.Equal(t, 120.0, d.Nodes[0].Width)
	assert.Equal(t, model.AnchorBottom, d.Connections[0].From.Position)
	assert.Equal(t, model.AnchorTop, d.Connections[0].To.Position)
}

func TestLoadWritesStylesWithoutHistory(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, Load(e, sample()))

	assert.False(t, e.History().CanUndo())

	p := e.Node("p")
	require.NotNil(t, p)
	assert.Equal(t, "#ff0000", e.EffectiveStyle(p).Fill)

	img := e.Node("i")
	require.NotNil(t, img)
	assert.Equal(t, "#f3f4f6", e.EffectiveStyle(img).Fill)
	assert.Equal(t, float64(ImageNodeWidth), img.Width)
	assert.Equal(t, float64(ImageNodeHeight), img.Height)

	// rendered size never leaks into the model
	assert.Equal(t, sample(), Snapshot(e))
}

func TestLoadReportsDanglingConnections(t *testing.T) {
	e := newEngine(t)
	d := sample()
	d.Connections = append(d.Connections, model.FlowConnection{
		ID:   "bad",
		From: model.Endpoint{NodeID: "s"},
		To:   model.Endpoint{NodeID: "missing"},
	})

	err := Load(e, d)
	var renderErr *engine.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Len(t, e.Edges(), 2)
}

func TestCreateNodeIsOneHistoryStep(t *testing.T) {
	e := newEngine(t)
	n, err := CreateNode(e, model.FlowNode{Type: model.NodeImage, Text: "pic", X: 10, Y: 10})
	require.NoError(t, err)

	assert.Equal(t, "#9ca3af", e.EffectiveStyle(n).Stroke)
	assert.Equal(t, float64(ImageNodeWidth), n.Width)
	assert.Equal(t, model.NodeImage, LiveNodeType(n))

	require.True(t, e.Undo())
	assert.Empty(t, e.Nodes())
	require.True(t, e.Redo())
	assert.Equal(t, "#9ca3af", e.EffectiveStyle(e.Nodes()[0]).Stroke)
}

func TestDecodeProperties(t *testing.T) {
	props := NodeProperties{
		FlowType:    model.NodeEnd,
		Style:       &theme.NodeStyle{Fill: "#000000", Stroke: "#ffffff"},
		Description: "details",
		TextColor:   "#123456",
		Attachments: []model.Attachment{{ID: "a1", Name: "x.png", Type: model.AttachmentImage, URL: "data:image/png;base64,AA"}},
	}.Encode()

	p := DecodeProperties(props)
	assert.Equal(t, model.NodeEnd, p.FlowType)
	assert.Equal(t, "details", p.Description)
	assert.Equal(t, "#123456", p.TextColor)
	require.NotNil(t, p.Style)
	assert.Equal(t, "#000000", p.Style.Fill)
	require.Len(t, p.Attachments, 1)
	assert.Equal(t, "x.png", p.Attachments[0].Name)
}

func TestDecodePropertiesIgnoresWrongTypes(t *testing.T) {
	p := DecodeProperties(map[string]any{
		PropFlowType:    42,
		PropDescription: []string{"no"},
		PropStyle:       "red",
		PropAttachments: []any{"junk", map[string]any{"id": "a", "type": "audio"}},
	})
	assert.Equal(t, NodeProperties{}, p)
}
