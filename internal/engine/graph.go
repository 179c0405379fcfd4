// Package engine is the in-process diagramming engine behind the flowchart canvas.
//
// It owns a mutable node/edge graph, a snapshot history, a pan/zoom transform,
// an event bus and pointer hit testing. It knows nothing about flowchart
// semantics; those live in the adapter and controller packages.
package engine

import "maps"

// ShapeKind is the engine-native node shape
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
	ShapeDiamond ShapeKind = "diamond"
)

// EdgeKind is the engine-native edge rendering
type EdgeKind string

const (
	EdgePolyline EdgeKind = "polyline"
	EdgeLine     EdgeKind = "line"
)

// Point is a position in diagram or screen space
type Point struct {
	X float64
	Y float64
}

// Style is the visual style of a node shape
type Style struct {
	Fill   string
	Stroke string
}

// NodeConfig is the serializable form of a node. X and Y are the shape centre.
// A zero Width or Height means the shape default.
type NodeConfig struct {
	ID         string
	Type       ShapeKind
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Text       string
	Properties map[string]any
}

// EdgeConfig is the serializable form of an edge
type EdgeConfig struct {
	ID           string
	Type         EdgeKind
	SourceNodeID string
	TargetNodeID string
	Text         string
}

// GraphData is a complete engine graph
type GraphData struct {
	Nodes []NodeConfig
	Edges []EdgeConfig
}

// NodeModel is a live node
type NodeModel struct {
	ID         string
	Type       ShapeKind
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Text       string
	Properties map[string]any

	// Style is the per-instance override. Empty fields fall back to the theme.
	Style     Style
	TextColor string
}

// EdgeModel is a live edge
type EdgeModel struct {
	ID           string
	Type         EdgeKind
	SourceNodeID string
	TargetNodeID string
	Text         string
	TextOffset   Point
}

// defaultSize returns the rendered size of a shape when none is given
func defaultSize(kind ShapeKind) (float64, float64) {
	switch kind {
	case ShapeDiamond:
		return 140, 70
	default:
		return 120, 50
	}
}

func validShape(kind ShapeKind) bool {
	return kind == ShapeRect || kind == ShapeEllipse || kind == ShapeDiamond
}

func (n *NodeModel) clone() *NodeModel {
	c := *n
	c.Properties = CloneProperties(n.Properties)
	return &c
}

func (n *NodeModel) config() NodeConfig {
	return NodeConfig{
		ID:         n.ID,
		Type:       n.Type,
		X:          n.X,
		Y:          n.Y,
		Width:      n.Width,
		Height:     n.Height,
		Text:       n.Text,
		Properties: CloneProperties(n.Properties),
	}
}

func (e *EdgeModel) clone() *EdgeModel {
	c := *e
	return &c
}

func (e *EdgeModel) config() EdgeConfig {
	return EdgeConfig{
		ID:           e.ID,
		Type:         e.Type,
		SourceNodeID: e.SourceNodeID,
		TargetNodeID: e.TargetNodeID,
		Text:         e.Text,
	}
}

// CloneProperties deep-copies a property bag. Nested maps and slices are copied,
// other values are copied by assignment.
func CloneProperties(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneProperties(t)
	case map[string]string:
		return maps.Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// graphState is one history entry
type graphState struct {
	nodes []*NodeModel
	edges []*EdgeModel
}

func (s graphState) clone() graphState {
	out := graphState{
		nodes: make([]*NodeModel, len(s.nodes)),
		edges: make([]*EdgeModel, len(s.edges)),
	}
	for i, n := range s.nodes {
		out.nodes[i] = n.clone()
	}
	for i, e := range s.edges {
		out.edges[i] = e.clone()
	}
	return out
}
