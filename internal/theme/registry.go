package theme

import (
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// NodeStyle is the default fill/stroke pair of a node type
type NodeStyle struct {
	Fill   string `toml:"fill" json:"fill"`
	Stroke string `toml:"stroke" json:"stroke"`
}

// DefaultTextColor is the label colour of nodes without an override
const DefaultTextColor = "#1f2937"

// DefaultEdgeStroke is the line colour of connections
const DefaultEdgeStroke = "#6b7280"

var nodeStyles = map[model.FlowNodeType]NodeStyle{
	model.NodeStart:    {Fill: "#dcfce7", Stroke: "#22c55e"},
	model.NodeProcess:  {Fill: "#dbeafe", Stroke: "#3b82f6"},
	model.NodeDecision: {Fill: "#fef3c7", Stroke: "#f59e0b"},
	model.NodeEnd:      {Fill: "#fee2e2", Stroke: "#ef4444"},
	model.NodeImage:    {Fill: "#f3f4f6", Stroke: "#9ca3af"},
}

// DefaultStyle returns the registry colours for a node type.
// Unknown types get the process colours.
func DefaultStyle(t model.FlowNodeType) NodeStyle {
	if s, ok := nodeStyles[t]; ok {
		return s
	}
	return nodeStyles[model.NodeProcess]
}

// ShapeKind maps a node type to the engine shape drawn for it
func ShapeKind(t model.FlowNodeType) engine.ShapeKind {
	switch t {
	case model.NodeStart, model.NodeEnd:
		return engine.ShapeEllipse
	case model.NodeDecision:
		return engine.ShapeDiamond
	default:
		return engine.ShapeRect
	}
}

// TypeFromShape infers a node type from its shape. Rectangles are ambiguous
// between process and image and always come back as process.
func TypeFromShape(kind engine.ShapeKind) model.FlowNodeType {
	switch kind {
	case engine.ShapeEllipse:
		return model.NodeStart
	case engine.ShapeDiamond:
		return model.NodeDecision
	default:
		return model.NodeProcess
	}
}

// EngineTheme returns the registry as an engine theme keyed by shape
func EngineTheme() engine.Theme {
	return engine.Theme{
		Shapes: map[engine.ShapeKind]engine.Style{
			engine.ShapeRect:    toEngine(DefaultStyle(model.NodeProcess)),
			engine.ShapeEllipse: toEngine(DefaultStyle(model.NodeStart)),
			engine.ShapeDiamond: toEngine(DefaultStyle(model.NodeDecision)),
		},
		TextColor:  DefaultTextColor,
		EdgeStroke: DefaultEdgeStroke,
	}
}

func toEngine(s NodeStyle) engine.Style {
	return engine.Style{Fill: s.Fill, Stroke: s.Stroke}
}
