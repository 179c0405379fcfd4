// Package adapter translates between the canonical flowchart model and the
// engine graph.
package adapter

import (
	"log"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// Rendered size of image nodes. Exported geometry is still 120x50.
const (
	ImageNodeWidth  = 200
	ImageNodeHeight = 150
)

// ToEngineGraph projects a diagram into engine nodes and edges
func ToEngineGraph(d model.FlowchartData) engine.GraphData {
	g := engine.GraphData{
		Nodes: make([]engine.NodeConfig, 0, len(d.Nodes)),
		Edges: make([]engine.EdgeConfig, 0, len(d.Connections)),
	}
	for _, n := range d.Nodes {
		g.Nodes = append(g.Nodes, NodeConfig(n))
	}
	for _, c := range d.Connections {
		g.Edges = append(g.Edges, engine.EdgeConfig{
			ID:           c.ID,
			Type:         engine.EdgePolyline,
			SourceNodeID: c.From.NodeID,
			TargetNodeID: c.To.NodeID,
			Text:         c.Text,
		})
	}
	return g
}

// NodeConfig builds the engine node for a canonical node
func NodeConfig(n model.FlowNode) engine.NodeConfig {
	props := NodeProperties{
		FlowType: n.Type,
		ImageURL: n.ImageURL,
		Style:    ptr(ResolveStyle(n)),
	}
	return engine.NodeConfig{
		ID:         n.ID,
		Type:       theme.ShapeKind(n.Type),
		X:          n.X,
		Y:          n.Y,
		Text:       n.Text,
		Properties: props.Encode(),
	}
}

// ResolveStyle returns the node's colours with registry defaults filled in
func ResolveStyle(n model.FlowNode) theme.NodeStyle {
	s := theme.DefaultStyle(n.Type)
	if n.FillColor != "" {
		s.Fill = n.FillColor
	}
	if n.StrokeColor != "" {
		s.Stroke = n.StrokeColor
	}
	return s
}

// FromEngineGraph derives the canonical diagram from an engine graph.
// Node size is always the nominal 120x50 and anchors are always bottom to top.
func FromEngineGraph(g engine.GraphData) model.FlowchartData {
	d := model.Empty()
	for _, n := range g.Nodes {
		props := DecodeProperties(n.Properties)
		t := NodeType(n.Type, props)
		style := theme.DefaultStyle(t)
		if props.Style != nil {
			if props.Style.Fill != "" {
				style.Fill = props.Style.Fill
			}
			if props.Style.Stroke != "" {
				style.Stroke = props.Style.Stroke
			}
		}
		d.Nodes = append(d.Nodes, model.FlowNode{
			ID:          n.ID,
			Type:        t,
			Text:        n.Text,
			X:           n.X,
			Y:           n.Y,
			Width:       model.DefaultNodeWidth,
			Height:      model.DefaultNodeHeight,
			FillColor:   style.Fill,
			StrokeColor: style.Stroke,
			ImageURL:    props.ImageURL,
		})
	}
	for _, e := range g.Edges {
		d.Connections = append(d.Connections, model.FlowConnection{
			ID:   e.ID,
			From: model.Endpoint{NodeID: e.SourceNodeID, Position: model.AnchorBottom},
			To:   model.Endpoint{NodeID: e.TargetNodeID, Position: model.AnchorTop},
			Text: e.Text,
		})
	}
	return d
}

// NodeType prefers the stored flowType and falls back to the shape
func NodeType(kind engine.ShapeKind, props NodeProperties) model.FlowNodeType {
	if props.FlowType != "" {
		return props.FlowType
	}
	return theme.TypeFromShape(kind)
}

// LiveNodeType returns the flow type of a live engine node
func LiveNodeType(n *engine.NodeModel) model.FlowNodeType {
	return NodeType(n.Type, DecodeProperties(n.Properties))
}

// Load replaces the engine contents with d. The engine does not read styles
// from properties at creation, so every node's colours are written back after
// the render without adding a history step.
func Load(eng *engine.Engine, d model.FlowchartData) error {
	err := eng.Render(ToEngineGraph(d))
	if err != nil {
		log.Printf("Loaded flowchart with problems: %v", err)
	}
	eng.Amend(func() {
		for _, n := range d.Nodes {
			if eng.Node(n.ID) == nil {
				continue
			}
			decorate(eng, n.ID, n.Type, ResolveStyle(n))
		}
	})
	return err
}

// CreateNode adds one node and writes its style as part of the same
// history step
func CreateNode(eng *engine.Engine, n model.FlowNode) (*engine.NodeModel, error) {
	created, err := eng.AddNode(NodeConfig(n))
	if err != nil {
		return nil, err
	}
	eng.Amend(func() {
		decorate(eng, created.ID, n.Type, ResolveStyle(n))
	})
	return eng.Node(created.ID), nil
}

func decorate(eng *engine.Engine, id string, t model.FlowNodeType, s theme.NodeStyle) {
	eng.SetNodeStyle(id, engine.Style{Fill: s.Fill, Stroke: s.Stroke})
	if t == model.NodeImage {
		eng.ResizeNode(id, ImageNodeWidth, ImageNodeHeight)
	}
}

// Snapshot derives the canonical diagram from a live engine
func Snapshot(eng *engine.Engine) model.FlowchartData {
	return FromEngineGraph(eng.GraphData())
}

func ptr[T any](v T) *T {
	return &v
}
