// Package model contains the canonical flowchart model
package model

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// FlowNodeType is the semantic kind of a node
type FlowNodeType string

const (
	NodeStart    FlowNodeType = "start"
	NodeProcess  FlowNodeType = "process"
	NodeDecision FlowNodeType = "decision"
	NodeEnd      FlowNodeType = "end"
	NodeImage    FlowNodeType = "image"
)

// Nominal node size used in the exported model
const (
	DefaultNodeWidth  = 120
	DefaultNodeHeight = 50
)

// AllNodeTypes returns every node type in toolbar order
func AllNodeTypes() []FlowNodeType {
	return []FlowNodeType{NodeStart, NodeProcess, NodeDecision, NodeEnd, NodeImage}
}

// Valid reports whether t is one of the known node types
func (t FlowNodeType) Valid() bool {
	return slices.Contains(AllNodeTypes(), t)
}

// DefaultText returns the label a freshly created node of type t gets
func DefaultText(t FlowNodeType) string {
	switch t {
	case NodeStart:
		return "开始"
	case NodeEnd:
		return "结束"
	case NodeDecision:
		return "条件判断?"
	case NodeImage:
		return "点击上传图片"
	default:
		return "流程步骤"
	}
}

// Anchor is a cosmetic connection attachment hint
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorRight  Anchor = "right"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
)

// AttachmentKind is the media kind of an attachment
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentVideo AttachmentKind = "video"
)

// Attachment is an embedded file carried by a node. URL is a data URL.
type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type AttachmentKind `json:"type"`
	URL  string         `json:"url"`
}

// FlowNode represents a single node of the diagram
type FlowNode struct {
	ID          string       `json:"id"`
	Type        FlowNodeType `json:"type"`
	Text        string       `json:"text"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	FillColor   string       `json:"fillColor,omitempty"`
	StrokeColor string       `json:"strokeColor,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
}

// Endpoint is one end of a connection
type Endpoint struct {
	NodeID   string `json:"nodeId"`
	Position Anchor `json:"position,omitempty"`
}

// FlowConnection is a directed edge between two nodes
type FlowConnection struct {
	ID   string   `json:"id"`
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
	Text string   `json:"text,omitempty"`
}

// FlowchartData is the whole diagram. It is the only value that leaves the editor.
type FlowchartData struct {
	Nodes       []FlowNode       `json:"nodes"`
	Connections []FlowConnection `json:"connections"`
}

// Empty returns a diagram with no nodes and no connections
func Empty() FlowchartData {
	return FlowchartData{
		Nodes:       make([]FlowNode, 0),
		Connections: make([]FlowConnection, 0),
	}
}

// Clone copies the node and connection slices of d. FlowNode and
// FlowConnection hold only strings and numbers, so the copy shares no
// memory with d. Nil slices become empty slices.
func (d FlowchartData) Clone() FlowchartData {
	out := Empty()
	out.Nodes = append(out.Nodes, d.Nodes...)
	out.Connections = append(out.Connections, d.Connections...)
	return out
}

// Node finds a node by its ID
func (d FlowchartData) Node(id string) (FlowNode, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return FlowNode{}, false
}

// Connection finds a connection by its ID
func (d FlowchartData) Connection(id string) (FlowConnection, bool) {
	for _, c := range d.Connections {
		if c.ID == id {
			return c, true
		}
	}
	return FlowConnection{}, false
}

// ConnectionsOf returns the connections that touch the given node
func (d FlowchartData) ConnectionsOf(nodeID string) []FlowConnection {
	var result []FlowConnection
	for _, c := range d.Connections {
		if c.From.NodeID == nodeID || c.To.NodeID == nodeID {
			result = append(result, c)
		}
	}
	return result
}

// NewID generates a new unique identifier with the given prefix
func NewID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
