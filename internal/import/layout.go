package import_parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

const (
	columnSpacing = 200.0
	rowSpacing    = 100.0
	originX       = 100.0
	originY       = 60.0

	// Longest prefix before ':' read as a branch label
	maxLabelRunes = 12
)

type builder struct {
	data  model.FlowchartData
	row   int
	nodes int
	conns int
}

// ToFlowchart lays out an outline top to bottom. Top-level items form the
// main path from a start node to an end node, nested items branch off to
// the right of their parent. Items ending in '?' become decisions, and
// below a decision a "label: text" item labels its branch.
func ToFlowchart(items []*Item) model.FlowchartData {
	b := &builder{data: model.Empty()}

	prev := b.node(model.NodeStart, model.DefaultText(model.NodeStart), 0)
	for _, item := range items {
		id := b.visit(item, 0, "")
		b.connect(prev, id, "", model.AnchorBottom, model.AnchorTop)
		prev = id
	}
	end := b.node(model.NodeEnd, model.DefaultText(model.NodeEnd), 0)
	b.connect(prev, end, "", model.AnchorBottom, model.AnchorTop)

	return b.data
}

// visit adds item and its subtree and returns the id of item's node
func (b *builder) visit(item *Item, depth int, text string) string {
	if text == "" {
		text = item.Text
	}
	t := model.NodeProcess
	if isQuestion(text) {
		t = model.NodeDecision
	}
	id := b.node(t, text, depth)

	for _, child := range item.Children {
		label, childText := "", child.Text
		if t == model.NodeDecision {
			label, childText = splitLabel(child.Text)
		}
		childID := b.visit(child, depth+1, childText)
		b.connect(id, childID, label, model.AnchorRight, model.AnchorLeft)
	}
	return id
}

func (b *builder) node(t model.FlowNodeType, text string, depth int) string {
	b.nodes++
	style := theme.DefaultStyle(t)
	n := model.FlowNode{
		ID:          fmt.Sprintf("node_%d", b.nodes),
		Type:        t,
		Text:        text,
		X:           originX + float64(depth)*columnSpacing,
		Y:           originY + float64(b.row)*rowSpacing,
		Width:       model.DefaultNodeWidth,
		Height:      model.DefaultNodeHeight,
		FillColor:   style.Fill,
		StrokeColor: style.Stroke,
	}
	b.row++
	b.data.Nodes = append(b.data.Nodes, n)
	return n.ID
}

func (b *builder) connect(from, to, label string, fromPos, toPos model.Anchor) {
	b.conns++
	b.data.Connections = append(b.data.Connections, model.FlowConnection{
		ID:   fmt.Sprintf("conn_%d", b.conns),
		From: model.Endpoint{NodeID: from, Position: fromPos},
		To:   model.Endpoint{NodeID: to, Position: toPos},
		Text: label,
	})
}

func isQuestion(text string) bool {
	return strings.HasSuffix(text, "?") || strings.HasSuffix(text, "？")
}

// splitLabel splits "yes: next step" into the branch label and the node text
func splitLabel(text string) (label, rest string) {
	head, tail, ok := strings.Cut(text, ":")
	if !ok {
		head, tail, ok = strings.Cut(text, "：")
	}
	head, tail = strings.TrimSpace(head), strings.TrimSpace(tail)
	if !ok || head == "" || tail == "" || utf8.RuneCountInString(head) > maxLabelRunes {
		return "", text
	}
	return head, tail
}
