package export

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// Mermaid renders the diagram as a Mermaid flowchart
func Mermaid(d model.FlowchartData) string {
	var b strings.Builder

	b.WriteString("graph TD\n")

	for _, node := range d.Nodes {
		b.WriteString(fmt.Sprintf("    %s\n", mermaidNodeDef(node)))
	}

	for _, conn := range d.Connections {
		label := ""
		if conn.Text != "" {
			label = fmt.Sprintf("|%s|", mermaidEscapeLabel(conn.Text))
		}
		b.WriteString(fmt.Sprintf("    %s -->%s %s\n",
			mermaidSafeID(conn.From.NodeID), label, mermaidSafeID(conn.To.NodeID)))
	}

	// Colours, one style line per node with an explicit override
	first := true
	for _, node := range d.Nodes {
		var parts []string
		if node.FillColor != "" {
			parts = append(parts, "fill:"+node.FillColor)
		}
		if node.StrokeColor != "" {
			parts = append(parts, "stroke:"+node.StrokeColor)
		}
		if len(parts) == 0 {
			continue
		}
		if first {
			b.WriteString("\n")
			first = false
		}
		b.WriteString(fmt.Sprintf("    style %s %s\n", mermaidSafeID(node.ID), strings.Join(parts, ",")))
	}

	return b.String()
}

// mermaidNodeDef returns a Mermaid node definition with the shape of its type
func mermaidNodeDef(node model.FlowNode) string {
	id := mermaidSafeID(node.ID)
	label := firstLine(node.Text)

	switch node.Type {
	case model.NodeStart, model.NodeEnd:
		return fmt.Sprintf("%s([%q])", id, label)
	case model.NodeDecision:
		return fmt.Sprintf("%s{%q}", id, label)
	case model.NodeImage:
		return fmt.Sprintf("%s[/%q/]", id, label)
	default:
		return fmt.Sprintf("%s[%q]", id, label)
	}
}

// mermaidSafeID replaces characters Mermaid does not accept in identifiers
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(id)
}

// mermaidEscapeLabel keeps edge labels from closing the |label| syntax
func mermaidEscapeLabel(s string) string {
	return strings.ReplaceAll(firstLine(s), "|", "/")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
