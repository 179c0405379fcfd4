package diff

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// BuildDiffLines converts a DiffResult into formatted display lines.
// This is suitable for both CLI and TUI output. Verbose adds positions and
// colours to modified nodes.
func BuildDiffLines(result *DiffResult, verbose bool) []DiffLine {
	var lines []DiffLine

	if len(result.NewNodes) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "New Nodes:"})
		for _, id := range getSortedIDs(result.NewNodes) {
			n := result.NewNodes[id]
			lines = append(lines, DiffLine{Type: DiffTypeNewItem, Content: nodeLabel(n), Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.DeletedNodes) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Deleted Nodes:"})
		for _, id := range getSortedIDs(result.DeletedNodes) {
			n := result.DeletedNodes[id]
			lines = append(lines, DiffLine{Type: DiffTypeDeletedItem, Content: nodeLabel(n), Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.ModifiedNodes) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Modified Nodes:"})
		for _, id := range getSortedIDs(result.ModifiedNodes) {
			lines = append(lines, formatModifiedNode(result.ModifiedNodes[id], verbose)...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.NewConnections) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "New Connections:"})
		for _, id := range getSortedIDs(result.NewConnections) {
			lines = append(lines, DiffLine{Type: DiffTypeNewItem, Content: connectionLabel(result.NewConnections[id]), Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.DeletedConnections) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Deleted Connections:"})
		for _, id := range getSortedIDs(result.DeletedConnections) {
			lines = append(lines, DiffLine{Type: DiffTypeDeletedItem, Content: connectionLabel(result.DeletedConnections[id]), Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.ModifiedConnections) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Modified Connections:"})
		for _, id := range getSortedIDs(result.ModifiedConnections) {
			change := result.ModifiedConnections[id]
			lines = append(lines, DiffLine{Type: DiffTypeModifiedItem, Content: connectionLabel(change.Connection), Indent: 1})
			if change.EndpointsChanged {
				lines = append(lines, DiffLine{
					Type: DiffTypeItemDetail,
					Content: fmt.Sprintf("ENDPOINTS: %s → %s was %s → %s",
						change.Connection.From.NodeID, change.Connection.To.NodeID,
						change.OldConnection.From.NodeID, change.OldConnection.To.NodeID),
					Indent: 2,
				})
			}
			if change.TextChanged {
				lines = append(lines, DiffLine{
					Type:    DiffTypeItemDetail,
					Content: fmt.Sprintf("LABEL: %q → %q", change.OldConnection.Text, change.Connection.Text),
					Indent:  2,
				})
			}
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: Summary(result)})
	return lines
}

// Summary is a one-line count of the changes
func Summary(result *DiffResult) string {
	if result.Empty() {
		return "No changes"
	}
	return fmt.Sprintf("nodes: %d modified, %d added, %d deleted; connections: %d modified, %d added, %d deleted",
		len(result.ModifiedNodes), len(result.NewNodes), len(result.DeletedNodes),
		len(result.ModifiedConnections), len(result.NewConnections), len(result.DeletedConnections))
}

// FormatLines renders lines as plain text with two spaces per indent level
func FormatLines(lines []DiffLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat("  ", l.Indent))
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatModifiedNode(change *NodeChange, verbose bool) []DiffLine {
	lines := []DiffLine{{Type: DiffTypeModifiedItem, Content: nodeLabel(change.Node), Indent: 1}}

	detail := func(format string, args ...any) {
		lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: fmt.Sprintf(format, args...), Indent: 2})
	}

	if change.TextChanged {
		detail("TEXT: %s → %s", truncateText(change.OldNode.Text, 40), truncateText(change.Node.Text, 40))
	}
	if change.TypeChanged {
		detail("TYPE: %s → %s", change.OldNode.Type, change.Node.Type)
	}
	if change.Moved {
		if verbose {
			detail("MOVED: (%.0f, %.0f) → (%.0f, %.0f)", change.OldNode.X, change.OldNode.Y, change.Node.X, change.Node.Y)
		} else {
			detail("MOVED")
		}
	}
	if change.StyleChanged {
		if verbose {
			detail("STYLE: fill %s stroke %s → fill %s stroke %s",
				change.OldNode.FillColor, change.OldNode.StrokeColor, change.Node.FillColor, change.Node.StrokeColor)
		} else {
			detail("STYLE changed")
		}
	}
	if change.ImageChanged {
		detail("IMAGE changed")
	}
	return lines
}

func nodeLabel(n model.FlowNode) string {
	return fmt.Sprintf("%s [%s]: %s", n.ID, n.Type, truncateText(n.Text, 60))
}

func connectionLabel(c model.FlowConnection) string {
	label := fmt.Sprintf("%s: %s → %s", c.ID, c.From.NodeID, c.To.NodeID)
	if c.Text != "" {
		label += fmt.Sprintf(" %q", c.Text)
	}
	return label
}

// truncateText limits text width for display
func truncateText(text string, maxWidth int) string {
	// Handle multi-line text
	first, _, multi := strings.Cut(text, "\n")
	if multi {
		first += " ..."
	}
	return runewidth.Truncate(first, maxWidth, "...")
}

// getSortedIDs returns a sorted slice of keys from a map
func getSortedIDs[T any](items map[string]T) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
