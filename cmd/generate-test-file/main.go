package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/tui-flowchart/internal/export"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// Layout of generated diagrams
const (
	columnSpacing = 200
	rowSpacing    = 120
)

func main() {
	numNodes := flag.Int("nodes", 200, "Number of nodes to generate")
	output := flag.String("output", "large_test.json", "Output file path")
	width := flag.Int("width", 5, "Nodes per row")
	flag.Parse()

	if *numNodes < 2 {
		fmt.Fprintf(os.Stderr, "nodes must be at least 2\n")
		os.Exit(1)
	}
	if *width < 1 {
		fmt.Fprintf(os.Stderr, "width must be at least 1\n")
		os.Exit(1)
	}

	d := generateFlowchart(*numNodes, *width)

	// Ensure directory exists
	dir := filepath.Dir(*output)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := export.WriteJSON(*output, d); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated flowchart with %d nodes and %d connections\n", len(d.Nodes), len(d.Connections))
	fmt.Printf("Saved to: %s\n", *output)
	fmt.Printf("File size: %.2f MB\n", float64(info.Size())/(1024*1024))
}

// generateFlowchart lays out a start node, rows of process and decision
// nodes and an end node. Each node connects to the next; decisions also
// branch to the node below them.
func generateFlowchart(total, width int) model.FlowchartData {
	d := model.Empty()
	for i := 0; i < total; i++ {
		t := nodeType(i, total)
		d.Nodes = append(d.Nodes, model.FlowNode{
			ID:     fmt.Sprintf("node_%d", i),
			Type:   t,
			Text:   generateUniqueText(i, t),
			X:      float64(i%width) * columnSpacing,
			Y:      float64(i/width) * rowSpacing,
			Width:  model.DefaultNodeWidth,
			Height: model.DefaultNodeHeight,
		})
	}

	conn := 0
	connect := func(from, to int, label string) {
		d.Connections = append(d.Connections, model.FlowConnection{
			ID:   fmt.Sprintf("conn_%d", conn),
			From: model.Endpoint{NodeID: d.Nodes[from].ID, Position: model.AnchorBottom},
			To:   model.Endpoint{NodeID: d.Nodes[to].ID, Position: model.AnchorTop},
			Text: label,
		})
		conn++
	}
	for i := 0; i+1 < total; i++ {
		if d.Nodes[i].Type == model.NodeDecision {
			connect(i, i+1, "yes")
			if below := i + width; below < total {
				connect(i, below, "no")
			}
			continue
		}
		connect(i, i+1, "")
	}
	return d
}

func nodeType(i, total int) model.FlowNodeType {
	switch {
	case i == 0:
		return model.NodeStart
	case i == total-1:
		return model.NodeEnd
	case i%4 == 3:
		return model.NodeDecision
	default:
		return model.NodeProcess
	}
}

func generateUniqueText(index int, t model.FlowNodeType) string {
	if t != model.NodeProcess && t != model.NodeDecision {
		return model.DefaultText(t)
	}
	descriptions := []string{
		"Validate input",
		"Load record",
		"Check stock",
		"Reserve items",
		"Send invoice",
		"Notify user",
		"Write audit log",
		"Retry payment",
	}
	text := descriptions[index%len(descriptions)]
	if t == model.NodeDecision {
		text += "?"
	}
	return fmt.Sprintf("%s #%d", text, index)
}
