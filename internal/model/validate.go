package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// IntegrityError lists the data-integrity problems found in a diagram
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return "invalid flowchart: " + strings.Join(e.Problems, "; ")
}

// Validate checks id uniqueness and that every connection endpoint exists.
// Dangling endpoints are reported, never dropped.
func (d FlowchartData) Validate() error {
	var problems []string

	nodeIDs := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			problems = append(problems, "node with empty id")
			continue
		}
		if nodeIDs[n.ID] {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", n.ID))
		}
		nodeIDs[n.ID] = true
	}

	connIDs := make(map[string]bool, len(d.Connections))
	for _, c := range d.Connections {
		if connIDs[c.ID] {
			problems = append(problems, fmt.Sprintf("duplicate connection id %q", c.ID))
		}
		connIDs[c.ID] = true
		if !nodeIDs[c.From.NodeID] {
			problems = append(problems, fmt.Sprintf("connection %q: unknown source node %q", c.ID, c.From.NodeID))
		}
		if !nodeIDs[c.To.NodeID] {
			problems = append(problems, fmt.Sprintf("connection %q: unknown target node %q", c.ID, c.To.NodeID))
		}
	}

	if len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}

// Equal compares two diagrams ignoring the order of nodes and connections
func Equal(a, b FlowchartData) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Connections) != len(b.Connections) {
		return false
	}
	an, bn := sortedNodes(a.Nodes), sortedNodes(b.Nodes)
	ac, bc := sortedConnections(a.Connections), sortedConnections(b.Connections)
	return reflect.DeepEqual(an, bn) && reflect.DeepEqual(ac, bc)
}

func sortedNodes(nodes []FlowNode) []FlowNode {
	out := append([]FlowNode(nil), nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedConnections(conns []FlowConnection) []FlowConnection {
	out := append([]FlowConnection(nil), conns...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
