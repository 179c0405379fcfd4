// Package diff compares two flowcharts by node and connection id
package diff

import (
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// ComputeDiff compares two diagrams and returns a DiffResult
func ComputeDiff(before, after model.FlowchartData) *DiffResult {
	result := &DiffResult{
		NewNodes:            make(map[string]model.FlowNode),
		DeletedNodes:        make(map[string]model.FlowNode),
		ModifiedNodes:       make(map[string]*NodeChange),
		NewConnections:      make(map[string]model.FlowConnection),
		DeletedConnections:  make(map[string]model.FlowConnection),
		ModifiedConnections: make(map[string]*ConnectionChange),
	}

	oldNodes := indexNodes(before.Nodes)
	newNodes := indexNodes(after.Nodes)

	// Find new and modified nodes
	for id, n := range newNodes {
		if old, exists := oldNodes[id]; !exists {
			result.NewNodes[id] = n
		} else if change := compareNodes(old, n); change != nil {
			result.ModifiedNodes[id] = change
		}
	}

	// Find deleted nodes
	for id, n := range oldNodes {
		if _, exists := newNodes[id]; !exists {
			result.DeletedNodes[id] = n
		}
	}

	oldConns := indexConnections(before.Connections)
	newConns := indexConnections(after.Connections)
	for id, c := range newConns {
		if old, exists := oldConns[id]; !exists {
			result.NewConnections[id] = c
		} else if change := compareConnections(old, c); change != nil {
			result.ModifiedConnections[id] = change
		}
	}
	for id, c := range oldConns {
		if _, exists := newConns[id]; !exists {
			result.DeletedConnections[id] = c
		}
	}

	return result
}

func indexNodes(nodes []model.FlowNode) map[string]model.FlowNode {
	m := make(map[string]model.FlowNode, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func indexConnections(conns []model.FlowConnection) map[string]model.FlowConnection {
	m := make(map[string]model.FlowConnection, len(conns))
	for _, c := range conns {
		m[c.ID] = c
	}
	return m
}

// compareNodes checks if a node changed and returns the changes
func compareNodes(old, new model.FlowNode) *NodeChange {
	change := &NodeChange{
		Node:         new,
		OldNode:      old,
		TextChanged:  old.Text != new.Text,
		TypeChanged:  old.Type != new.Type,
		Moved:        old.X != new.X || old.Y != new.Y,
		StyleChanged: old.FillColor != new.FillColor || old.StrokeColor != new.StrokeColor,
		ImageChanged: old.ImageURL != new.ImageURL,
	}
	if !change.TextChanged && !change.TypeChanged && !change.Moved && !change.StyleChanged && !change.ImageChanged {
		return nil
	}
	return change
}

// compareConnections checks if a connection changed and returns the changes
func compareConnections(old, new model.FlowConnection) *ConnectionChange {
	change := &ConnectionChange{
		Connection:       new,
		OldConnection:    old,
		TextChanged:      old.Text != new.Text,
		EndpointsChanged: old.From.NodeID != new.From.NodeID || old.To.NodeID != new.To.NodeID,
	}
	if !change.TextChanged && !change.EndpointsChanged {
		return nil
	}
	return change
}
