package diff

import "github.com/pstuifzand/tui-flowchart/internal/model"

// DiffResult contains the analysis of changes between two diagrams
type DiffResult struct {
	NewNodes      map[string]model.FlowNode
	DeletedNodes  map[string]model.FlowNode
	ModifiedNodes map[string]*NodeChange

	NewConnections      map[string]model.FlowConnection
	DeletedConnections  map[string]model.FlowConnection
	ModifiedConnections map[string]*ConnectionChange
}

// Empty reports whether the two diagrams were equal
func (r *DiffResult) Empty() bool {
	return len(r.NewNodes) == 0 && len(r.DeletedNodes) == 0 && len(r.ModifiedNodes) == 0 &&
		len(r.NewConnections) == 0 && len(r.DeletedConnections) == 0 && len(r.ModifiedConnections) == 0
}

// NodeChange describes what changed for a node
type NodeChange struct {
	Node    model.FlowNode
	OldNode model.FlowNode

	TextChanged  bool
	TypeChanged  bool
	Moved        bool
	StyleChanged bool
	ImageChanged bool
}

// ConnectionChange describes what changed for a connection
type ConnectionChange struct {
	Connection    model.FlowConnection
	OldConnection model.FlowConnection

	TextChanged      bool
	EndpointsChanged bool
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeNewSection
	DiffTypeDeletedSection
	DiffTypeModifiedSection
	DiffTypeNewItem
	DiffTypeDeletedItem
	DiffTypeModifiedItem
	DiffTypeItemDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}
