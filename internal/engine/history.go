package engine

// History is a bounded stack of graph snapshots.
// The entry at index is always the current graph.
type History struct {
	entries []graphState
	index   int
	limit   int
}

// NewHistory creates a history keeping at most limit undo steps
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 50
	}
	return &History{index: -1, limit: limit}
}

// reset drops every entry and records s as the only one
func (h *History) reset(s graphState) {
	h.entries = []graphState{s.clone()}
	h.index = 0
}

// push records s as the new current entry and discards the redo branch
func (h *History) push(s graphState) {
	h.entries = append(h.entries[:h.index+1], s.clone())
	// limit counts undo steps, so keep limit+1 entries
	if over := len(h.entries) - (h.limit + 1); over > 0 {
		h.entries = h.entries[over:]
	}
	h.index = len(h.entries) - 1
}

// replace overwrites the current entry with s
func (h *History) replace(s graphState) {
	if h.index < 0 {
		h.reset(s)
		return
	}
	h.entries[h.index] = s.clone()
}

func (h *History) undo() (graphState, bool) {
	if !h.CanUndo() {
		return graphState{}, false
	}
	h.index--
	return h.entries[h.index].clone(), true
}

func (h *History) redo() (graphState, bool) {
	if !h.CanRedo() {
		return graphState{}, false
	}
	h.index++
	return h.entries[h.index].clone(), true
}

// CanUndo reports whether there is a step to undo
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether there is a step to redo
func (h *History) CanRedo() bool {
	return h.index >= 0 && h.index < len(h.entries)-1
}

// Len returns the number of stored snapshots
func (h *History) Len() int {
	return len(h.entries)
}
