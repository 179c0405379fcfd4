package engine

import "math"

// dragThreshold is the screen distance a pointer must travel before a press
// becomes a drag
const dragThreshold = 3

type pointerTarget int

const (
	targetBlank pointerTarget = iota
	targetNode
	targetEdge
	targetEdgeText
)

type pointerState struct {
	down     bool
	dragging bool
	target   pointerTarget
	id       string
	start    Point
	last     Point
	origin   Point
}

// HitNode returns the topmost node under a screen point
func (e *Engine) HitNode(p Point) *NodeModel {
	d := e.transform.ToDiagram(p)
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if contains(e.nodes[i], d) {
			return e.nodes[i]
		}
	}
	return nil
}

// HitEdge returns the edge closest to a screen point within tolerance
func (e *Engine) HitEdge(p Point) *EdgeModel {
	d := e.transform.ToDiagram(p)
	tolerance := 6 / e.transform.Scale
	var best *EdgeModel
	bestDist := math.Inf(1)
	for _, ed := range e.edges {
		from, to := e.Node(ed.SourceNodeID), e.Node(ed.TargetNodeID)
		if from == nil || to == nil {
			continue
		}
		var dist float64
		if from == to {
			dist = pathDistance(d, SelfLoopPath(from))
		} else {
			dist = segmentDistance(d, Point{from.X, from.Y}, Point{to.X, to.Y})
		}
		if dist <= tolerance && dist < bestDist {
			best, bestDist = ed, dist
		}
	}
	return best
}

// HitEdgeText returns the edge whose label box contains a screen point
func (e *Engine) HitEdgeText(p Point) *EdgeModel {
	d := e.transform.ToDiagram(p)
	for i := len(e.edges) - 1; i >= 0; i-- {
		ed := e.edges[i]
		if ed.Text == "" {
			continue
		}
		c, ok := e.EdgeTextPosition(ed)
		if !ok {
			continue
		}
		halfW := float64(len([]rune(ed.Text)))*5 + 4
		if math.Abs(d.X-c.X) <= halfW && math.Abs(d.Y-c.Y) <= 10 {
			return ed
		}
	}
	return nil
}

// EdgeTextPosition returns the label centre of an edge in diagram space
func (e *Engine) EdgeTextPosition(ed *EdgeModel) (Point, bool) {
	from, to := e.Node(ed.SourceNodeID), e.Node(ed.TargetNodeID)
	if from == nil || to == nil {
		return Point{}, false
	}
	if from == to {
		path := SelfLoopPath(from)
		return Point{
			X: (path[1].X+path[2].X)/2 + ed.TextOffset.X,
			Y: path[1].Y - loopLabelGap + ed.TextOffset.Y,
		}, true
	}
	return Point{
		X: (from.X+to.X)/2 + ed.TextOffset.X,
		Y: (from.Y+to.Y)/2 + ed.TextOffset.Y,
	}, true
}

// Size of the loop drawn for an edge from a node to itself
const (
	loopReach    = 40
	loopLabelGap = 12
)

// SelfLoopPath returns the corners of the loop an edge from n to itself
// follows in diagram space. It leaves the top edge, runs right past the
// shape and comes back in on the right side.
func SelfLoopPath(n *NodeModel) []Point {
	top := n.Y - n.Height/2
	right := n.X + n.Width/2
	return []Point{
		{X: n.X + n.Width/4, Y: top},
		{X: n.X + n.Width/4, Y: top - loopReach/2},
		{X: right + loopReach, Y: top - loopReach/2},
		{X: right + loopReach, Y: n.Y},
		{X: right, Y: n.Y},
	}
}

func pathDistance(p Point, path []Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		best = math.Min(best, segmentDistance(p, path[i-1], path[i]))
	}
	return best
}

func contains(n *NodeModel, p Point) bool {
	dx := math.Abs(p.X - n.X)
	dy := math.Abs(p.Y - n.Y)
	rx, ry := n.Width/2, n.Height/2
	if rx <= 0 || ry <= 0 {
		return false
	}
	switch n.Type {
	case ShapeEllipse:
		return (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) <= 1
	case ShapeDiamond:
		return dx/rx+dy/ry <= 1
	default:
		return dx <= rx && dy <= ry
	}
}

func segmentDistance(p, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	lengthSq := vx*vx + vy*vy
	if lengthSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*vx + (p.Y-a.Y)*vy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*vx), p.Y-(a.Y+t*vy))
}

// PointerDown starts a press at a screen point
func (e *Engine) PointerDown(p Point) {
	e.pointer = pointerState{down: true, start: p, last: p}
	if ed := e.HitEdgeText(p); ed != nil && e.edit.EdgeTextDraggable {
		e.pointer.target = targetEdgeText
		e.pointer.id = ed.ID
		e.pointer.origin = ed.TextOffset
		return
	}
	if n := e.HitNode(p); n != nil {
		e.pointer.target = targetNode
		e.pointer.id = n.ID
		e.pointer.origin = Point{n.X, n.Y}
		return
	}
	if ed := e.HitEdge(p); ed != nil {
		e.pointer.target = targetEdge
		e.pointer.id = ed.ID
		return
	}
	e.pointer.target = targetBlank
}

// PointerMove moves the pointer. Without a press it acts as hover.
func (e *Engine) PointerMove(p Point) {
	if !e.pointer.down {
		e.Hover(p)
		return
	}
	if !e.pointer.dragging && math.Hypot(p.X-e.pointer.start.X, p.Y-e.pointer.start.Y) < dragThreshold {
		return
	}
	e.pointer.dragging = true
	dx := (p.X - e.pointer.start.X) / e.transform.Scale
	dy := (p.Y - e.pointer.start.Y) / e.transform.Scale
	switch e.pointer.target {
	case targetNode:
		if n := e.Node(e.pointer.id); n != nil {
			n.X = e.pointer.origin.X + dx
			n.Y = e.pointer.origin.Y + dy
		}
	case targetEdgeText:
		if ed := e.Edge(e.pointer.id); ed != nil {
			ed.TextOffset = Point{e.pointer.origin.X + dx, e.pointer.origin.Y + dy}
		}
	case targetBlank:
		e.Translate(p.X-e.pointer.last.X, p.Y-e.pointer.last.Y)
	}
	e.pointer.last = p
}

// PointerUp ends a press. A press that did not move is a click.
func (e *Engine) PointerUp(p Point) {
	ps := e.pointer
	e.pointer = pointerState{}
	if !ps.down {
		return
	}
	if ps.dragging {
		switch ps.target {
		case targetNode:
			if e.Node(ps.id) != nil {
				e.commit()
				e.events.Emit(Event{Name: EventNodeDrop, ID: ps.id, Position: p})
			}
		case targetEdgeText:
			if e.Edge(ps.id) != nil {
				e.commit()
			}
		}
		return
	}
	switch ps.target {
	case targetNode:
		e.events.Emit(Event{Name: EventNodeClick, ID: ps.id, Position: p})
	case targetEdge, targetEdgeText:
		e.events.Emit(Event{Name: EventEdgeClick, ID: ps.id, Position: p})
	default:
		e.events.Emit(Event{Name: EventBlankClick, Position: p})
	}
}

// DoubleClick starts a native label edit when the edit config allows it and
// then notifies listeners, which may still cancel the edit.
func (e *Engine) DoubleClick(p Point) {
	if n := e.HitNode(p); n != nil {
		if e.edit.NodeTextEdit {
			e.beginTextEdit(ElementNode, n.ID)
		}
		e.events.Emit(Event{Name: EventNodeDoubleClick, ID: n.ID, Position: p})
		return
	}
	ed := e.HitEdgeText(p)
	if ed == nil {
		ed = e.HitEdge(p)
	}
	if ed != nil {
		if e.edit.EdgeTextEdit {
			e.beginTextEdit(ElementEdge, ed.ID)
		}
		e.events.Emit(Event{Name: EventEdgeDoubleClick, ID: ed.ID, Position: p})
	}
}

// Hover tracks which node is under the pointer
func (e *Engine) Hover(p Point) {
	id := ""
	if n := e.HitNode(p); n != nil {
		id = n.ID
	}
	if id == e.hovered {
		return
	}
	if e.hovered != "" {
		e.events.Emit(Event{Name: EventNodeMouseLeave, ID: e.hovered, Position: p})
	}
	e.hovered = id
	if id != "" {
		e.events.Emit(Event{Name: EventNodeMouseEnter, ID: id, Position: p})
	}
}

// Hovered returns the node currently under the pointer
func (e *Engine) Hovered() string {
	return e.hovered
}

// ContextMenuAt reports a secondary click at a screen point
func (e *Engine) ContextMenuAt(p Point) {
	if n := e.HitNode(p); n != nil {
		e.events.Emit(Event{Name: EventNodeContextMenu, ID: n.ID, Position: p})
		return
	}
	ed := e.HitEdgeText(p)
	if ed == nil {
		ed = e.HitEdge(p)
	}
	if ed != nil {
		e.events.Emit(Event{Name: EventEdgeContextMenu, ID: ed.ID, Position: p})
		return
	}
	e.events.Emit(Event{Name: EventBlankContextMenu, Position: p})
}

// EditingID returns the element whose label is being edited natively
func (e *Engine) EditingID() string {
	return e.editingID
}

// EditingKind returns whether a node or an edge label is being edited
func (e *Engine) EditingKind() ElementKind {
	return e.editingKind
}

// CommitTextEdit ends the native edit, writing text to the element
func (e *Engine) CommitTextEdit(text string) error {
	kind, id := e.editingKind, e.editingID
	if id == "" {
		return nil
	}
	e.endTextEdit()
	if kind == ElementEdge {
		return e.UpdateEdgeText(id, text)
	}
	return e.UpdateText(id, text)
}

// CancelTextEdit ends the native edit without changes
func (e *Engine) CancelTextEdit() {
	if e.editingID != "" {
		e.endTextEdit()
	}
}

func (e *Engine) beginTextEdit(kind ElementKind, id string) {
	if e.editingID != "" && !e.editing(kind, id) {
		e.endTextEdit()
	}
	e.editingID = id
	e.editingKind = kind
	e.events.Emit(Event{Name: EventTextEditStart, ID: id})
}

func (e *Engine) endTextEdit() {
	id := e.editingID
	e.clearEditing()
	e.events.Emit(Event{Name: EventTextEditEnd, ID: id})
}

func (e *Engine) editing(kind ElementKind, id string) bool {
	return e.editingID != "" && e.editingKind == kind && e.editingID == id
}

func (e *Engine) clearEditing() {
	e.editingID = ""
	e.editingKind = ElementNone
}
