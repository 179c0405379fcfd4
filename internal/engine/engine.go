package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrContainerNotReady = errors.New("container has no layout size yet")
	ErrDestroyed         = errors.New("engine destroyed")
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnknownEdge       = errors.New("unknown edge")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrUnknownShape      = errors.New("unknown shape kind")
	ErrUnknownKind       = errors.New("unknown element kind")
)

// RenderError lists the elements Render could not create
type RenderError struct {
	Skipped []string
}

func (e *RenderError) Error() string {
	return "render skipped elements: " + strings.Join(e.Skipped, "; ")
}

// Container is the surface the engine draws into. Size is in screen units.
type Container interface {
	Size() (width, height int)
}

// Theme holds the default styles applied to shapes without an override
type Theme struct {
	Shapes     map[ShapeKind]Style
	TextColor  string
	EdgeStroke string
}

// EditConfig controls which interactions the engine performs natively
type EditConfig struct {
	MultiSelect       bool
	NodeTextEdit      bool
	EdgeTextEdit      bool
	EdgeTextDraggable bool
}

// Options configures a new engine
type Options struct {
	HistoryLimit int
	ZoomStep     float64
}

// Engine is a live diagram. It is not safe for concurrent use; all calls are
// expected to come from one event loop.
type Engine struct {
	container Container
	width     int
	height    int
	opts      Options
	theme     Theme
	edit      EditConfig

	nodes []*NodeModel
	edges []*EdgeModel

	history    *History
	events     *EventBus
	transform  Transform
	extensions map[string]Extension

	pointer     pointerState
	hovered     string
	editingID   string
	editingKind ElementKind

	amending  bool
	destroyed bool
	seq       int
}

// New creates an engine drawing into c. It fails with ErrContainerNotReady
// while the container has no size.
func New(c Container, opts Options) (*Engine, error) {
	if c == nil {
		return nil, ErrContainerNotReady
	}
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrContainerNotReady
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = 0.1
	}
	e := &Engine{
		container:  c,
		width:      w,
		height:     h,
		opts:       opts,
		theme:      Theme{Shapes: map[ShapeKind]Style{}},
		edit:       EditConfig{NodeTextEdit: true, EdgeTextEdit: true},
		history:    NewHistory(opts.HistoryLimit),
		events:     NewEventBus(),
		transform:  DefaultTransform(),
		extensions: make(map[string]Extension),
	}
	e.history.reset(e.state())
	return e, nil
}

// Destroy detaches every listener and extension and releases the container
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	for _, ext := range e.extensions {
		ext.Uninstall(e)
	}
	e.extensions = map[string]Extension{}
	e.events.Clear()
	e.container = nil
	e.nodes = nil
	e.edges = nil
	e.destroyed = true
}

// Destroyed reports whether Destroy was called
func (e *Engine) Destroyed() bool {
	return e.destroyed
}

// On registers a handler for the named event
func (e *Engine) On(name string, fn Handler) func() {
	return e.events.On(name, fn)
}

// Use installs an extension
func (e *Engine) Use(ext Extension) {
	if old, ok := e.extensions[ext.Name()]; ok {
		old.Uninstall(e)
	}
	e.extensions[ext.Name()] = ext
	ext.Install(e)
}

// Extension returns an installed extension by name
func (e *Engine) Extension(name string) Extension {
	return e.extensions[name]
}

// SetTheme replaces the default shape styles
func (e *Engine) SetTheme(t Theme) {
	shapes := make(map[ShapeKind]Style, len(t.Shapes))
	for k, v := range t.Shapes {
		shapes[k] = v
	}
	t.Shapes = shapes
	e.theme = t
}

// Theme returns the current theme
func (e *Engine) Theme() Theme {
	return e.theme
}

// UpdateEditConfig replaces the edit configuration. Turning node text
// editing off ends an active native edit of a node label.
func (e *Engine) UpdateEditConfig(cfg EditConfig) {
	e.edit = cfg
	if e.editingID != "" && !cfg.NodeTextEdit && e.editingKind == ElementNode {
		e.endTextEdit()
	}
	if e.editingID != "" && !cfg.EdgeTextEdit && e.editingKind == ElementEdge {
		e.endTextEdit()
	}
}

// EditConfig returns the current edit configuration
func (e *Engine) EditConfig() EditConfig {
	return e.edit
}

// Size returns the container size the engine last saw
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// Resize updates the viewport size. Calling it repeatedly is harmless.
func (e *Engine) Resize(w, h int) {
	if w > 0 {
		e.width = w
	}
	if h > 0 {
		e.height = h
	}
}

// Render replaces the whole graph and resets history to it.
// Node creation applies the shape theme only; Properties are stored but never
// read for styling, so callers wanting per-node colours must write them with
// SetNodeStyle afterwards.
func (e *Engine) Render(g GraphData) error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.nodes = nil
	e.edges = nil
	e.editingID = ""
	e.editingKind = ElementNone
	e.hovered = ""
	e.pointer = pointerState{}

	var skipped []string
	for _, cfg := range g.Nodes {
		if _, err := e.insertNode(cfg); err != nil {
			skipped = append(skipped, fmt.Sprintf("node %q: %v", cfg.ID, err))
		}
	}
	for _, cfg := range g.Edges {
		if _, err := e.insertEdge(cfg); err != nil {
			skipped = append(skipped, fmt.Sprintf("edge %q: %v", cfg.ID, err))
		}
	}
	e.history.reset(e.state())
	e.events.Emit(Event{Name: EventGraphRendered})
	if len(skipped) > 0 {
		return &RenderError{Skipped: skipped}
	}
	return nil
}

// GraphData returns a copy of the current graph
func (e *Engine) GraphData() GraphData {
	g := GraphData{
		Nodes: make([]NodeConfig, 0, len(e.nodes)),
		Edges: make([]EdgeConfig, 0, len(e.edges)),
	}
	for _, n := range e.nodes {
		g.Nodes = append(g.Nodes, n.config())
	}
	for _, ed := range e.edges {
		g.Edges = append(g.Edges, ed.config())
	}
	return g
}

// Node returns the live node with id, or nil
func (e *Engine) Node(id string) *NodeModel {
	for _, n := range e.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Edge returns the live edge with id, or nil
func (e *Engine) Edge(id string) *EdgeModel {
	for _, ed := range e.edges {
		if ed.ID == id {
			return ed
		}
	}
	return nil
}

// Nodes returns the live nodes in paint order
func (e *Engine) Nodes() []*NodeModel {
	return slices.Clone(e.nodes)
}

// Edges returns the live edges in paint order
func (e *Engine) Edges() []*EdgeModel {
	return slices.Clone(e.edges)
}

// EffectiveStyle returns the node's override merged over the theme
func (e *Engine) EffectiveStyle(n *NodeModel) Style {
	s := e.theme.Shapes[n.Type]
	if n.Style.Fill != "" {
		s.Fill = n.Style.Fill
	}
	if n.Style.Stroke != "" {
		s.Stroke = n.Style.Stroke
	}
	return s
}

// EffectiveTextColor returns the node's text colour or the theme default
func (e *Engine) EffectiveTextColor(n *NodeModel) string {
	if n.TextColor != "" {
		return n.TextColor
	}
	return e.theme.TextColor
}

// AddNode creates a node. An empty ID is generated.
func (e *Engine) AddNode(cfg NodeConfig) (*NodeModel, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	n, err := e.insertNode(cfg)
	if err != nil {
		return nil, err
	}
	e.commit()
	return n, nil
}

// AddEdge creates an edge between two existing nodes
func (e *Engine) AddEdge(cfg EdgeConfig) (*EdgeModel, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	ed, err := e.insertEdge(cfg)
	if err != nil {
		return nil, err
	}
	e.commit()
	return ed, nil
}

// DeleteNode removes a node and every edge touching it as one step
func (e *Engine) DeleteNode(id string) error {
	idx := slices.IndexFunc(e.nodes, func(n *NodeModel) bool { return n.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	var removed []string
	e.edges = slices.DeleteFunc(e.edges, func(ed *EdgeModel) bool {
		if ed.SourceNodeID == id || ed.TargetNodeID == id {
			removed = append(removed, ed.ID)
			return true
		}
		return false
	})
	e.nodes = slices.Delete(e.nodes, idx, idx+1)
	if e.editing(ElementNode, id) || (e.editingKind == ElementEdge && slices.Contains(removed, e.editingID)) {
		e.clearEditing()
	}
	if e.hovered == id {
		e.hovered = ""
	}
	e.commit()
	for _, edgeID := range removed {
		e.events.Emit(Event{Name: EventEdgeDelete, ID: edgeID})
	}
	e.events.Emit(Event{Name: EventNodeDelete, ID: id})
	return nil
}

// DeleteEdge removes an edge
func (e *Engine) DeleteEdge(id string) error {
	idx := slices.IndexFunc(e.edges, func(ed *EdgeModel) bool { return ed.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEdge, id)
	}
	e.edges = slices.Delete(e.edges, idx, idx+1)
	if e.editing(ElementEdge, id) {
		e.clearEditing()
	}
	e.commit()
	e.events.Emit(Event{Name: EventEdgeDelete, ID: id})
	return nil
}

// DeleteElement removes the node or the edge with id. Nodes and edges have
// separate id spaces, so the kind picks which one.
func (e *Engine) DeleteElement(kind ElementKind, id string) error {
	switch kind {
	case ElementNode:
		return e.DeleteNode(id)
	case ElementEdge:
		return e.DeleteEdge(id)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, id)
}

// MoveNode places a node centre at (x, y) in diagram space
func (e *Engine) MoveNode(id string, x, y float64) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.X, n.Y = x, y
	e.commit()
	return nil
}

// ResizeNode changes the rendered size of a node
func (e *Engine) ResizeNode(id string, w, h float64) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if w > 0 {
		n.Width = w
	}
	if h > 0 {
		n.Height = h
	}
	e.commit()
	return nil
}

// UpdateText sets the label of a node
func (e *Engine) UpdateText(id, text string) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Text = text
	e.commit()
	return nil
}

// UpdateEdgeText sets the label of an edge
func (e *Engine) UpdateEdgeText(id, text string) error {
	ed := e.Edge(id)
	if ed == nil {
		return fmt.Errorf("%w: %s", ErrUnknownEdge, id)
	}
	ed.Text = text
	e.commit()
	return nil
}

// SetProperties merges props into the node's property bag
func (e *Engine) SetProperties(id string, props map[string]any) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	for k, v := range CloneProperties(props) {
		n.Properties[k] = v
	}
	e.commit()
	return nil
}

// DeleteProperty removes a key from the node's property bag
func (e *Engine) DeleteProperty(id, key string) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	delete(n.Properties, key)
	e.commit()
	return nil
}

// SetNodeStyle writes the per-instance shape style. Empty fields clear the override.
func (e *Engine) SetNodeStyle(id string, s Style) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Style = s
	e.commit()
	return nil
}

// SetTextStyle writes the rendered label colour of a node
func (e *Engine) SetTextStyle(id, color string) error {
	n := e.Node(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.TextColor = color
	e.commit()
	return nil
}

// MoveEdgeText sets the label offset of an edge relative to its midpoint
func (e *Engine) MoveEdgeText(id string, offset Point) error {
	ed := e.Edge(id)
	if ed == nil {
		return fmt.Errorf("%w: %s", ErrUnknownEdge, id)
	}
	ed.TextOffset = offset
	e.commit()
	return nil
}

// Amend runs fn without recording a history step. The current history entry
// is replaced by the graph fn leaves behind.
func (e *Engine) Amend(fn func()) {
	e.amending = true
	defer func() {
		e.amending = false
		e.history.replace(e.state())
	}()
	fn()
}

// Undo restores the previous snapshot
func (e *Engine) Undo() bool {
	s, ok := e.history.undo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

// Redo re-applies the next snapshot
func (e *Engine) Redo() bool {
	s, ok := e.history.redo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

// History returns the snapshot history
func (e *Engine) History() *History {
	return e.history
}

func (e *Engine) restore(s graphState) {
	e.nodes = s.nodes
	e.edges = s.edges
	switch {
	case e.editingKind == ElementNode && e.Node(e.editingID) == nil,
		e.editingKind == ElementEdge && e.Edge(e.editingID) == nil:
		e.clearEditing()
	}
	if e.hovered != "" && e.Node(e.hovered) == nil {
		e.hovered = ""
	}
	e.emitHistory()
}

func (e *Engine) commit() {
	if e.amending {
		return
	}
	e.history.push(e.state())
	e.emitHistory()
}

func (e *Engine) emitHistory() {
	e.events.Emit(Event{
		Name:     EventHistoryChange,
		UndoAble: e.history.CanUndo(),
		RedoAble: e.history.CanRedo(),
	})
}

func (e *Engine) state() graphState {
	return graphState{nodes: e.nodes, edges: e.edges}.clone()
}

func (e *Engine) insertNode(cfg NodeConfig) (*NodeModel, error) {
	if cfg.Type == "" {
		cfg.Type = ShapeRect
	}
	if !validShape(cfg.Type) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, cfg.Type)
	}
	if cfg.ID == "" {
		cfg.ID = e.generateID("node")
	}
	if e.Node(cfg.ID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, cfg.ID)
	}
	w, h := defaultSize(cfg.Type)
	if cfg.Width > 0 {
		w = cfg.Width
	}
	if cfg.Height > 0 {
		h = cfg.Height
	}
	n := &NodeModel{
		ID:         cfg.ID,
		Type:       cfg.Type,
		X:          cfg.X,
		Y:          cfg.Y,
		Width:      w,
		Height:     h,
		Text:       cfg.Text,
		Properties: CloneProperties(cfg.Properties),
	}
	e.nodes = append(e.nodes, n)
	return n, nil
}

func (e *Engine) insertEdge(cfg EdgeConfig) (*EdgeModel, error) {
	if e.Node(cfg.SourceNodeID) == nil {
		return nil, fmt.Errorf("%w: source %s", ErrUnknownNode, cfg.SourceNodeID)
	}
	if e.Node(cfg.TargetNodeID) == nil {
		return nil, fmt.Errorf("%w: target %s", ErrUnknownNode, cfg.TargetNodeID)
	}
	if cfg.ID == "" {
		cfg.ID = e.generateID("edge")
	}
	if e.Edge(cfg.ID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, cfg.ID)
	}
	if cfg.Type == "" {
		cfg.Type = EdgePolyline
	}
	ed := &EdgeModel{
		ID:           cfg.ID,
		Type:         cfg.Type,
		SourceNodeID: cfg.SourceNodeID,
		TargetNodeID: cfg.TargetNodeID,
		Text:         cfg.Text,
	}
	e.edges = append(e.edges, ed)
	return ed, nil
}

func (e *Engine) generateID(prefix string) string {
	for {
		e.seq++
		id := fmt.Sprintf("%s_%d", prefix, e.seq)
		if e.Node(id) == nil && e.Edge(id) == nil {
			return id
		}
	}
}
