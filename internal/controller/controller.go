// Package controller owns the live engine of one editor and turns engine
// activity into canonical flowchart snapshots.
package controller

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/pstuifzand/tui-flowchart/internal/adapter"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// State is the lifecycle state of a controller
type State int

const (
	Uninitialized State = iota
	Ready
)

// ViewMode says whether the canvas or the code view is shown
type ViewMode int

const (
	ViewVisual ViewMode = iota
	ViewCode
)

// DeleteLabel is the context menu entry removing an element
const DeleteLabel = "删除"

// DefaultJitter is the spread of insertion points around the viewport centre
const DefaultJitter = 40

// Options configures a controller
type Options struct {
	Container     engine.Container
	EngineOptions engine.Options

	// OnChange receives every emitted snapshot
	OnChange func(model.FlowchartData)
	// OnSelect receives the selected node id, or "" when cleared
	OnSelect func(id string)

	Jitter float64
	Rand   func() float64
}

// Tooltip is the hover text of a node, anchored at a screen point
type Tooltip struct {
	Visible bool
	Text    string
	X, Y    float64
}

// Controller mediates between the user, one engine and the host
type Controller struct {
	opts Options

	eng  *engine.Engine
	menu *engine.ContextMenu
	offs []func()

	pending      *model.FlowchartData
	pendingStart bool

	selected string
	mode     ViewMode
	tooltip  Tooltip
	last     model.FlowchartData
	loadErr  error
}

// ErrSelfLoop is returned when a connection is drawn from a node to itself.
// Loaded diagrams may carry such loops; they are only refused interactively.
var ErrSelfLoop = errors.New("cannot connect a node to itself")

// New creates an unmounted controller
func New(opts Options) *Controller {
	if opts.Jitter == 0 {
		opts.Jitter = DefaultJitter
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	return &Controller{opts: opts, last: model.Empty()}
}

// Mount creates the engine. While the container has no size it returns
// engine.ErrContainerNotReady and the start is retried by NotifyResize.
func (c *Controller) Mount() error {
	if c.eng != nil {
		return nil
	}
	eng, err := engine.New(c.opts.Container, c.opts.EngineOptions)
	if err != nil {
		if errors.Is(err, engine.ErrContainerNotReady) {
			c.pendingStart = true
			log.Printf("Container not ready, deferring engine start")
		}
		return err
	}
	c.pendingStart = false
	c.eng = eng
	c.setup()
	log.Printf("Engine started")

	data := model.Empty()
	if c.pending != nil {
		data = *c.pending
		c.pending = nil
	}
	_ = c.load(data)
	return nil
}

func (c *Controller) setup() {
	c.menu = engine.NewContextMenu()
	c.menu.SetNodeMenu([]engine.MenuItem{{Text: DeleteLabel, Callback: func(id string) {
		c.DeleteElement(engine.ElementNode, id)
	}}})
	c.menu.SetEdgeMenu([]engine.MenuItem{{Text: DeleteLabel, Callback: func(id string) {
		c.DeleteElement(engine.ElementEdge, id)
	}}})
	c.eng.Use(c.menu)

	c.eng.SetTheme(theme.EngineTheme())
	c.eng.UpdateEditConfig(engine.EditConfig{
		MultiSelect:       false,
		NodeTextEdit:      false,
		EdgeTextEdit:      true,
		EdgeTextDraggable: true,
	})

	c.offs = append(c.offs,
		c.eng.On(engine.EventHistoryChange, func(engine.Event) { c.onHistoryChange() }),
		c.eng.On(engine.EventNodeClick, func(ev engine.Event) { c.Select(ev.ID) }),
		c.eng.On(engine.EventBlankClick, func(engine.Event) { c.ClearSelection() }),
		c.eng.On(engine.EventNodeDoubleClick, func(ev engine.Event) { c.suppressTextEdit(ev.ID) }),
		c.eng.On(engine.EventNodeMouseEnter, c.showTooltip),
		c.eng.On(engine.EventNodeMouseLeave, func(engine.Event) { c.tooltip = Tooltip{} }),
		c.eng.On(engine.EventNodeDelete, func(ev engine.Event) { c.forget(ev.ID) }),
	)
}

// NotifyResize tells the controller the container changed size. It starts a
// deferred engine or resizes the running one.
func (c *Controller) NotifyResize() {
	if c.eng == nil {
		if c.pendingStart {
			_ = c.Mount()
		}
		return
	}
	w, h := c.opts.Container.Size()
	c.eng.Resize(w, h)
}

// State returns the lifecycle state
func (c *Controller) State() State {
	if c.eng == nil {
		return Uninitialized
	}
	return Ready
}

// Engine returns the live engine, or nil before Mount succeeds
func (c *Controller) Engine() *engine.Engine {
	return c.eng
}

// ContextMenu returns the context menu extension
func (c *Controller) ContextMenu() *engine.ContextMenu {
	return c.menu
}

// SetData replaces the diagram. Before the engine is ready the data is kept
// and loaded on start. Nil means an empty diagram.
//
// Elements the engine could not create are reported in the returned error.
// The rest of the diagram is loaded. Before the engine is ready SetData returns
// nil and LoadError reports the outcome once Mount has run.
func (c *Controller) SetData(d *model.FlowchartData) error {
	data := model.Empty()
	if d != nil {
		data = d.Clone()
	}
	if c.eng == nil {
		c.pending = &data
		c.loadErr = nil
		return nil
	}
	c.ClearSelection()
	return c.load(data)
}

// LoadError returns the problems of the last load, or nil
func (c *Controller) LoadError() error {
	return c.loadErr
}

func (c *Controller) load(d model.FlowchartData) error {
	err := adapter.Load(c.eng, d)
	if err != nil {
		log.Printf("Data loaded with errors: %v", err)
		err = fmt.Errorf("failed to load every element: %w", err)
	} else {
		log.Printf("Loaded %d nodes and %d connections", len(d.Nodes), len(d.Connections))
	}
	c.loadErr = err
	c.tooltip = Tooltip{}
	c.emit()
	return err
}

// AddNode inserts a node of type t near the centre of the viewport. The new
// node is not selected. It returns "" when the engine is not ready.
func (c *Controller) AddNode(t model.FlowNodeType) string {
	if c.eng == nil {
		return ""
	}
	center := c.eng.ViewportCenter()
	n := model.FlowNode{
		ID:   model.NewID("node"),
		Type: t,
		Text: model.DefaultText(t),
		X:    center.X + (c.opts.Rand()-0.5)*c.opts.Jitter,
		Y:    center.Y + (c.opts.Rand()-0.5)*c.opts.Jitter,
	}
	created, err := adapter.CreateNode(c.eng, n)
	if err != nil {
		log.Printf("Failed to add %s node: %v", t, err)
		return ""
	}
	return created.ID
}

// Connect adds a connection between two nodes
func (c *Controller) Connect(from, to, label string) (string, error) {
	if c.eng == nil {
		return "", engine.ErrContainerNotReady
	}
	if from == to {
		return "", ErrSelfLoop
	}
	ed, err := c.eng.AddEdge(engine.EdgeConfig{
		ID:           model.NewID("edge"),
		Type:         engine.EdgePolyline,
		SourceNodeID: from,
		TargetNodeID: to,
		Text:         label,
	})
	if err != nil {
		return "", fmt.Errorf("failed to connect %s to %s: %w", from, to, err)
	}
	return ed.ID, nil
}

// DeleteSelected removes the selected node with its connections
func (c *Controller) DeleteSelected() {
	if c.eng == nil || c.selected == "" {
		return
	}
	id := c.selected
	c.ClearSelection()
	if err := c.eng.DeleteNode(id); err != nil {
		log.Printf("Failed to delete %s: %v", id, err)
	}
}

// DeleteElement removes the node or the edge with id
func (c *Controller) DeleteElement(kind engine.ElementKind, id string) {
	if c.eng == nil {
		return
	}
	if err := c.eng.DeleteElement(kind, id); err != nil {
		log.Printf("Failed to delete %s: %v", id, err)
	}
}

// Undo reverts the last engine step
func (c *Controller) Undo() bool {
	if c.eng == nil {
		return false
	}
	return c.eng.Undo()
}

// Redo re-applies an undone step
func (c *Controller) Redo() bool {
	if c.eng == nil {
		return false
	}
	return c.eng.Redo()
}

// ZoomIn zooms around the viewport centre
func (c *Controller) ZoomIn() {
	if c.eng != nil {
		c.eng.Zoom(true)
	}
}

// ZoomOut zooms out around the viewport centre
func (c *Controller) ZoomOut() {
	if c.eng != nil {
		c.eng.Zoom(false)
	}
}

// ResetView restores 100% scale and the default origin
func (c *Controller) ResetView() {
	if c.eng == nil {
		return
	}
	c.eng.ResetZoom()
	c.eng.ResetTranslate()
}

// Select makes id the selected node. Unknown ids clear the selection.
func (c *Controller) Select(id string) {
	if c.eng == nil || c.eng.Node(id) == nil {
		c.ClearSelection()
		return
	}
	if c.selected == id {
		return
	}
	c.selected = id
	c.notifySelect()
}

// ClearSelection deselects the selected node
func (c *Controller) ClearSelection() {
	if c.selected == "" {
		return
	}
	c.selected = ""
	c.notifySelect()
}

// Selected returns the selected node id, or ""
func (c *Controller) Selected() string {
	return c.selected
}

func (c *Controller) notifySelect() {
	if c.opts.OnSelect != nil {
		c.opts.OnSelect(c.selected)
	}
}

func (c *Controller) forget(id string) {
	if id == c.selected {
		c.ClearSelection()
	}
	if c.tooltip.Visible && c.eng.Hovered() == "" {
		c.tooltip = Tooltip{}
	}
}

// Mode returns the current view mode
func (c *Controller) Mode() ViewMode {
	return c.mode
}

// SetMode switches between canvas and code view
func (c *Controller) SetMode(m ViewMode) {
	c.mode = m
}

// Tooltip returns the hover tooltip
func (c *Controller) Tooltip() Tooltip {
	return c.tooltip
}

func (c *Controller) showTooltip(ev engine.Event) {
	n := c.eng.Node(ev.ID)
	if n == nil {
		return
	}
	desc := adapter.DecodeProperties(n.Properties).Description
	if desc == "" {
		c.tooltip = Tooltip{}
		return
	}
	c.tooltip = Tooltip{Visible: true, Text: desc, X: ev.Position.X, Y: ev.Position.Y}
}

// suppressTextEdit keeps node labels out of the engine's own editor
func (c *Controller) suppressTextEdit(string) {
	cfg := c.eng.EditConfig()
	restore := cfg.NodeTextEdit
	cfg.NodeTextEdit = false
	c.eng.UpdateEditConfig(cfg)
	cfg.NodeTextEdit = restore
	c.eng.UpdateEditConfig(cfg)
}

func (c *Controller) onHistoryChange() {
	if c.selected != "" && c.eng.Node(c.selected) == nil {
		c.ClearSelection()
	}
	c.emit()
}

// Recompute derives the canonical diagram from the engine
func (c *Controller) Recompute() model.FlowchartData {
	if c.eng == nil {
		if c.pending != nil {
			return c.pending.Clone()
		}
		return model.Empty()
	}
	return adapter.Snapshot(c.eng)
}

// Emit recomputes the diagram and hands it to OnChange
func (c *Controller) Emit() {
	c.emit()
}

func (c *Controller) emit() {
	c.last = c.Recompute()
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.last.Clone())
	}
}

// Snapshot returns the last emitted diagram
func (c *Controller) Snapshot() model.FlowchartData {
	return c.last.Clone()
}

// Dispose destroys the engine and detaches every listener
func (c *Controller) Dispose() {
	if c.eng == nil {
		return
	}
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	c.eng.Destroy()
	c.eng = nil
	c.menu = nil
	c.selected = ""
	c.tooltip = Tooltip{}
	log.Printf("Engine disposed")
}
