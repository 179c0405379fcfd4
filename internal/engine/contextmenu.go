package engine

// Extension adds behaviour to an engine
type Extension interface {
	Name() string
	Install(e *Engine)
	Uninstall(e *Engine)
}

// ContextMenuName is the name the context menu extension registers under
const ContextMenuName = "contextMenu"

// MenuItem is one entry of a context menu
type MenuItem struct {
	Text     string
	Callback func(id string)
}

// ElementKind says what a context menu was opened on
type ElementKind int

const (
	ElementNone ElementKind = iota
	ElementNode
	ElementEdge
)

// ContextMenu shows per-kind menus when an element is right-clicked
type ContextMenu struct {
	nodeItems []MenuItem
	edgeItems []MenuItem

	open     bool
	kind     ElementKind
	targetID string
	position Point

	offs []func()
}

// NewContextMenu creates an empty context menu extension
func NewContextMenu() *ContextMenu {
	return &ContextMenu{}
}

func (m *ContextMenu) Name() string { return ContextMenuName }

func (m *ContextMenu) Install(e *Engine) {
	m.offs = append(m.offs,
		e.On(EventNodeContextMenu, func(ev Event) { m.show(ElementNode, ev) }),
		e.On(EventEdgeContextMenu, func(ev Event) { m.show(ElementEdge, ev) }),
		e.On(EventBlankContextMenu, func(Event) { m.Close() }),
		e.On(EventBlankClick, func(Event) { m.Close() }),
		e.On(EventNodeDelete, func(ev Event) { m.closeIfTarget(ElementNode, ev.ID) }),
		e.On(EventEdgeDelete, func(ev Event) { m.closeIfTarget(ElementEdge, ev.ID) }),
	)
}

func (m *ContextMenu) Uninstall(*Engine) {
	for _, off := range m.offs {
		off()
	}
	m.offs = nil
	m.Close()
}

// SetNodeMenu replaces the items shown for nodes
func (m *ContextMenu) SetNodeMenu(items []MenuItem) {
	m.nodeItems = items
}

// SetEdgeMenu replaces the items shown for edges
func (m *ContextMenu) SetEdgeMenu(items []MenuItem) {
	m.edgeItems = items
}

func (m *ContextMenu) show(kind ElementKind, ev Event) {
	m.open = len(m.items(kind)) > 0
	m.kind = kind
	m.targetID = ev.ID
	m.position = ev.Position
}

func (m *ContextMenu) closeIfTarget(kind ElementKind, id string) {
	if m.open && m.kind == kind && m.targetID == id {
		m.Close()
	}
}

func (m *ContextMenu) items(kind ElementKind) []MenuItem {
	switch kind {
	case ElementNode:
		return m.nodeItems
	case ElementEdge:
		return m.edgeItems
	}
	return nil
}

// IsOpen reports whether a menu is showing
func (m *ContextMenu) IsOpen() bool {
	return m.open
}

// Items returns the entries of the open menu
func (m *ContextMenu) Items() []MenuItem {
	if !m.open {
		return nil
	}
	return m.items(m.kind)
}

// Target returns what the open menu was opened on
func (m *ContextMenu) Target() (ElementKind, string, Point) {
	return m.kind, m.targetID, m.position
}

// Select runs the i-th entry of the open menu and closes it
func (m *ContextMenu) Select(i int) bool {
	items := m.Items()
	if i < 0 || i >= len(items) {
		return false
	}
	target := m.targetID
	m.Close()
	if items[i].Callback != nil {
		items[i].Callback(target)
	}
	return true
}

// Close hides the menu
func (m *ContextMenu) Close() {
	m.open = false
	m.kind = ElementNone
	m.targetID = ""
}
