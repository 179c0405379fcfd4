package engine

// Event names emitted by the engine
const (
	EventNodeClick        = "node:click"
	EventNodeDoubleClick  = "node:dbclick"
	EventNodeMouseEnter   = "node:mouseenter"
	EventNodeMouseLeave   = "node:mouseleave"
	EventNodeDrop         = "node:drop"
	EventNodeDelete       = "node:delete"
	EventNodeContextMenu  = "node:contextmenu"
	EventEdgeClick        = "edge:click"
	EventEdgeDoubleClick  = "edge:dbclick"
	EventEdgeDelete       = "edge:delete"
	EventEdgeContextMenu  = "edge:contextmenu"
	EventBlankClick       = "blank:click"
	EventBlankContextMenu = "blank:contextmenu"
	EventHistoryChange    = "history:change"
	EventTextEditStart    = "text:edit-start"
	EventTextEditEnd      = "text:edit-end"
	EventGraphRendered    = "graph:rendered"
	EventTransform        = "graph:transform"
)

// Event is delivered to handlers registered with On
type Event struct {
	Name string
	// ID is the node or edge the event concerns, empty for blank and graph events
	ID string
	// Position is the pointer position in screen space, when there is one
	Position Point
	UndoAble bool
	RedoAble bool
}

// Handler receives engine events
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// EventBus dispatches events synchronously in registration order
type EventBus struct {
	handlers map[string][]subscription
	nextID   int
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]subscription)}
}

// On registers fn for the named event and returns a function that removes it
func (b *EventBus) On(name string, fn Handler) func() {
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, fn: fn})
	return func() { b.off(name, id) }
}

func (b *EventBus) off(name string, id int) {
	subs := b.handlers[name]
	for i, s := range subs {
		if s.id == id {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit calls every handler registered for ev.Name
func (b *EventBus) Emit(ev Event) {
	// handlers may unsubscribe while we iterate
	subs := append([]subscription(nil), b.handlers[ev.Name]...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// Clear removes every handler
func (b *EventBus) Clear() {
	b.handlers = make(map[string][]subscription)
}

// Count returns the number of handlers for name
func (b *EventBus) Count(name string) int {
	return len(b.handlers[name])
}
