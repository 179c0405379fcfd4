package app

import (
	"fmt"

	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/ui"
)

// Diagram units moved by H/J/K/L and cells panned by the arrow keys
const (
	nudgeStep = 40.0
	panCells  = 4
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// PendingKeyBinding represents a pending key (like 'z') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune                // The first key
	Description string              // Description of what the pending key does
	Sequences   map[rune]KeyBinding // Map of second key to keybinding
}

// GetKey returns the prefix key
func (pkb *PendingKeyBinding) GetKey() rune {
	return pkb.Prefix
}

// GetDescription returns the description
func (pkb *PendingKeyBinding) GetDescription() string {
	return pkb.Description
}

// GetSequences returns a map of second key to description for display in help
func (pkb *PendingKeyBinding) GetSequences() map[rune]string {
	result := make(map[rune]string)
	for key, binding := range pkb.Sequences {
		result[key] = binding.Description
	}
	return result
}

func addNodeBinding(key rune, t model.FlowNodeType) KeyBinding {
	return KeyBinding{
		Key:         key,
		Description: fmt.Sprintf("Add %s node", t),
		Handler: func(app *App) {
			app.addNode(t)
		},
	}
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		addNodeBinding('1', model.NodeStart),
		addNodeBinding('2', model.NodeProcess),
		addNodeBinding('3', model.NodeDecision),
		addNodeBinding('4', model.NodeEnd),
		addNodeBinding('5', model.NodeImage),
		{
			Key:         'x',
			Description: "Delete selection",
			Handler: func(app *App) {
				app.deleteSelection()
			},
		},
		{
			Key:         'c',
			Description: "Connect selected node to the next selected node",
			Handler: func(app *App) {
				app.toggleConnect()
			},
		},
		{
			Key:         'u',
			Description: "Undo",
			Handler: func(app *App) {
				if !app.ctrl.Undo() {
					app.SetStatus("Nothing to undo")
				}
			},
		},
		{
			Key:         'e',
			Description: "Edit the focused panel field",
			Handler: func(app *App) {
				app.beginPanelEdit()
			},
		},
		{
			Key:         'E',
			Description: "Edit node in external editor",
			Handler: func(app *App) {
				app.editNodeExternal()
			},
		},
		{
			Key:         ']',
			Description: "Select next node",
			Handler: func(app *App) {
				app.cycleSelection(1)
			},
		},
		{
			Key:         '[',
			Description: "Select previous node",
			Handler: func(app *App) {
				app.cycleSelection(-1)
			},
		},
		{
			Key:         'h',
			Description: "Pan left",
			Handler: func(app *App) {
				app.pan(-panCells, 0)
			},
		},
		{
			Key:         'j',
			Description: "Pan down",
			Handler: func(app *App) {
				app.pan(0, panCells/2)
			},
		},
		{
			Key:         'k',
			Description: "Pan up",
			Handler: func(app *App) {
				app.pan(0, -panCells/2)
			},
		},
		{
			Key:         'l',
			Description: "Pan right",
			Handler: func(app *App) {
				app.pan(panCells, 0)
			},
		},
		{
			Key:         'H',
			Description: "Move node left",
			Handler: func(app *App) {
				app.nudge(-nudgeStep, 0)
			},
		},
		{
			Key:         'J',
			Description: "Move node down",
			Handler: func(app *App) {
				app.nudge(0, nudgeStep)
			},
		},
		{
			Key:         'K',
			Description: "Move node up",
			Handler: func(app *App) {
				app.nudge(0, -nudgeStep)
			},
		},
		{
			Key:         'L',
			Description: "Move node right",
			Handler: func(app *App) {
				app.nudge(nudgeStep, 0)
			},
		},
		{
			Key:         '+',
			Description: "Zoom in",
			Handler: func(app *App) {
				app.ctrl.ZoomIn()
			},
		},
		{
			Key:         '-',
			Description: "Zoom out",
			Handler: func(app *App) {
				app.ctrl.ZoomOut()
			},
		},
		{
			Key:         '0',
			Description: "Reset zoom and pan",
			Handler: func(app *App) {
				app.ctrl.ResetView()
			},
		},
		{
			Key:         'y',
			Description: "Copy diagram JSON to clipboard",
			Handler: func(app *App) {
				app.yank("json")
			},
		},
		{
			Key:         'Y',
			Description: "Copy diagram as Mermaid to clipboard",
			Handler: func(app *App) {
				app.yank("mermaid")
			},
		},
		{
			Key:         '/',
			Description: "Search nodes",
			Handler: func(app *App) {
				app.search.SetDiagram(app.ctrl.Snapshot())
				app.search.Start()
			},
		},
		{
			Key:         'n',
			Description: "Next search match",
			Handler: func(app *App) {
				if app.search.NextMatch() {
					app.selectCurrentMatch()
				}
			},
		},
		{
			Key:         'N',
			Description: "Previous search match",
			Handler: func(app *App) {
				if app.search.PrevMatch() {
					app.selectCurrentMatch()
				}
			},
		},
		{
			Key:         ':',
			Description: "Command mode",
			Handler: func(app *App) {
				app.command.Start()
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
		{
			Key:         'g',
			Description: "Toggle code view",
			Handler: func(app *App) {
				app.openCodeView()
			},
		},
		{
			Key:         'i',
			Description: "Import diagram JSON",
			Handler: func(app *App) {
				app.openImport()
			},
		},
	}
}

// InitializePendingKeybindings sets up pending key bindings (keys that wait for a second key)
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'z',
			Description: "View... (z + key)",
			Sequences: map[rune]KeyBinding{
				'z': {
					Key:         'z',
					Description: "Center on selection",
					Handler: func(app *App) {
						app.centerOnSelection()
					},
				},
				'r': {
					Key:         'r',
					Description: "Reset zoom and pan",
					Handler: func(app *App) {
						app.ctrl.ResetView()
					},
				},
				'i': {
					Key:         'i',
					Description: "Zoom in",
					Handler: func(app *App) {
						app.ctrl.ZoomIn()
					},
				},
				'o': {
					Key:         'o',
					Description: "Zoom out",
					Handler: func(app *App) {
						app.ctrl.ZoomOut()
					},
				},
				'b': {
					Key:         'b',
					Description: "Backups of this file",
					Handler: func(app *App) {
						app.handleBackupsCommand()
					},
				},
				'p': {
					Key:         'p',
					Description: "Toggle property panel",
					Handler: func(app *App) {
						app.showPanel = !app.showPanel
					},
				},
			},
		},
	}
}

// GetKeybindingByKey returns a keybinding for a given key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	// '=' shares the unshifted key with '+'
	if key == '=' {
		return a.GetKeybindingByKey('+')
	}
	return nil
}

// GetPendingKeyBindingByPrefix returns a pending keybinding for a prefix key
func (a *App) GetPendingKeyBindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}

// IsPendingKeyPrefix checks if a key is a pending key prefix
func (a *App) IsPendingKeyPrefix(key rune) bool {
	return a.GetPendingKeyBindingByPrefix(key) != nil
}

// helpEntries lists the bindings shown on the help screen
func (a *App) helpEntries() []ui.KeyBindingInfo {
	entries := make([]ui.KeyBindingInfo, 0, len(a.keybindings)+len(a.pendingKeybindings))
	for i := range a.keybindings {
		entries = append(entries, &a.keybindings[i])
	}
	for i := range a.pendingKeybindings {
		entries = append(entries, &a.pendingKeybindings[i])
	}
	return entries
}
