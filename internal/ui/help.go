package ui

import (
	"fmt"
	"slices"
)

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// PendingKeyBindingInfo represents a pending keybinding for display
type PendingKeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
	GetSequences() map[rune]string // Returns map of second key to description
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
	offset      int

	// Replaces the keybinding listing until the screen is closed
	title string
	lines []string
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{
		keybindings: []KeyBindingInfo{},
	}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
	h.offset = 0
	h.title = ""
	h.lines = nil
}

// ShowLines opens the screen on arbitrary lines instead of the keybindings
func (h *HelpScreen) ShowLines(title string, lines []string) {
	h.visible = true
	h.offset = 0
	h.title = title
	h.lines = lines
}

func (h *HelpScreen) content() []string {
	if h.lines != nil {
		return h.lines
	}
	return h.GetKeybindings()
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Scroll moves the visible window by delta lines
func (h *HelpScreen) Scroll(delta int) {
	h.offset = max(0, min(h.offset+delta, len(h.content())-1))
}

func keyLabel(r rune) string {
	if r == ' ' {
		return "Space"
	}
	return string(r)
}

// GetKeybindings returns a formatted list of keybindings
func (h *HelpScreen) GetKeybindings() []string {
	var result []string

	result = append(result, "Keybindings:")
	result = append(result, "")

	for _, kb := range h.keybindings {
		if pkb, ok := kb.(PendingKeyBindingInfo); ok {
			result = append(result, fmt.Sprintf("  %-6s - %s", keyLabel(pkb.GetKey()), pkb.GetDescription()))

			// Map order is random, keep the listing stable
			sequences := pkb.GetSequences()
			keys := make([]rune, 0, len(sequences))
			for k := range sequences {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, seqKey := range keys {
				seq := keyLabel(pkb.GetKey()) + keyLabel(seqKey)
				result = append(result, fmt.Sprintf("    %-4s - %s", seq, sequences[seqKey]))
			}
		} else {
			result = append(result, fmt.Sprintf("  %-6s - %s", keyLabel(kb.GetKey()), kb.GetDescription()))
		}
	}

	result = append(result, "")
	result = append(result, "Special Keys:")
	result = append(result, "  Ctrl+S       - Save")
	result = append(result, "  Ctrl+R       - Redo")
	result = append(result, "  Delete       - Delete selection")
	result = append(result, "  Tab          - Next property field")
	result = append(result, "  Enter        - Edit property field")
	result = append(result, "  Escape       - Cancel edit, connect or menu")
	result = append(result, "  Arrow Keys   - Pan the canvas")
	result = append(result, "")
	result = append(result, "Mouse:")
	result = append(result, "  Click        - Select node or connection")
	result = append(result, "  Drag         - Move node or label, pan on empty canvas")
	result = append(result, "  Double click - Edit connection label")
	result = append(result, "  Right click  - Context menu")
	result = append(result, "  Wheel        - Zoom")
	result = append(result, "")
	result = append(result, "Commands:")
	result = append(result, "  :w [file]            - Save")
	result = append(result, "  :e <file>            - Open another diagram")
	result = append(result, "  :export json|mermaid|png [file]")
	result = append(result, "  :import [file]       - Paste JSON, or lay out a .md/.txt outline")
	result = append(result, "  :attach|image <path> - Add a file to the selected node")
	result = append(result, "  :backups, :diff      - Restore or compare saved versions")

	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.HelpStyle()
	borderStyle := screen.HelpBorderStyle()
	titleStyle := screen.HelpTitleStyle()

	screen.Fill(0, 0, screen.GetWidth(), screen.GetHeight(), contentStyle)

	startY := 2
	startX := 5
	boxWidth := screen.GetWidth() - 10
	height := screen.GetHeight() - 4
	if boxWidth < 4 || height < 5 {
		return
	}

	keybindings := h.content()

	screen.SetCell(startX, startY, '┌', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY, '┐', borderStyle)

	title := " Keybindings (? to close, j/k to scroll) "
	if h.title != "" {
		title = h.title
	}
	screen.SetCell(startX, startY+1, '│', borderStyle)
	screen.DrawStringLimited(startX+2, startY+1, title, boxWidth-4, titleStyle)
	screen.SetCell(startX+boxWidth-1, startY+1, '│', borderStyle)

	screen.SetCell(startX, startY+2, '├', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY+2, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY+2, '┤', borderStyle)

	y := startY + 3
	for _, binding := range keybindings[min(h.offset, len(keybindings)):] {
		if y >= startY+height-1 {
			break
		}
		screen.SetCell(startX, y, '│', borderStyle)
		screen.DrawStringLimited(startX+2, y, binding, boxWidth-4, contentStyle)
		screen.SetCell(startX+boxWidth-1, y, '│', borderStyle)
		y++
	}

	screen.SetCell(startX, y, '└', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, y, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, y, '┘', borderStyle)
}
