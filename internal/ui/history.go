package ui

import (
	"log"

	"github.com/pstuifzand/tui-flowchart/internal/history"
)

// History manages input history for search and command inputs
type History struct {
	entries        []string         // All stored history entries
	currentIndex   int              // Current position while navigating (-1 = not navigating)
	maxEntries     int              // Maximum number of entries to keep
	temporaryInput string           // Stores current input before navigating history
	manager        *history.Manager // Manager for persisting history
	filename       string
}

// NewHistory creates a new History with a maximum number of entries
func NewHistory(maxEntries int) *History {
	return &History{
		currentIndex: -1,
		maxEntries:   maxEntries,
	}
}

// NewHistoryWithManager creates a new History and loads from persisted file
func NewHistoryWithManager(maxEntries int, manager *history.Manager, filename string) (*History, error) {
	h := NewHistory(maxEntries)
	h.manager = manager
	h.filename = filename

	entries, err := manager.Load(filename)
	if err != nil {
		return h, err
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h, nil
}

// Add adds an entry to the history and persists it when a manager is set
func (h *History) Add(entry string) {
	h.entries = history.Append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	h.Reset()

	if h.manager != nil && h.filename != "" {
		if err := h.manager.Save(h.filename, h.entries); err != nil {
			log.Printf("Failed to save history %s: %v", h.filename, err)
		}
	}
}

// Previous returns the previous entry in history
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.currentIndex < 0 {
		h.currentIndex = len(h.entries) - 1
	} else if h.currentIndex > 0 {
		h.currentIndex--
	}
	return h.entries[h.currentIndex], true
}

// Next returns the next entry in history. Past the newest entry it returns
// the input saved with SetTemporary.
func (h *History) Next() (string, bool) {
	if h.currentIndex < 0 {
		return "", false
	}

	h.currentIndex++
	if h.currentIndex >= len(h.entries) {
		temp := h.temporaryInput
		h.Reset()
		return temp, true
	}
	return h.entries[h.currentIndex], true
}

// Reset resets the navigation state
func (h *History) Reset() {
	h.currentIndex = -1
	h.temporaryInput = ""
}

// SetTemporary stores the current input before navigating history
func (h *History) SetTemporary(input string) {
	h.temporaryInput = input
}

// Len returns the number of entries in history
func (h *History) Len() int {
	return len(h.entries)
}

// IsNavigating returns true if currently navigating through history
func (h *History) IsNavigating() bool {
	return h.currentIndex >= 0
}
