package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/history"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/search"
)

// SearchFile is the persisted search history
const SearchFile = "search.toml"

// Search finds nodes of the diagram with the query language of the search
// package and steps through the matches
type Search struct {
	editor          *Editor
	diagram         model.FlowchartData
	matches         []model.FlowNode
	currentMatchIdx int
	active          bool
	parseError      string
	history         *History
}

// NewSearch creates a new Search without history persistence
func NewSearch() *Search {
	return &Search{
		editor:  NewEditor(""),
		diagram: model.Empty(),
		history: NewHistory(50),
	}
}

// NewSearchWithHistory creates a new Search with history persistence
func NewSearchWithHistory(manager *history.Manager) *Search {
	s := NewSearch()
	if h, err := NewHistoryWithManager(50, manager, SearchFile); err == nil {
		// If history loading fails, continue with empty history
		s.history = h
	}
	return s
}

// Start starts search mode with an empty query
func (s *Search) Start() {
	s.active = true
	s.editor = NewEditor("")
	s.editor.Start()
	s.matches = nil
	s.currentMatchIdx = 0
	s.parseError = ""
	s.history.Reset()
}

// Stop leaves search mode, keeping the matches for n and N
func (s *Search) Stop() {
	s.active = false
	s.editor.Stop()
	s.history.Reset()
}

// IsActive returns whether search mode is active
func (s *Search) IsActive() bool {
	return s.active
}

// SetDiagram replaces the searched diagram and reruns the query
func (s *Search) SetDiagram(d model.FlowchartData) {
	s.diagram = d
	if s.GetQuery() != "" {
		s.updateResults()
	}
}

// HandleKey handles key presses during search mode. It returns true when
// Enter confirmed a search with at least one match.
func (s *Search) HandleKey(ev *tcell.EventKey) bool {
	if !s.active {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		s.matches = nil
		s.Stop()
		return false
	case tcell.KeyEnter:
		s.updateResults()
		s.history.Add(s.GetQuery())
		s.Stop()
		return len(s.matches) > 0
	case tcell.KeyUp:
		if !s.history.IsNavigating() {
			s.history.SetTemporary(s.GetQuery())
		}
		if prev, ok := s.history.Previous(); ok {
			s.setQuery(prev)
		}
		return false
	case tcell.KeyDown:
		if next, ok := s.history.Next(); ok {
			s.setQuery(next)
		}
		return false
	}

	before := s.GetQuery()
	s.editor.HandleKey(ev)
	if s.GetQuery() != before {
		// Incremental search
		s.updateResults()
	}
	return false
}

func (s *Search) setQuery(q string) {
	s.editor.SetText(q)
	s.updateResults()
}

func (s *Search) updateResults() {
	s.matches = nil
	s.currentMatchIdx = 0
	s.parseError = ""

	if s.GetQuery() == "" {
		return
	}
	matches, err := search.FindNodes(s.diagram, s.GetQuery())
	if err != nil {
		s.parseError = err.Error()
		return
	}
	s.matches = matches
}

// GetQuery returns the current search query
func (s *Search) GetQuery() string {
	return s.editor.GetText()
}

// NextMatch moves to the next search match
func (s *Search) NextMatch() bool {
	if len(s.matches) == 0 {
		return false
	}
	s.currentMatchIdx = (s.currentMatchIdx + 1) % len(s.matches)
	return true
}

// PrevMatch moves to the previous search match
func (s *Search) PrevMatch() bool {
	if len(s.matches) == 0 {
		return false
	}
	s.currentMatchIdx = (s.currentMatchIdx + len(s.matches) - 1) % len(s.matches)
	return true
}

// GetCurrentMatch returns the node of the current match
func (s *Search) GetCurrentMatch() (model.FlowNode, bool) {
	if len(s.matches) == 0 {
		return model.FlowNode{}, false
	}
	return s.matches[s.currentMatchIdx], true
}

// GetMatchCount returns the number of matches
func (s *Search) GetMatchCount() int {
	return len(s.matches)
}

// GetCurrentMatchNumber returns the current match number (1-based) or 0 if no matches
func (s *Search) GetCurrentMatchNumber() int {
	if len(s.matches) == 0 {
		return 0
	}
	return s.currentMatchIdx + 1
}

// GetParseError returns the last parse error, if any
func (s *Search) GetParseError() string {
	return s.parseError
}

// Render renders the search bar on row y
func (s *Search) Render(screen *Screen, y int) {
	width := screen.GetWidth()
	label := "Search: "
	screen.Fill(0, y, width, 1, screen.CommandTextStyle())
	x := screen.DrawString(0, y, label, screen.CommandPromptStyle())

	var resultText string
	switch {
	case s.parseError != "":
		resultText = " (error: " + s.parseError + ")"
	case s.GetQuery() == "":
		resultText = ""
	case len(s.matches) == 0:
		resultText = " (no matches)"
	default:
		resultText = fmt.Sprintf(" (%d of %d matches)", s.GetCurrentMatchNumber(), s.GetMatchCount())
	}
	// Truncate error message if it's too long
	if StringWidth(resultText) > width/2 {
		resultText = " (error: syntax)"
	}

	s.editor.Render(screen, x, y, width-x-StringWidth(resultText), screen.CommandTextStyle())
	screen.DrawString(width-StringWidth(resultText), y, resultText, screen.StatusMessageStyle())
}
