// Package ui contains terminal UI components
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a new Screen instance with the given theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom initialises an existing tcell screen, e.g. a simulation screen
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Suspend releases terminal control temporarily
func (s *Screen) Suspend() error {
	return s.tcellScreen.Suspend()
}

// Resume restores terminal control after suspension
func (s *Screen) Resume() error {
	return s.tcellScreen.Resume()
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// Fill paints the given rectangle with spaces in style
func (s *Screen) Fill(x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetCell(col, row, ' ', style)
		}
	}
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position and returns the number of
// columns used. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := x
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(col, y, r, style)
		col += w
	}
	return col - x
}

// DrawStringLimited draws a string, truncating it if it exceeds maxWidth
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// DrawBox draws a single line border
func (s *Screen) DrawBox(x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	for i := 1; i < w-1; i++ {
		s.SetCell(x+i, y, '─', style)
		s.SetCell(x+i, y+h-1, '─', style)
	}
	for j := 1; j < h-1; j++ {
		s.SetCell(x, y+j, '│', style)
		s.SetCell(x+w-1, y+j, '│', style)
	}
	s.SetCell(x, y, '┌', style)
	s.SetCell(x+w-1, y, '┐', style)
	s.SetCell(x, y+h-1, '└', style)
	s.SetCell(x+w-1, y+h-1, '┘', style)
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize event
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.width, s.height = s.tcellScreen.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse(tcell.MouseMotionEvents)
}

// Theme-aware style methods

// CanvasStyle returns the base canvas style
func (s *Screen) CanvasStyle() tcell.Style {
	return tcell.StyleDefault.Background(s.Theme.Colors.Background)
}

// GridStyle returns the style of the canvas dot grid
func (s *Screen) GridStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Grid, s.Theme.Colors.Background)
}

// EdgeStyle returns the style of connection lines
func (s *Screen) EdgeStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Edge, s.Theme.Colors.Background)
}

// EdgeLabelStyle returns the style of connection labels
func (s *Screen) EdgeLabelStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.EdgeLabel, s.Theme.Colors.Background)
}

// SelectionStyle returns the border style of the selected node
func (s *Screen) SelectionStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Selection, s.Theme.Colors.Background).Bold(true)
}

// ConnectPreviewStyle returns the style used while picking a connection target
func (s *Screen) ConnectPreviewStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.ConnectPreview, s.Theme.Colors.Background).Bold(true)
}

// PanelStyle returns the side panel background style
func (s *Screen) PanelStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelValue, s.Theme.Colors.Background)
}

// PanelBorderStyle returns the style for panel borders
func (s *Screen) PanelBorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelBorder, s.Theme.Colors.Background)
}

// PanelTitleStyle returns the style for panel titles
func (s *Screen) PanelTitleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelTitle, s.Theme.Colors.Background).Bold(true)
}

// PanelLabelStyle returns the style for field labels
func (s *Screen) PanelLabelStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelLabel, s.Theme.Colors.Background)
}

// PanelActiveStyle returns the style for the focused field
func (s *Screen) PanelActiveStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelActive, s.Theme.Colors.Background).Bold(true)
}

// PanelErrorStyle returns the style for inline errors
func (s *Screen) PanelErrorStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.PanelError, s.Theme.Colors.Background)
}

// TooltipStyle returns the style of the hover tooltip
func (s *Screen) TooltipStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.TooltipText, s.Theme.Colors.TooltipBg)
}

// MenuStyle returns the style of context menu entries
func (s *Screen) MenuStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.MenuText, s.Theme.Colors.MenuBg)
}

// MenuSelectedStyle returns the style of the highlighted menu entry
func (s *Screen) MenuSelectedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.MenuBg, s.Theme.Colors.MenuSelected).Bold(true)
}

// CommandPromptStyle returns the style for command prompt
func (s *Screen) CommandPromptStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.CommandPrompt, s.Theme.Colors.Background)
}

// CommandTextStyle returns the style for command text
func (s *Screen) CommandTextStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.CommandText, s.Theme.Colors.Background)
}

// CursorStyle returns the style of a text cursor
func (s *Screen) CursorStyle() tcell.Style {
	return s.CommandTextStyle().Reverse(true)
}

// HelpStyle returns the style for help background
func (s *Screen) HelpStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpContent, s.Theme.Colors.HelpBackground)
}

// HelpBorderStyle returns the style for help borders
func (s *Screen) HelpBorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpBorder, s.Theme.Colors.HelpBackground)
}

// HelpTitleStyle returns the style for help title
func (s *Screen) HelpTitleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpTitle, s.Theme.Colors.HelpBackground).Bold(true)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Background, s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMessage, s.Theme.Colors.Background)
}

// StatusModifiedStyle returns the style for modified indicator and errors
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusModified, s.Theme.Colors.Background)
}
