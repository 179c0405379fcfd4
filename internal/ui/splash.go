package ui

import (
	"strings"
)

// Version is shown on the welcome screen
const Version = "0.1"

// SplashScreen is the welcome text drawn over an empty canvas
type SplashScreen struct {
	visible bool
}

// NewSplashScreen creates a new SplashScreen
func NewSplashScreen() *SplashScreen {
	return &SplashScreen{
		visible: false,
	}
}

// Show makes the splash screen visible
func (s *SplashScreen) Show() {
	s.visible = true
}

// Hide makes the splash screen invisible
func (s *SplashScreen) Hide() {
	s.visible = false
}

// IsVisible returns whether the splash screen is visible
func (s *SplashScreen) IsVisible() bool {
	return s.visible
}

// GetContent returns the lines to display on the splash screen
func (s *SplashScreen) GetContent() []string {
	return []string{
		"    ~~ TUI Flowchart ~~",
		"",
		"       Version " + Version,
		"",
		"    A terminal flowchart builder",
		"",
		"    Add nodes:",
		"    1 start  2 process  3 decision",
		"    4 end    5 image",
		"",
		"    Commands:",
		"    :w             - Save",
		"    :export png    - Write an image",
		"    :q             - Quit (use :q! to force)",
		"    ?              - Show keybindings",
		"",
		"    Press 1 to place a start node",
	}
}

// Render draws the splash screen centred in r
func (s *SplashScreen) Render(screen *Screen, r Rect) {
	if !s.visible {
		return
	}

	textStyle := screen.HelpTitleStyle().Background(screen.Theme.Colors.Background)
	dimStyle := screen.StatusMessageStyle().Background(screen.Theme.Colors.Background)

	content := s.GetContent()

	// Find the longest line to determine block width
	maxWidth := 0
	for _, line := range content {
		maxWidth = max(maxWidth, StringWidth(line))
	}

	startY := r.Y + max((r.H-len(content))/2, 0)
	startX := r.X + max((r.W-maxWidth)/2, 0)

	for i, line := range content {
		y := startY + i
		if y >= r.Y+r.H {
			break
		}

		style := textStyle
		if strings.HasSuffix(line, ":") || strings.Contains(line, "Press 1") {
			style = dimStyle
		}

		screen.DrawStringLimited(startX, y, line, r.W-(startX-r.X), style)
	}
}
