package ui

import (
	"strings"
	"testing"
)

func TestSplashScreenVisibility(t *testing.T) {
	splash := NewSplashScreen()

	// Initially should be hidden
	if splash.IsVisible() {
		t.Error("Splash screen should be hidden initially")
	}

	// Show it
	splash.Show()
	if !splash.IsVisible() {
		t.Error("Splash screen should be visible after Show()")
	}

	// Hide it
	splash.Hide()
	if splash.IsVisible() {
		t.Error("Splash screen should be hidden after Hide()")
	}
}

func TestSplashScreenContent(t *testing.T) {
	splash := NewSplashScreen()
	content := strings.Join(splash.GetContent(), "\n")

	requiredStrings := []string{"TUI Flowchart", "Version " + Version, ":w", ":q", "?"}
	for _, required := range requiredStrings {
		if !strings.Contains(content, required) {
			t.Errorf("Splash screen content should contain '%s'", required)
		}
	}
}

func TestSplashScreenRendersInsideRect(t *testing.T) {
	screen, sim := newSimScreen(t, 80, 30)
	splash := NewSplashScreen()
	splash.Show()
	splash.Render(screen, Rect{W: 46, H: 29})
	screen.Show()

	// Nothing is drawn right of the canvas area
	for y := 0; y < 30; y++ {
		for x := 46; x < 80; x++ {
			if r := cellAt(sim, x, y); r != ' ' {
				t.Fatalf("unexpected %q at %d,%d", r, x, y)
			}
		}
	}
}
