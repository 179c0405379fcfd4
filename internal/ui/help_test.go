package ui

import (
	"slices"
	"testing"
)

type testBinding struct {
	key  rune
	desc string
}

func (b testBinding) GetKey() rune           { return b.key }
func (b testBinding) GetDescription() string { return b.desc }

type testPending struct {
	testBinding
	seqs map[rune]string
}

func (p testPending) GetSequences() map[rune]string { return p.seqs }

func TestHelpListsSequencesInOrder(t *testing.T) {
	h := NewHelpScreen()
	h.SetKeybindings([]KeyBindingInfo{
		testBinding{'x', "Delete selection"},
		testPending{testBinding{'g', "Go to"}, map[rune]string{'i': "Import", 'c': "Code view"}},
		testBinding{' ', "Toggle panel"},
	})

	lines := h.GetKeybindings()
	for _, want := range []string{"  x      - Delete selection", "  Space  - Toggle panel"} {
		if !slices.Contains(lines, want) {
			t.Errorf("Missing line %q in %v", want, lines)
		}
	}

	gc := slices.Index(lines, "    gc   - Code view")
	gi := slices.Index(lines, "    gi   - Import")
	if gc <= 0 || gi <= gc {
		t.Errorf("Sequences should be sorted by key: %v", lines)
	}
}

func TestHelpToggleAndRender(t *testing.T) {
	screen, sim := newSimScreen(t, 60, 20)
	h := NewHelpScreen()
	h.Render(screen)
	if cellAt(sim, 5, 2) == '┌' {
		t.Errorf("Hidden help should not draw")
	}

	h.Toggle()
	if !h.IsVisible() {
		t.Fatalf("Toggle should show the help")
	}
	h.Render(screen)
	if r := cellAt(sim, 5, 2); r != '┌' {
		t.Errorf("Expected border at (5,2), got %q", r)
	}
	if r := cellAt(sim, 7, 5); r != 'K' {
		t.Errorf("Expected 'K' at (7,5), got %q", r)
	}

	// Scrolling is clamped to the content
	h.Scroll(100)
	h.Scroll(-1000)
	h.Render(screen)
	if r := cellAt(sim, 7, 5); r != 'K' {
		t.Errorf("Expected 'K' at (7,5) after scrolling back, got %q", r)
	}
}
