package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func typeArea(ta *TextArea, s string) {
	for _, ev := range runes(s) {
		ta.HandleKey(ev)
	}
}

func TestTextAreaEnterKeepsIndent(t *testing.T) {
	ta := NewTextArea("{\n  \"nodes\": [")
	ta.Start()
	ta.SetCursor(1, 100)
	ta.HandleKey(key(tcell.KeyEnter))
	typeArea(ta, "x")

	assert.Equal(t, "{\n  \"nodes\": [\n  x", ta.GetText())
	row, col := ta.Cursor()
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, col)
}

func TestTextAreaBackspaceJoinsLines(t *testing.T) {
	ta := NewTextArea("ab\ncd")
	ta.Start()
	ta.SetCursor(1, 0)
	ta.HandleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "abcd", ta.GetText())
	row, col := ta.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)

	ta.SetCursor(0, 4)
	ta.HandleKey(key(tcell.KeyDelete))
	assert.Equal(t, "abcd", ta.GetText())
}

func TestTextAreaUndoRedo(t *testing.T) {
	ta := NewTextArea("")
	ta.Start()
	typeArea(ta, "ab")
	ta.HandleKey(key(tcell.KeyCtrlZ))
	assert.Equal(t, "a", ta.GetText())
	ta.HandleKey(key(tcell.KeyCtrlZ))
	assert.Equal(t, "", ta.GetText())
	ta.HandleKey(key(tcell.KeyCtrlY))
	assert.Equal(t, "a", ta.GetText())

	ta.SetText("fresh")
	ta.HandleKey(key(tcell.KeyCtrlZ))
	assert.Equal(t, "fresh", ta.GetText())
}

func TestTextAreaUnicode(t *testing.T) {
	ta := NewTextArea("开始")
	ta.Start()
	ta.SetCursor(0, 1)
	typeArea(ta, "了")
	assert.Equal(t, "开了始", ta.GetText())
}

func TestTextAreaLeavingKeys(t *testing.T) {
	ta := NewTextArea("x")
	ta.Start()
	assert.False(t, ta.HandleKey(key(tcell.KeyEscape)))
	assert.False(t, ta.HandleKey(key(tcell.KeyCtrlS)))
	assert.True(t, ta.HandleKey(key(tcell.KeyLeft)))
}

func TestTextAreaPasteIsOneStep(t *testing.T) {
	ta := NewTextArea("")
	ta.Start()
	ta.Paste("a\r\nb")
	assert.Equal(t, "a\nb", ta.GetText())
	ta.HandleKey(key(tcell.KeyCtrlZ))
	assert.Equal(t, "", ta.GetText())
}

func TestTextAreaRender(t *testing.T) {
	screen, sim := newSimScreen(t, 20, 5)
	ta := NewTextArea("a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk")
	ta.Start()
	ta.SetCursor(10, 0)
	ta.Render(screen, Rect{W: 20, H: 5}, 0)
	screen.Show()

	// Scrolled so line 11 is the last visible row
	assert.Equal(t, 'k', cellAt(sim, 3, 4))
	assert.Equal(t, '1', cellAt(sim, 0, 4))
	assert.Equal(t, 'g', cellAt(sim, 3, 0))
}
