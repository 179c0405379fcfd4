package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runes(s string) []*tcell.EventKey {
	var evs []*tcell.EventKey
	for _, r := range s {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

func TestEditorTypingCJK(t *testing.T) {
	e := NewEditor("开始")
	e.Start()
	for _, ev := range runes("流程") {
		assert.True(t, e.HandleKey(ev))
	}
	assert.Equal(t, "开始流程", e.GetText())

	e.HandleKey(key(tcell.KeyBackspace2))
	e.HandleKey(key(tcell.KeyLeft))
	e.HandleKey(key(tcell.KeyDelete))
	assert.Equal(t, "开始", e.GetText())
	assert.Equal(t, 2, e.GetCursorPos())
}

func TestEditorEndsOnEnterAndEscape(t *testing.T) {
	e := NewEditor("x")
	e.Start()
	assert.False(t, e.HandleKey(key(tcell.KeyEnter)))
	assert.False(t, e.HandleKey(key(tcell.KeyEscape)))
}

func TestEditorCancelRestores(t *testing.T) {
	e := NewEditor("yes")
	e.Start()
	e.HandleKey(key(tcell.KeyCtrlU))
	assert.Equal(t, "", e.GetText())
	assert.Equal(t, "yes", e.Cancel())
	assert.Equal(t, "yes", e.GetText())
	assert.False(t, e.IsActive())
}

func TestEditorDeleteWord(t *testing.T) {
	e := NewEditor("export mermaid  ")
	e.Start()
	e.HandleKey(key(tcell.KeyCtrlW))
	assert.Equal(t, "export ", e.GetText())
	e.HandleKey(key(tcell.KeyHome))
	e.Insert(":")
	assert.Equal(t, ":export ", e.GetText())
}
