package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/config"
	"github.com/pstuifzand/tui-flowchart/internal/editor"
)

func TestNodeFrontmatterRoundTrip(t *testing.T) {
	buf := editor.Buffers{
		Text:        "Check stock",
		Description: "Looks at the warehouse\ncounts",
		FillColor:   "#ffffff",
		StrokeColor: "#000000",
		TextColor:   "#333333",
		ImageURL:    "https://example.com/a.png",
	}
	content, err := serializeNode(buf)
	require.NoError(t, err)

	edit, err := deserializeNode(content)
	require.NoError(t, err)
	assert.Equal(t, "Check stock", edit.Text)
	assert.Equal(t, "#ffffff", edit.Fill)
	assert.Equal(t, "#333333", edit.TextColor)
	assert.Equal(t, "Looks at the warehouse\ncounts", edit.Description)
	require.NotNil(t, edit.Image)
	assert.Equal(t, "https://example.com/a.png", *edit.Image)
}

func TestEmbeddedImageIsLeftOut(t *testing.T) {
	content, err := serializeNode(editor.Buffers{Text: "x", ImageURL: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	assert.NotContains(t, string(content), "base64")

	edit, err := deserializeNode(content)
	require.NoError(t, err)
	assert.Nil(t, edit.Image)
}

func TestDeserializeNodeErrors(t *testing.T) {
	for _, content := range []string{
		"just text",
		"+++\ntext = 'a'\n",
		"+++\ntext = \n+++\n",
	} {
		_, err := deserializeNode([]byte(content))
		assert.Error(t, err, content)
	}
}

func TestDeserializeNodeWithoutBody(t *testing.T) {
	edit, err := deserializeNode([]byte("+++\ntext = 'a'\n+++"))
	require.NoError(t, err)
	assert.Equal(t, "a", edit.Text)
	assert.Empty(t, edit.Description)
}

func TestEditTextWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ed.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho changed > \"$1\"\n"), 0o755))

	cfg, err := config.LoadFromFile(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	cfg.Set("editor", script)

	text, changed, err := EditTextInExternalEditor("{}", "tuf-*.json", cfg)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "changed\n", text)

	cfg.Set("editor", "true")
	text, changed, err = EditTextInExternalEditor("{}", "tuf-*.json", cfg)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "{}", text)
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", resolveEditor(nil))

	cfg, err := config.LoadFromFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	cfg.Set("editor", "vim --clean")
	assert.Equal(t, "vim --clean", resolveEditor(cfg))

	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", resolveEditor(nil))
}
