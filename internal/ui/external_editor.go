package ui

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/tui-flowchart/internal/config"
	"github.com/pstuifzand/tui-flowchart/internal/editor"
)

// NodeEditData is the TOML frontmatter of a node opened in an external
// editor. The description is the body below it. Image is left out for
// embedded images and is only written back when present.
type NodeEditData struct {
	Text      string  `toml:"text"`
	Fill      string  `toml:"fill"`
	Stroke    string  `toml:"stroke"`
	TextColor string  `toml:"text_color"`
	Image     *string `toml:"image,omitempty"`
}

// NodeEdit is the result of editing a node externally
type NodeEdit struct {
	NodeEditData
	Description string
}

// EditNodeInExternalEditor opens the node held in buf in an external editor.
// It reports false when the file was left unchanged.
func EditNodeInExternalEditor(buf editor.Buffers, cfg *config.Config) (NodeEdit, bool, error) {
	original, err := serializeNode(buf)
	if err != nil {
		return NodeEdit{}, false, fmt.Errorf("failed to serialize node: %w", err)
	}

	edited, changed, err := editInExternalEditor(original, "tuf-node-*.md", cfg)
	if err != nil || !changed {
		return NodeEdit{}, false, err
	}

	// Parse error - keep original
	edit, err := deserializeNode(edited)
	if err != nil {
		return NodeEdit{}, false, fmt.Errorf("failed to parse edited content: %w (keeping original)", err)
	}
	return edit, true, nil
}

// EditTextInExternalEditor opens text in an external editor and returns
// the edited text. It reports false when the file was left unchanged.
func EditTextInExternalEditor(text, pattern string, cfg *config.Config) (string, bool, error) {
	edited, changed, err := editInExternalEditor([]byte(text), pattern, cfg)
	if err != nil || !changed {
		return text, false, err
	}
	return string(edited), true, nil
}

func editInExternalEditor(content []byte, pattern string, cfg *config.Config) ([]byte, bool, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, false, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	// sh -c handles editor commands with arguments like "vim --clean"
	cmd := exec.Command("sh", "-c", resolveEditor(cfg)+" "+tmpPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// Editor exited with error, but we should still try to read the file
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, false, fmt.Errorf("failed to launch editor: %w", err)
		}
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read edited file: %w", err)
	}

	// Unchanged or emptied means the editor was closed without saving
	if bytes.Equal(content, edited) || len(edited) == 0 {
		return nil, false, nil
	}
	return edited, true, nil
}

// serializeNode renders the node as TOML frontmatter plus description
func serializeNode(buf editor.Buffers) ([]byte, error) {
	data := NodeEditData{
		Text:      buf.Text,
		Fill:      buf.FillColor,
		Stroke:    buf.StrokeColor,
		TextColor: buf.TextColor,
	}
	if !strings.HasPrefix(buf.ImageURL, "data:") {
		image := buf.ImageURL
		data.Image = &image
	}

	var out bytes.Buffer
	out.WriteString("+++\n")
	if err := toml.NewEncoder(&out).Encode(data); err != nil {
		return nil, err
	}
	out.WriteString("+++\n")
	out.WriteString(buf.Description)
	return out.Bytes(), nil
}

// deserializeNode parses frontmatter and description. Without frontmatter
// the whole content is not a node and is rejected.
func deserializeNode(content []byte) (NodeEdit, error) {
	s := string(content)
	if !strings.HasPrefix(s, "+++\n") {
		return NodeEdit{}, fmt.Errorf("missing +++ frontmatter")
	}
	rest := s[4:]
	end := strings.Index(rest, "+++\n")
	if end == -1 {
		if !strings.HasSuffix(rest, "+++") {
			return NodeEdit{}, fmt.Errorf("unterminated frontmatter")
		}
		end = len(rest) - 3
	}

	var edit NodeEdit
	if err := toml.Unmarshal([]byte(rest[:end]), &edit.NodeEditData); err != nil {
		return NodeEdit{}, err
	}
	if body := rest[end:]; len(body) > 4 {
		edit.Description = strings.TrimSpace(body[4:])
	}
	return edit, nil
}

// resolveEditor determines which editor to use
func resolveEditor(cfg *config.Config) string {
	// Check if editor is configured via :set editor
	if cfg != nil {
		if editorVal := cfg.Get("editor"); editorVal != "" {
			return editorVal
		}
	}

	// Check EDITOR environment variable
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Default fallback
	return "vi"
}
