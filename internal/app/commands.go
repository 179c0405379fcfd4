package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pstuifzand/tui-flowchart/internal/editor"
	"github.com/pstuifzand/tui-flowchart/internal/export"
	import_parser "github.com/pstuifzand/tui-flowchart/internal/import"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// parseCommand splits a command line into words. Single and double quotes
// group words, and a backslash escapes the next character.
func parseCommand(input string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		inWord  bool
		escaped bool
	)

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "q", "quit":
		if a.dirty {
			a.SetStatus("Unsaved changes! Use :q! to force quit or :w to save")
		} else {
			a.quit = true
		}
	case "q!", "quit!":
		a.quit = true
	case "w", "write":
		var err error
		if len(parts) > 1 {
			err = a.SaveAs(parts[1])
		} else {
			err = a.Save()
		}
		if err != nil {
			a.SetError("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
	case "wq", "x":
		if err := a.Save(); err != nil {
			a.SetError("Failed to save: " + err.Error())
		} else {
			a.quit = true
		}
	case "e", "open":
		a.handleOpenCommand(parts[1:], false)
	case "e!", "open!":
		a.handleOpenCommand(parts[1:], true)
	case "title":
		if len(parts) < 2 {
			a.SetStatus("Title: " + a.record.Title)
			return
		}
		a.record.Title = strings.Join(parts[1:], " ")
		a.dirty = true
		a.autoSaveTime = time.Now()
	case "add":
		if len(parts) < 2 || !slices.Contains(model.AllNodeTypes(), model.FlowNodeType(parts[1])) {
			a.SetStatus("Usage: add start|process|decision|end|image")
			return
		}
		a.addNode(model.FlowNodeType(parts[1]))
	case "export":
		a.handleExportCommand(parts[1:])
	case "yank", "y":
		format := "json"
		if len(parts) > 1 {
			format = parts[1]
		}
		a.yank(format)
	case "attach":
		a.handleReadCommand(parts[1:], editor.ReadAttachment)
	case "image":
		a.handleReadCommand(parts[1:], editor.ReadImage)
	case "detach":
		a.handleDetachCommand(parts[1:])
	case "edit":
		a.editNodeExternal()
	case "code":
		a.openCodeView()
	case "import":
		if len(parts) > 1 {
			a.handleImportOutline(parts[1])
			return
		}
		a.openImport()
	case "set":
		a.handleSetCommand(parts[1:])
	case "backups":
		a.handleBackupsCommand()
	case "diff":
		a.handleDiffCommand(parts[1:])
	case "messages":
		a.handleMessagesCommand()
	case "help":
		a.help.Toggle()
	case "debug":
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetStatus("Unknown command: " + parts[0])
	}
}

func (a *App) handleOpenCommand(args []string, force bool) {
	if len(args) < 1 {
		a.SetStatus("Usage: open <file>")
		return
	}
	if a.dirty && !force {
		a.SetStatus("Unsaved changes! Use :e! to discard them")
		return
	}
	a.connectFrom = ""
	a.selectedEdge = ""
	a.labelEditor = nil
	if err := a.openFile(args[0]); err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Opened " + args[0])
}

// handleExportCommand writes the diagram as json, mermaid or png. Without a
// file name the export_name pattern names the file.
func (a *App) handleExportCommand(args []string) {
	if len(args) < 1 {
		a.SetStatus("Usage: export json|mermaid|png [file]")
		return
	}
	format := args[0]
	ext := map[string]string{"json": "json", "mermaid": "mmd", "png": "png"}[format]
	if ext == "" {
		a.SetStatus("Unknown export format: " + format)
		return
	}

	path := export.DefaultFilename(a.cfg.ExportNameValue(), ext, time.Now())
	if len(args) > 1 {
		path = args[1]
	} else if a.store != nil {
		path = filepath.Join(filepath.Dir(a.store.FilePath), path)
	}

	d := a.ctrl.Snapshot()
	var err error
	switch format {
	case "json":
		err = export.WriteJSON(path, d)
	case "mermaid":
		err = os.WriteFile(path, []byte(export.Mermaid(d)), 0o644)
	case "png":
		err = export.PNG(path, d)
	}
	if err != nil {
		a.SetError("Export failed: " + err.Error())
		return
	}
	a.SetStatus("Exported to " + path)
}

// handleReadCommand reads a file into the selected node in the background.
// The result is applied on the event loop.
func (a *App) handleReadCommand(args []string, purpose editor.ReadPurpose) {
	if len(args) < 1 {
		a.SetStatus("Usage: attach|image <path>")
		return
	}
	if !a.bridge.Open() {
		a.SetStatus("Select a node first")
		return
	}
	path := args[0]
	a.SetStatus("Reading " + filepath.Base(path) + "...")
	a.bridge.RunRead(a.ctx, path, purpose, a.deliver, func(err error) {
		switch {
		case errors.Is(err, editor.ErrStaleRead):
			a.SetStatus("Selection changed, " + filepath.Base(path) + " dropped")
		case err != nil:
			a.SetError(err.Error())
		default:
			a.SetStatus("Added " + filepath.Base(path))
		}
	})
}

// handleImportOutline replaces the diagram with a flowchart laid out from a
// Markdown or indented text outline
func (a *App) handleImportOutline(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		a.SetError(fmt.Sprintf("Failed to read %s: %v", path, err))
		return
	}
	d, err := import_parser.ImportFile(string(content), import_parser.DetectFormat(path))
	if err != nil {
		a.SetError("Import failed: " + err.Error())
		return
	}
	a.labelEditor = nil
	a.connectFrom = ""
	a.selectedEdge = ""
	if err := a.ctrl.SetData(&d); err != nil {
		a.SetError("Import failed: " + err.Error())
		return
	}
	a.SetStatus(fmt.Sprintf("Imported %d nodes from %s", len(d.Nodes), filepath.Base(path)))
}

func (a *App) handleDetachCommand(args []string) {
	if len(args) < 1 {
		a.SetStatus("Usage: detach <n>")
		return
	}
	atts := a.bridge.Buffers().Attachments
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(atts) {
		a.SetStatus(fmt.Sprintf("No attachment %s", args[0]))
		return
	}
	if a.bridge.RemoveAttachment(atts[n-1].ID) {
		a.SetStatus("Removed " + atts[n-1].Name)
	}
}

// handleSetCommand shows or changes session settings
func (a *App) handleSetCommand(args []string) {
	switch len(args) {
	case 0:
		all := a.cfg.GetAll()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%s ", k, all[k])
		}
		if b.Len() == 0 {
			a.SetStatus("No settings")
			return
		}
		a.SetStatus(strings.TrimSpace(b.String()))
	case 1:
		a.SetStatus(fmt.Sprintf("%s=%s", args[0], a.cfg.Get(args[0])))
	default:
		value := strings.Join(args[1:], " ")
		a.cfg.Set(args[0], value)
		a.SetStatus(fmt.Sprintf("%s=%s", args[0], value))
	}
}

// handleMessagesCommand shows the recent status messages in the help overlay
func (a *App) handleMessagesCommand() {
	msgs := a.messages.GetMessagesReverse()
	if len(msgs) == 0 {
		a.SetStatus("No messages")
		return
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		prefix := "  "
		if m.Error {
			prefix = "! "
		}
		lines = append(lines, prefix+m.Timestamp.Format("15:04:05")+" "+m.Text)
	}
	a.help.ShowLines(" Messages (q to close) ", lines)
}
