package app

import (
	"fmt"
	"log"
	"slices"

	"github.com/atotto/clipboard"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/controller"
	"github.com/pstuifzand/tui-flowchart/internal/editor"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/export"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/ui"
)

func (a *App) addNode(t model.FlowNodeType) {
	if id := a.ctrl.AddNode(t); id == "" {
		a.SetError(fmt.Sprintf("Could not add %s node", t))
		return
	}
	a.SetStatus(fmt.Sprintf("Added %s node", t))
}

// deleteSelection removes the selected node, or else the selected connection
func (a *App) deleteSelection() {
	switch {
	case a.ctrl.Selected() != "":
		if a.ctrl.Selected() == a.connectFrom {
			a.connectFrom = ""
		}
		a.ctrl.DeleteSelected()
		a.SetStatus("Deleted node")
	case a.selectedEdge != "":
		a.ctrl.DeleteElement(engine.ElementEdge, a.selectedEdge)
		a.selectedEdge = ""
		a.SetStatus("Deleted connection")
	default:
		a.SetStatus("Nothing selected")
	}
}

// toggleConnect starts a connection at the selected node, or finishes it
// at the selected node when one is pending
func (a *App) toggleConnect() {
	selected := a.ctrl.Selected()
	if a.connectFrom != "" {
		if selected == "" || selected == a.connectFrom {
			a.connectFrom = ""
			a.SetStatus("Connect cancelled")
			return
		}
		a.finishConnect(selected)
		return
	}
	if selected == "" {
		a.SetStatus("Select a node to connect from")
		return
	}
	a.connectFrom = selected
	a.SetStatus("Connecting: click the target node or select it and press c")
}

func (a *App) finishConnect(target string) {
	from := a.connectFrom
	a.connectFrom = ""
	if _, err := a.ctrl.Connect(from, target, ""); err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Connected")
}

func (a *App) beginPanelEdit() {
	if !a.bridge.Open() {
		a.SetStatus("Select a node first")
		return
	}
	a.showPanel = true
	if !a.panel.BeginEdit() {
		if msg := a.panel.Error(); msg != "" {
			a.SetStatus(msg)
		} else {
			a.SetStatus(a.panel.Focus().String() + " is not editable here")
		}
	}
}

// editNodeExternal opens the selected node in $EDITOR and writes back the
// fields that changed
func (a *App) editNodeExternal() {
	if !a.bridge.Open() {
		a.SetStatus("Select a node first")
		return
	}
	buf := a.bridge.Buffers()

	if err := a.screen.Suspend(); err != nil {
		a.SetError("Failed to suspend screen: " + err.Error())
		return
	}
	edit, changed, err := ui.EditNodeInExternalEditor(buf, a.cfg)
	if rerr := a.screen.Resume(); rerr != nil {
		log.Printf("Failed to resume screen: %v", rerr)
	}
	a.screen.Sync()

	if err != nil {
		a.SetError(err.Error())
		return
	}
	if !changed {
		a.SetStatus("No changes")
		return
	}
	if err := a.applyNodeEdit(buf, edit); err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Node updated")
}

func (a *App) applyNodeEdit(buf editor.Buffers, edit ui.NodeEdit) error {
	if edit.Text != buf.Text {
		a.bridge.UpdateText(edit.Text)
	}
	if edit.Description != buf.Description {
		a.bridge.UpdateDescription(edit.Description)
	}
	updates := []struct {
		old, new string
		apply    func(string) error
	}{
		{buf.FillColor, edit.Fill, a.bridge.UpdateFillColor},
		{buf.StrokeColor, edit.Stroke, a.bridge.UpdateStrokeColor},
		{buf.TextColor, edit.TextColor, a.bridge.UpdateTextColor},
	}
	for _, u := range updates {
		if u.new == u.old {
			continue
		}
		if err := u.apply(u.new); err != nil {
			return err
		}
	}
	if edit.Image != nil && *edit.Image != buf.ImageURL {
		a.bridge.UpdateImage(*edit.Image)
	}
	return nil
}

// cycleSelection selects the node delta positions after the selected one
func (a *App) cycleSelection(delta int) {
	eng := a.ctrl.Engine()
	if eng == nil {
		return
	}
	nodes := eng.Nodes()
	if len(nodes) == 0 {
		return
	}
	i := slices.IndexFunc(nodes, func(n *engine.NodeModel) bool { return n.ID == a.ctrl.Selected() })
	switch {
	case i < 0 && delta < 0:
		i = len(nodes) - 1
	case i < 0:
		i = 0
	default:
		i = (i + delta + len(nodes)) % len(nodes)
	}
	a.ctrl.Select(nodes[i].ID)
}

// pan moves the viewport by a number of cells
func (a *App) pan(dx, dy int) {
	if eng := a.ctrl.Engine(); eng != nil {
		eng.Translate(-float64(dx)*ui.CellWidth, -float64(dy)*ui.CellHeight)
	}
}

// nudge moves the selected node by a diagram-space delta
func (a *App) nudge(dx, dy float64) {
	eng := a.ctrl.Engine()
	if eng == nil {
		return
	}
	n := eng.Node(a.ctrl.Selected())
	if n == nil {
		a.SetStatus("Select a node to move")
		return
	}
	if err := eng.MoveNode(n.ID, n.X+dx, n.Y+dy); err != nil {
		a.SetError(err.Error())
	}
}

// centerOnSelection pans so the selected node is in the middle of the canvas
func (a *App) centerOnSelection() {
	eng := a.ctrl.Engine()
	if eng == nil {
		return
	}
	n := eng.Node(a.ctrl.Selected())
	if n == nil {
		return
	}
	w, h := eng.Size()
	at := eng.DiagramToScreen(engine.Point{X: n.X, Y: n.Y})
	eng.Translate(float64(w)/2-at.X, float64(h)/2-at.Y)
}

func (a *App) selectCurrentMatch() {
	node, ok := a.search.GetCurrentMatch()
	if !ok {
		return
	}
	a.ctrl.Select(node.ID)
	a.centerOnSelection()
	a.SetStatus(fmt.Sprintf("Match %d of %d", a.search.GetCurrentMatchNumber(), a.search.GetMatchCount()))
}

// openCodeView toggles between the canvas and the JSON code view
func (a *App) openCodeView() {
	if a.ctrl.Mode() == controller.ViewCode {
		a.closeCodeView()
		return
	}
	a.code.OpenCode(a.ctrl.Snapshot())
	a.codePanel.Open(a.code.Code)
	a.codeErr = nil
}

func (a *App) applyCode() {
	if err := a.code.ApplyCode(a.codePanel.Text()); err != nil {
		a.codeErr = err
		a.codePanel.SetError(err.Error())
		return
	}
	a.codeErr = nil
	a.codePanel.SetError("")
	a.SetStatus("Code applied")
}

func (a *App) closeCodeView() {
	a.codePanel.Close()
	a.code.CloseCode()
	a.codeErr = nil
	a.code.Sync(a.ctrl.Snapshot())
}

func (a *App) openImport() {
	a.importPanel.Open(a.code.ImportText)
	a.importPanel.SetError(a.code.ImportError)
}

// importDiagram replaces the diagram with text. On failure the import panel
// stays open with the error.
func (a *App) importDiagram(text string) {
	if err := a.code.Import(text); err != nil {
		if a.importPanel.IsActive() {
			a.importPanel.SetError(err.Error())
		}
		a.SetError("Import failed: " + err.Error())
		return
	}
	a.importPanel.Close()
	if a.codePanel.IsActive() {
		a.codePanel.Close()
	}
	a.SetStatus(fmt.Sprintf("Imported %d nodes", len(a.ctrl.Snapshot().Nodes)))
}

func (a *App) pasteInto(p *ui.CodePanel) {
	text, err := clipboard.ReadAll()
	if err != nil {
		a.SetError("Clipboard unavailable: " + err.Error())
		return
	}
	p.Paste(text)
}

// diagramText renders the current diagram as json or mermaid
func (a *App) diagramText(format string) (string, error) {
	d := a.ctrl.Snapshot()
	switch format {
	case "", "json":
		return codeview.ToText(d), nil
	case "mermaid", "mmd":
		return export.Mermaid(d), nil
	}
	return "", fmt.Errorf("unknown format %q, use json or mermaid", format)
}

// yank copies the diagram to the system clipboard
func (a *App) yank(format string) {
	text, err := a.diagramText(format)
	if err != nil {
		a.SetError(err.Error())
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.SetError("Copy failed: " + err.Error())
		return
	}
	if format == "" {
		format = "json"
	}
	a.SetStatus(fmt.Sprintf("Copied %s to clipboard", format))
}
