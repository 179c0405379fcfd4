package app

import (
	"fmt"
	"log"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (app *App) handleSocketMessage(msg socket.Message) {
	log.Printf("Received socket message: command=%s, %d bytes", msg.Command, len(msg.Text))

	switch msg.Command {
	case socket.CommandLoad:
		app.handleLoadCommand(msg)
	case socket.CommandGet:
		app.handleGetCommand(msg)
	default:
		log.Printf("Unknown socket command: %s", msg.Command)
		msg.Reply(&socket.Response{Success: false, Message: "unknown command: " + msg.Command})
	}
}

// handleLoadCommand replaces the diagram with the message text. Broken
// text leaves the live diagram alone.
func (app *App) handleLoadCommand(msg socket.Message) {
	d, err := codeview.FromText(msg.Text)
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		log.Printf("Load command rejected: %v", err)
		app.SetError("Load rejected: " + err.Error())
		return
	}

	app.labelEditor = nil
	app.connectFrom = ""
	app.selectedEdge = ""
	if err := app.ctrl.SetData(&d); err != nil {
		app.SetError("Loaded with problems: " + err.Error())
		return
	}

	log.Printf("Loaded %d nodes from socket", len(d.Nodes))
	app.SetStatus(fmt.Sprintf("Loaded %d nodes from socket", len(d.Nodes)))
}

// handleGetCommand answers with the current diagram
func (app *App) handleGetCommand(msg socket.Message) {
	msg.Reply(&socket.Response{
		Success: true,
		Message: "ok",
		Text:    codeview.ToText(app.ctrl.Snapshot()),
	})
}
