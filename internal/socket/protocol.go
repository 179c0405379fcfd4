package socket

// Message represents a command sent to the running tuf instance
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`

	// ResponseChan is set by the server for synchronous commands. The
	// receiver must send exactly one response on it.
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
}

// Command types
const (
	// CommandLoad replaces the diagram with the flowchart JSON in Text
	CommandLoad = "load"
	// CommandGet returns the current diagram as flowchart JSON
	CommandGet = "get"
	// CommandPing checks that the instance is alive
	CommandPing = "ping"
)

// Reply sends a response for a synchronous message. It is a no-op for
// asynchronous ones.
func (m Message) Reply(resp *Response) {
	if m.ResponseChan == nil {
		return
	}
	select {
	case m.ResponseChan <- resp:
	default:
	}
}

func isSynchronous(command string) bool {
	return command == CommandGet
}

func knownCommand(command string) bool {
	switch command {
	case CommandLoad, CommandGet, CommandPing:
		return true
	}
	return false
}
