package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ResponseTimeout bounds how long a synchronous command waits for the app
const ResponseTimeout = 10 * time.Second

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// SocketDir returns the directory holding instance sockets
func SocketDir() string {
	// Use XDG_RUNTIME_DIR if available, otherwise fall back to ~/.local/share
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "tui-flowchart")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "tui-flowchart")
}

// NewServer creates a new Unix socket server in SocketDir
func NewServer(pid int) (*Server, error) {
	return NewServerIn(SocketDir(), pid)
}

// NewServerIn creates a Unix socket server with its socket in dir
func NewServerIn(dir string, pid int) (*Server, error) {
	// Create socket directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("tuf-%d.sock", pid))

	// Remove existing socket if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	log.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10), // Buffer up to 10 messages
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

// acceptLoop continuously accepts new connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-s.stopChan:
				return
			default:
				log.Printf("Error accepting connection: %v", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// handleConnection processes a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	reply := func(resp Response) {
		if err := encoder.Encode(resp); err != nil {
			log.Printf("Error writing response: %v", err)
		}
	}

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			log.Printf("Error decoding message: %v", err)
		}
		reply(Response{Success: false, Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	// Validate command
	if msg.Command == "" {
		reply(Response{Success: false, Message: "Missing command field"})
		return
	}
	if !knownCommand(msg.Command) {
		reply(Response{Success: false, Message: fmt.Sprintf("Unknown command: %s", msg.Command)})
		return
	}
	if msg.Command == CommandPing {
		reply(Response{Success: true, Message: "pong"})
		return
	}

	// For synchronous commands, create a response channel
	if isSynchronous(msg.Command) {
		msg.ResponseChan = make(chan *Response, 1)
	}

	// Send message to channel for processing
	select {
	case s.msgChan <- msg:
		if msg.ResponseChan == nil {
			reply(Response{Success: true, Message: "Command queued"})
			return
		}
		select {
		case response := <-msg.ResponseChan:
			reply(*response)
		case <-time.After(ResponseTimeout):
			reply(Response{Success: false, Message: "Command timed out"})
		case <-s.stopChan:
			reply(Response{Success: false, Message: "Server is shutting down"})
		}
	case <-s.stopChan:
		reply(Response{Success: false, Message: "Server is shutting down"})
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and cleans up resources. It is safe to call twice.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.listener != nil {
			s.listener.Close()
		}
		// Clean up socket file
		if s.socketPath != "" {
			os.Remove(s.socketPath)
		}
		log.Printf("Socket server stopped")
	})
}
