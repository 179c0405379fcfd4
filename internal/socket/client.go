package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoInstance is returned when no running instance has a socket
var ErrNoInstance = errors.New("no running tuf instance found")

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance finds the socket path for a running tuf instance
// Returns the socket path and PID, or an error if not found
func FindRunningInstance() (string, int, error) {
	return FindRunningInstanceIn(SocketDir())
}

// FindRunningInstanceIn looks for instance sockets in dir. With several,
// the most recent one wins.
func FindRunningInstanceIn(socketDir string) (string, int, error) {
	// Look for socket files
	var sockets []string
	err := filepath.WalkDir(socketDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, directory might not exist
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), "tuf-") && strings.HasSuffix(d.Name(), ".sock") {
			sockets = append(sockets, path)
		}
		return nil
	})

	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	if len(sockets) == 0 {
		return "", 0, ErrNoInstance
	}

	if len(sockets) > 1 {
		var newestSocket string
		var newestTime time.Time
		for _, sock := range sockets {
			info, err := os.Stat(sock)
			if err != nil {
				continue
			}
			if info.ModTime().After(newestTime) {
				newestTime = info.ModTime()
				newestSocket = sock
			}
		}
		if newestSocket == "" {
			return "", 0, fmt.Errorf("no accessible socket found")
		}
		sockets = []string{newestSocket}
	}

	socketPath := sockets[0]

	// Extract PID from filename
	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(socketPath), "tuf-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0 // Unknown PID
	}

	return socketPath, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	// Verify socket exists
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}

	return &Client{
		socketPath: socketPath,
		timeout:    ResponseTimeout + 2*time.Second,
	}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	// Set a timeout for the operation
	conn.SetDeadline(time.Now().Add(c.timeout))

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)

	// Send message
	if err := encoder.Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// Receive response
	var response Response
	if err := decoder.Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}

	return &response, nil
}

// SendLoad asks the instance to replace its diagram with text
func (c *Client) SendLoad(text string) (*Response, error) {
	return c.Send(Message{Command: CommandLoad, Text: text})
}

// Get returns the flowchart JSON of the running instance
func (c *Client) Get() (string, error) {
	resp, err := c.Send(Message{Command: CommandGet})
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("get failed: %s", resp.Message)
	}
	return resp.Text, nil
}

// Ping checks that the instance answers
func (c *Client) Ping() error {
	resp, err := c.Send(Message{Command: CommandPing})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ping failed: %s", resp.Message)
	}
	return nil
}
