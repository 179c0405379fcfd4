package socket

import (
	"os"
	"testing"
	"time"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServerIn(t.TempDir(), os.Getpid())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)
	server.Start()
	return server
}

func newClient(t *testing.T, server *Server) *Client {
	t.Helper()
	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestSendLoadIsQueued(t *testing.T) {
	server := startServer(t)
	client := newClient(t, server)

	text := `{"nodes": [], "connections": []}`
	response, err := client.SendLoad(text)
	if err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	if !response.Success {
		t.Errorf("Expected success=true, got success=false: %s", response.Message)
	}

	// Receive the message from the server
	select {
	case msg := <-server.Messages():
		if msg.Command != CommandLoad {
			t.Errorf("Expected command=%s, got command=%s", CommandLoad, msg.Command)
		}
		if msg.Text != text {
			t.Errorf("Expected text=%s, got text=%s", text, msg.Text)
		}
		if msg.ResponseChan != nil {
			t.Errorf("load must not wait for a response")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestGetWaitsForReply(t *testing.T) {
	server := startServer(t)
	client := newClient(t, server)

	go func() {
		msg := <-server.Messages()
		msg.Reply(&Response{Success: true, Message: "ok", Text: `{"nodes":[],"connections":[]}`})
	}()

	text, err := client.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if text != `{"nodes":[],"connections":[]}` {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestGetReportsFailure(t *testing.T) {
	server := startServer(t)
	client := newClient(t, server)

	go func() {
		msg := <-server.Messages()
		msg.Reply(&Response{Success: false, Message: "not ready"})
	}()

	if _, err := client.Get(); err == nil {
		t.Errorf("Expected error from failed get")
	}
}

func TestPingIsAnsweredByServer(t *testing.T) {
	server := startServer(t)
	client := newClient(t, server)

	if err := client.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	select {
	case msg := <-server.Messages():
		t.Errorf("ping must not reach the app, got %s", msg.Command)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRejectsBadMessages(t *testing.T) {
	server := startServer(t)
	client := newClient(t, server)

	for _, msg := range []Message{{}, {Command: "add_node"}} {
		response, err := client.Send(msg)
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if response.Success {
			t.Errorf("Expected failure for %q", msg.Command)
		}
	}
}

func TestFindRunningInstance(t *testing.T) {
	dir := t.TempDir()
	pid := os.Getpid()
	server, err := NewServerIn(dir, pid)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	defer server.Stop()

	server.Start()

	// Find the running instance
	socketPath, foundPid, err := FindRunningInstanceIn(dir)
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}

	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got socketPath=%s", server.SocketPath(), socketPath)
	}

	if foundPid != pid {
		t.Errorf("Expected pid=%d, got pid=%d", pid, foundPid)
	}
}

func TestFindRunningInstanceNone(t *testing.T) {
	if _, _, err := FindRunningInstanceIn(t.TempDir()); err != ErrNoInstance {
		t.Errorf("Expected ErrNoInstance, got %v", err)
	}
}

func TestReplyWithoutChannel(t *testing.T) {
	// Must not block or panic
	Message{Command: CommandLoad}.Reply(&Response{Success: true})
}
