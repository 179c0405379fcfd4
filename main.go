package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pstuifzand/tui-flowchart/internal/app"
	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/socket"
)

func main() {
	logFile, err := os.Create("tuf.log")
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	load := flag.String("load", "", "Replace the diagram of a running tuf instance with a flowchart JSON file")
	get := flag.Bool("get", false, "Print the diagram of a running tuf instance")
	flag.Parse()

	if *load != "" {
		if err := sendLoad(*load); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Diagram sent")
		return
	}

	if *get {
		text, err := fetchDiagram()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	args := flag.Args()
	var filePath string

	if len(args) > 0 {
		filePath = args[0]
	}
	// filePath will be empty if no argument provided, which is allowed

	application, err := app.NewApp(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebugMode(true)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

func connect() (*socket.Client, error) {
	socketPath, pid, err := socket.FindRunningInstance()
	if err != nil {
		return nil, fmt.Errorf("no running tuf instance found: %w", err)
	}

	log.Printf("Found running instance at PID %d: %s", pid, socketPath)

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return client, nil
}

// sendLoad checks a flowchart file and sends it to a running instance
func sendLoad(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(data)
	if _, err := codeview.FromText(text); err != nil {
		return err
	}

	client, err := connect()
	if err != nil {
		return err
	}

	response, err := client.SendLoad(text)
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	if !response.Success {
		return fmt.Errorf("server error: %s", response.Message)
	}

	log.Printf("Successfully sent load command: %s", path)
	return nil
}

func fetchDiagram() (string, error) {
	client, err := connect()
	if err != nil {
		return "", err
	}
	return client.Get()
}
