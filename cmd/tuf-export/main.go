package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pstuifzand/tui-flowchart/internal/export"
	"github.com/pstuifzand/tui-flowchart/internal/storage"
)

func main() {
	format := flag.String("format", "json", "Output format: json, mermaid or png")
	output := flag.String("o", "", "Output file (default: generated from -name)")
	name := flag.String("name", "flowchart", "strftime pattern for the generated file name")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tuf-export [options] <input.json>

Exports a flowchart file as bare JSON, Mermaid or PNG.
Mermaid output goes to stdout when -o is "-".

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	rec, err := storage.NewJSONStore(flag.Arg(0)).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	d, err := rec.Diagram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	ext := map[string]string{"json": "json", "mermaid": "mmd", "png": "png"}[strings.ToLower(*format)]
	if ext == "" {
		fmt.Fprintf(os.Stderr, "Unknown format %q\n", *format)
		os.Exit(1)
	}
	path := *output
	if path == "" {
		path = export.DefaultFilename(*name, ext, time.Now())
	}

	switch ext {
	case "json":
		err = export.WriteJSON(path, d)
	case "mmd":
		text := export.Mermaid(d)
		if path == "-" {
			fmt.Print(text)
			return
		}
		err = os.WriteFile(path, []byte(text), 0o644)
	case "png":
		err = export.PNG(path, d)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d nodes to %s\n", len(d.Nodes), path)
}
