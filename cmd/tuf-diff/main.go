package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pstuifzand/tui-flowchart/internal/diff"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/storage"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output (show positions and colours)")
	summary := flag.Bool("s", false, "Summary only (no node-level details)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tuf-diff [options] <file.json>
       tuf-diff [options] <file1.json> <file2.json>

Compares flowchart files and shows changes by node and connection.

Single-file mode: Shows changes across all backups of that file
Two-file mode: Shows changes between two specific files

Options:
  -v   Verbose output (show positions and colours)
  -s   Summary only (counts without details)
`)
	}

	flag.Parse()

	args := flag.Args()
	switch len(args) {
	case 1:
		handleSingleFileMode(args[0], *verbose, *summary)
	case 2:
		handleTwoFileMode(args[0], args[1], *verbose, *summary)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func loadDiagram(path string) (model.FlowchartData, error) {
	rec, err := storage.NewJSONStore(path).Load()
	if err != nil {
		return model.FlowchartData{}, err
	}
	return rec.Diagram()
}

func printDiff(result *diff.DiffResult, verbose, summary bool) {
	if summary {
		fmt.Println(diff.Summary(result))
		return
	}
	fmt.Print(diff.FormatLines(diff.BuildDiffLines(result, verbose)))
}

// handleTwoFileMode compares two specific files
func handleTwoFileMode(file1Path, file2Path string, verbose, summary bool) {
	d1, err := loadDiagram(file1Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading first file: %v\n", err)
		os.Exit(1)
	}
	d2, err := loadDiagram(file2Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading second file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Flowchart Diff: %s → %s ===\n\n", file1Path, file2Path)
	printDiff(diff.ComputeDiff(d1, d2), verbose, summary)
}

// handleSingleFileMode finds backups for a file and shows the diff history
func handleSingleFileMode(filePath string, verbose, summary bool) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		absPath = filePath
	}

	bm, err := storage.NewBackupManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing backup manager: %v\n", err)
		os.Exit(1)
	}

	backups, err := bm.FindBackupsForFile(absPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching for backups: %v\n", err)
		os.Exit(1)
	}

	if len(backups) < 2 {
		fmt.Fprintf(os.Stderr, "Found %d backups of %s, need at least 2 to compare\n", len(backups), absPath)
		fmt.Fprintf(os.Stderr, "Note: Backups are stored in %s\n", bm.Dir())
		os.Exit(1)
	}

	fmt.Printf("=== Backup History for: %s ===\n", filePath)
	fmt.Printf("Found %d backups\n\n", len(backups))

	// Compare each consecutive pair
	for i := 0; i < len(backups)-1; i++ {
		b1, b2 := backups[i], backups[i+1]

		d1, err := loadDiagram(b1.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading backup %d: %v\n", i+1, err)
			continue
		}
		d2, err := loadDiagram(b2.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading backup %d: %v\n", i+2, err)
			continue
		}

		fmt.Printf("--- %s (backup %d)\n", formatBackupTime(b1.Timestamp), i+1)
		fmt.Printf("+++ %s (backup %d)\n\n", formatBackupTime(b2.Timestamp), i+2)
		printDiff(diff.ComputeDiff(d1, d2), verbose, summary)
		fmt.Println()
	}
}

// formatBackupTime formats a backup timestamp for display
func formatBackupTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
