package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
)

// JSONStore handles JSON file persistence
type JSONStore struct {
	FilePath string
	ReadOnly bool
}

// NewJSONStore creates a new JSON store for the given file path.
// Backup files are opened read-only.
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
		ReadOnly: IsBackupFile(filePath),
	}
}

// Load loads a record from a JSON file. A file holding only a diagram
// (as written by the json export) is wrapped in a bare record.
func (s *JSONStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty record if file doesn't exist
			return NewRecord(TitleFromPath(s.FilePath)), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if _, ok := probe["nodes"]; ok {
		d, err := codeview.FromText(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse flowchart: %w", err)
		}
		rec := NewRecord(TitleFromPath(s.FilePath))
		rec.Bare = true
		if info, err := os.Stat(s.FilePath); err == nil {
			rec.Modified = info.ModTime()
		}
		rec.Flowchart, err = EncodeFlowchart(d)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := rec.Diagram(); err != nil {
		return nil, fmt.Errorf("failed to parse flowchart of %s: %w", rec.ID, err)
	}

	return &rec, nil
}

// Save saves a record to a JSON file
func (s *JSONStore) Save(rec *Record) error {
	if s.ReadOnly {
		return fmt.Errorf("%s is a backup and opened read-only", s.FilePath)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var data []byte
	if rec.Bare {
		d, err := rec.Diagram()
		if err != nil {
			return fmt.Errorf("failed to decode flowchart: %w", err)
		}
		data = []byte(codeview.ToText(d))
	} else {
		var err error
		data, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	if err := os.WriteFile(s.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FileExists checks if the record file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}

// TitleFromPath names a record after its file
func TitleFromPath(path string) string {
	if path == "" {
		return "Untitled"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
