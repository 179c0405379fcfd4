package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBackupManagerCreateBackup(t *testing.T) {
	bm, err := NewBackupManagerIn(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create backup manager: %v", err)
	}

	rec := NewRecord("Test")
	originalPath := "/tmp/test_flowchart.json"
	backupPath, err := bm.CreateBackup(rec, originalPath, "test1234")
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("Failed to read backup file: %v", err)
	}

	var backup Record
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("Failed to unmarshal backup: %v", err)
	}

	if backup.OriginalFilename != originalPath {
		t.Fatalf("Expected original filename '%s', got '%s'", originalPath, backup.OriginalFilename)
	}
	if backup.Flowchart != rec.Flowchart {
		t.Fatalf("Expected flowchart %q, got %q", rec.Flowchart, backup.Flowchart)
	}
	if rec.OriginalFilename != "" {
		t.Fatalf("CreateBackup modified the record: %q", rec.OriginalFilename)
	}
}

func TestBackupFilenameFormat(t *testing.T) {
	bm, _ := NewBackupManagerIn(t.TempDir())

	sessionID := "abc12345"
	filename := bm.generateBackupFilename(sessionID)

	// Check format: YYYYMMDD_HHMMSS_<sessionID>.tuf
	expectedLen := len("20251103_150405_abc12345.tuf")
	if len(filename) != expectedLen {
		t.Fatalf("Filename format incorrect: expected length %d, got %d: %s", expectedLen, len(filename), filename)
	}
	if !strings.HasSuffix(filename, ".tuf") {
		t.Fatalf("Filename should end with .tuf: %s", filename)
	}
	if filename[16:24] != sessionID {
		t.Fatalf("Session ID not found in filename: %s", filename)
	}
}

func TestFindAndPruneBackups(t *testing.T) {
	dir := t.TempDir()
	bm, err := NewBackupManagerIn(dir)
	if err != nil {
		t.Fatalf("Failed to create backup manager: %v", err)
	}

	original := filepath.Join(dir, "chart.json")
	other := filepath.Join(dir, "other.json")
	rec := NewRecord("chart")

	// distinct timestamps without sleeping
	for i, name := range []string{"20240101_100000_aaaaaaaa.tuf", "20240101_110000_bbbbbbbb.tuf", "20240101_120000_cccccccc.tuf"} {
		backup := *rec
		backup.OriginalFilename = original
		if i == 1 {
			backup.OriginalFilename = other
		}
		data, _ := json.Marshal(backup)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := bm.CreateBackup(rec, original, "dddddddd"); err != nil {
		t.Fatal(err)
	}

	backups, err := bm.FindBackupsForFile(original)
	if err != nil {
		t.Fatalf("FindBackupsForFile failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("Expected 3 backups, got %d", len(backups))
	}
	if backups[0].SessionID != "aaaaaaaa" || backups[2].SessionID != "dddddddd" {
		t.Fatalf("Backups not sorted oldest first: %+v", backups)
	}
	if !backups[0].Timestamp.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)) {
		t.Fatalf("Unexpected timestamp %v", backups[0].Timestamp)
	}

	all, _ := bm.FindBackupsForFile("")
	if len(all) != 4 {
		t.Fatalf("Expected 4 backups in total, got %d", len(all))
	}

	removed, err := bm.Prune(original, 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Expected 2 removed backups, got %d", removed)
	}
	backups, _ = bm.FindBackupsForFile(original)
	if len(backups) != 1 || backups[0].SessionID != "dddddddd" {
		t.Fatalf("Prune kept the wrong backups: %+v", backups)
	}
	if others, _ := bm.FindBackupsForFile(other); len(others) != 1 {
		t.Fatalf("Prune touched backups of another file")
	}
}

func TestIsBackupFileDetection(t *testing.T) {
	backupDir := GetBackupDir()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Empty path", "", false},
		{"Regular file", "/tmp/mychart.json", false},
		{"Backup file", filepath.Join(backupDir, "20251103_150405_abc12345.tuf"), true},
		{"Backup name in different directory", "/tmp/backups/20251103_150405_abc12345.tuf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsBackupFile(tt.path); result != tt.expected {
				t.Errorf("IsBackupFile(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}

	if !NewJSONStore(filepath.Join(backupDir, "20251103_150405_abc12345.tuf")).ReadOnly {
		t.Errorf("Backup store should be read-only")
	}
}
