package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const backupExt = ".tuf"

// BackupManager handles backup creation for flowchart files
type BackupManager struct {
	backupDir string
}

// NewBackupManager creates a backup manager in the default directory
func NewBackupManager() (*BackupManager, error) {
	return NewBackupManagerIn(getBackupDir())
}

// NewBackupManagerIn creates a backup manager storing backups in dir
func NewBackupManagerIn(dir string) (*BackupManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupManager{
		backupDir: dir,
	}, nil
}

// Dir returns the backup directory
func (bm *BackupManager) Dir() string {
	return bm.backupDir
}

// CreateBackup creates a timestamped backup of the record before saving.
// It stores both the record and the original filename.
func (bm *BackupManager) CreateBackup(rec *Record, originalPath string, sessionID string) (string, error) {
	filename := bm.generateBackupFilename(sessionID)

	absPath, err := filepath.Abs(originalPath)
	if err != nil {
		// If we can't get absolute path, use the original
		absPath = originalPath
	}

	backup := *rec
	backup.OriginalFilename = absPath

	backupPath := filepath.Join(bm.backupDir, filename)

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup JSON: %w", err)
	}

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return backupPath, nil
}

// generateBackupFilename creates a filename in the format: YYYYMMDD_HHMMSS_<sessionID>.tuf
func (bm *BackupManager) generateBackupFilename(sessionID string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s%s", timestamp, sessionID, backupExt)
}

// getBackupDir returns the path to the backup directory
func getBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to /tmp if home directory cannot be determined
		return filepath.Join("/tmp", ".tui-flowchart", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "tui-flowchart", "backups")
}

// GetBackupDir is a public function to get the backup directory
func GetBackupDir() string {
	return getBackupDir()
}

// IsBackupFile reports whether path is a backup in the default directory
func IsBackupFile(path string) bool {
	if path == "" || !strings.HasSuffix(path, backupExt) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == filepath.Clean(getBackupDir())
}

// BackupMetadata holds parsed information about a backup file
type BackupMetadata struct {
	FilePath     string    // Full path to backup file
	Timestamp    time.Time // Parsed timestamp from filename
	SessionID    string    // 8-character session ID
	OriginalFile string    // Original filename stored in backup
}

// FindBackupsForFile returns all backups of a given original file, oldest
// first. An empty path returns every backup.
func (bm *BackupManager) FindBackupsForFile(originalFilePath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupMetadata

	var searchPath string
	if originalFilePath != "" {
		absPath, err := filepath.Abs(originalFilePath)
		if err != nil {
			searchPath = originalFilePath
		} else {
			searchPath = filepath.Clean(absPath)
		}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}

		metadata, err := parseBackupFilename(entry.Name(), filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue // Skip files that can't be parsed
		}

		if searchPath != "" && filepath.Clean(metadata.OriginalFile) != searchPath {
			continue
		}

		backups = append(backups, metadata)
	}

	sortBackupsByTimestamp(backups)
	return backups, nil
}

// Prune removes all but the newest keep backups of a file
func (bm *BackupManager) Prune(originalFilePath string, keep int) (int, error) {
	backups, err := bm.FindBackupsForFile(originalFilePath)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	removed := 0
	for len(backups)-removed > keep {
		if err := os.Remove(backups[removed].FilePath); err != nil {
			return removed, fmt.Errorf("failed to remove backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// parseBackupFilename extracts metadata from a backup filename
// Expected format: YYYYMMDD_HHMMSS_<sessionID>.tuf
func parseBackupFilename(filename string, fullPath string) (BackupMetadata, error) {
	if len(filename) < 16+8+len(backupExt) {
		return BackupMetadata{}, fmt.Errorf("filename too short")
	}

	// Extract timestamp: YYYYMMDD_HHMMSS (15 characters)
	timestampStr := filename[:15]
	sessionID := strings.TrimSuffix(filename[16:], backupExt)

	timestamp, err := time.ParseInLocation("20060102_150405", timestampStr, time.Local)
	if err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid timestamp format: %w", err)
	}

	// Read the backup file to get original filename
	var originalFile string
	data, err := os.ReadFile(fullPath)
	if err == nil {
		var rec Record
		if err := json.Unmarshal(data, &rec); err == nil {
			originalFile = rec.OriginalFilename
		}
	}

	return BackupMetadata{
		FilePath:     fullPath,
		Timestamp:    timestamp,
		SessionID:    sessionID,
		OriginalFile: originalFile,
	}, nil
}

// sortBackupsByTimestamp sorts backups chronologically (oldest first)
func sortBackupsByTimestamp(backups []BackupMetadata) {
	slices.SortStableFunc(backups, func(a, b BackupMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
}
