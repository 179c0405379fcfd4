package app

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pstuifzand/tui-flowchart/internal/diff"
	"github.com/pstuifzand/tui-flowchart/internal/storage"
)

// backupTarget returns the file whose backups belong to the open diagram.
// A backup opened read-only points back at its original.
func (a *App) backupTarget() string {
	if a.store == nil {
		return ""
	}
	if a.store.ReadOnly && a.record.OriginalFilename != "" {
		return a.record.OriginalFilename
	}
	return a.store.FilePath
}

// createBackup stores a timestamped copy of the record and prunes old ones
func (a *App) createBackup() {
	path := a.backupTarget()
	if a.backups == nil || path == "" {
		return
	}
	backupPath, err := a.backups.CreateBackup(a.record, path, a.sessionID)
	if err != nil {
		log.Printf("Failed to create backup: %v", err)
		return
	}
	log.Printf("Created backup %s", backupPath)
	if removed, err := a.backups.Prune(path, backupsKept); err != nil {
		log.Printf("Failed to prune backups: %v", err)
	} else if removed > 0 {
		log.Printf("Pruned %d old backups", removed)
	}
}

// handleBackupsCommand shows the backups of this file with a preview of
// what restoring each one changes
func (a *App) handleBackupsCommand() {
	path := a.backupTarget()
	if path == "" {
		a.SetStatus("No file to find backups for")
		return
	}
	if a.backups == nil {
		a.SetError("Failed to access backups")
		return
	}

	backups, err := a.backups.FindBackupsForFile(path)
	if err != nil || len(backups) == 0 {
		a.SetStatus("No backups found for this file")
		return
	}

	a.backupSelector.Show(backups, a.ctrl.Snapshot(),
		func(backup storage.BackupMetadata) {
			a.restoreBackup(backup)
		},
		func() {
			a.SetStatus("Restore cancelled")
		})
}

// restoreBackup replaces the live diagram with a backup. The file on disk
// is left alone until the next save.
func (a *App) restoreBackup(backup storage.BackupMetadata) {
	rec, err := storage.NewJSONStore(backup.FilePath).Load()
	if err != nil {
		a.SetError(fmt.Sprintf("Failed to read backup: %v", err))
		return
	}
	d, err := rec.Diagram()
	if err != nil {
		a.SetError(fmt.Sprintf("Failed to parse backup: %v", err))
		return
	}

	a.labelEditor = nil
	a.connectFrom = ""
	a.selectedEdge = ""
	if err := a.ctrl.SetData(&d); err != nil {
		a.SetError("Restored backup with problems: " + err.Error())
		return
	}

	a.SetStatus(fmt.Sprintf("Restored backup from %s", backup.Timestamp.Format("2006-01-02 15:04:05")))
}

// handleDiffCommand compares the diagram with the last saved state, or with
// another flowchart file
func (a *App) handleDiffCommand(args []string) {
	current := a.ctrl.Snapshot()

	if len(args) == 0 {
		a.diffView.Show(diff.ComputeDiff(a.lastSaved, current), "saved", "current")
		return
	}

	rec, err := storage.NewJSONStore(args[0]).Load()
	if err != nil {
		a.SetError(fmt.Sprintf("Failed to read %s: %v", args[0], err))
		return
	}
	other, err := rec.Diagram()
	if err != nil {
		a.SetError(fmt.Sprintf("Failed to parse %s: %v", args[0], err))
		return
	}
	a.diffView.Show(diff.ComputeDiff(current, other), "current", filepath.Base(args[0]))
}

// generateSessionID creates an 8-character session ID for backup naming
func generateSessionID() string {
	return uuid.NewString()[:8]
}
