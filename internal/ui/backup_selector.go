package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/diff"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/storage"
)

// BackupSelectorWidget allows users to pick a backup with a side-by-side diff preview
type BackupSelectorWidget struct {
	visible       bool
	backups       []storage.BackupMetadata
	selectedIndex int
	scrollOffset  int
	maxHeight     int

	current  model.FlowchartData
	callback func(backup storage.BackupMetadata)
	onCancel func()

	// Diff preview state
	diagrams         []*model.FlowchartData // Decoded backups, nil when unreadable
	diffResults      map[int]*diff.DiffResult
	diffLines        []diff.DiffLine
	diffScrollOffset int

	// Range selection state
	visualMode     bool
	selectionStart int

	// Backups are displayed newest first unless reversed is false
	reversed bool
}

// NewBackupSelectorWidget creates a new backup selector widget
func NewBackupSelectorWidget() *BackupSelectorWidget {
	return &BackupSelectorWidget{
		diffResults: make(map[int]*diff.DiffResult),
		reversed:    true,
	}
}

// Show displays the selector. backups are ordered oldest first as returned
// by the backup manager. The preview shows what restoring each backup
// changes relative to current.
func (bs *BackupSelectorWidget) Show(backups []storage.BackupMetadata, current model.FlowchartData, callback func(storage.BackupMetadata), onCancel func()) {
	if len(backups) == 0 {
		return
	}

	bs.backups = backups
	bs.current = current
	bs.callback = callback
	bs.onCancel = onCancel
	bs.selectedIndex = 0
	bs.scrollOffset = 0
	bs.diffScrollOffset = 0
	bs.visualMode = false
	bs.diffResults = make(map[int]*diff.DiffResult)
	bs.visible = true

	bs.preloadAllDiffs()
	bs.updateDiffPreview()
}

// Hide closes the backup selector
func (bs *BackupSelectorWidget) Hide() {
	bs.visible = false
}

// IsVisible returns whether the widget is currently visible
func (bs *BackupSelectorWidget) IsVisible() bool {
	return bs.visible
}

// Selected returns the backup under the cursor
func (bs *BackupSelectorWidget) Selected() (storage.BackupMetadata, bool) {
	if bs.selectedIndex < 0 || bs.selectedIndex >= len(bs.backups) {
		return storage.BackupMetadata{}, false
	}
	return bs.backups[bs.actualIndex(bs.selectedIndex)], true
}

// DiffLines returns the preview lines of the current selection
func (bs *BackupSelectorWidget) DiffLines() []diff.DiffLine {
	return bs.diffLines
}

func (bs *BackupSelectorWidget) preloadAllDiffs() {
	bs.diagrams = make([]*model.FlowchartData, len(bs.backups))
	for i, b := range bs.backups {
		rec, err := storage.NewJSONStore(b.FilePath).Load()
		if err != nil {
			continue
		}
		d, err := rec.Diagram()
		if err != nil {
			continue
		}
		bs.diagrams[i] = &d
		bs.diffResults[i] = diff.ComputeDiff(bs.current, d)
	}
}

func (bs *BackupSelectorWidget) updateDiffPreview() {
	bs.diffScrollOffset = 0
	if bs.visualMode {
		bs.updateVisualModeDiff()
		return
	}
	result, ok := bs.diffResults[bs.actualIndex(bs.selectedIndex)]
	if !ok {
		bs.diffLines = []diff.DiffLine{{Type: diff.DiffTypeHeader, Content: "(backup could not be read)"}}
		return
	}
	bs.loadDiffResult(result)
}

// updateVisualModeDiff shows the changes between the oldest and newest backup of the range
func (bs *BackupSelectorWidget) updateVisualModeDiff() {
	a := bs.actualIndex(bs.selectionStart)
	b := bs.actualIndex(bs.selectedIndex)
	if a > b {
		a, b = b, a
	}
	if bs.diagrams[a] == nil || bs.diagrams[b] == nil {
		bs.diffLines = nil
		return
	}
	bs.loadDiffResult(diff.ComputeDiff(*bs.diagrams[a], *bs.diagrams[b]))
}

func (bs *BackupSelectorWidget) loadDiffResult(result *diff.DiffResult) {
	bs.diffLines = bs.diffLines[:0]
	for _, line := range diff.BuildDiffLines(result, false) {
		if line.Type != diff.DiffTypeSummary {
			bs.diffLines = append(bs.diffLines, line)
		}
	}
}

// HandleKeyEvent processes keyboard input
func (bs *BackupSelectorWidget) HandleKeyEvent(ev *tcell.EventKey) {
	if !bs.visible {
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if bs.visualMode {
			bs.visualMode = false
			bs.updateDiffPreview()
			return
		}
		bs.Hide()
		if bs.onCancel != nil {
			bs.onCancel()
		}
	case tcell.KeyUp:
		bs.move(-1)
	case tcell.KeyDown:
		bs.move(1)
	case tcell.KeyHome:
		bs.move(-len(bs.backups))
	case tcell.KeyEnd:
		bs.move(len(bs.backups))
	case tcell.KeyPgUp:
		bs.diffScrollOffset = max(0, bs.diffScrollOffset-bs.pageSize())
	case tcell.KeyPgDn:
		bs.diffScrollOffset = max(0, min(bs.diffScrollOffset+bs.pageSize(), len(bs.diffLines)-bs.pageSize()))
	case tcell.KeyEnter:
		backup, ok := bs.Selected()
		if !ok {
			return
		}
		bs.Hide()
		if bs.callback != nil {
			bs.callback(backup)
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			bs.move(1)
		case 'k':
			bs.move(-1)
		case 'q':
			bs.Hide()
			if bs.onCancel != nil {
				bs.onCancel()
			}
		case 'V':
			bs.visualMode = !bs.visualMode
			bs.selectionStart = bs.selectedIndex
			bs.updateDiffPreview()
		case 'R':
			bs.reversed = !bs.reversed
			bs.visualMode = false
			bs.selectedIndex = 0
			bs.scrollOffset = 0
			bs.updateDiffPreview()
		}
	}
}

func (bs *BackupSelectorWidget) move(delta int) {
	idx := max(0, min(bs.selectedIndex+delta, len(bs.backups)-1))
	if idx == bs.selectedIndex {
		return
	}
	bs.selectedIndex = idx
	bs.ensureSelected()
	bs.updateDiffPreview()
}

func (bs *BackupSelectorWidget) pageSize() int {
	return max(1, (bs.maxHeight-6)/2)
}

// ensureSelected keeps the selected entry inside the viewport
func (bs *BackupSelectorWidget) ensureSelected() {
	viewHeight := max(1, bs.maxHeight-8)
	if bs.selectedIndex < bs.scrollOffset {
		bs.scrollOffset = bs.selectedIndex
	} else if bs.selectedIndex >= bs.scrollOffset+viewHeight {
		bs.scrollOffset = bs.selectedIndex - viewHeight + 1
	}
}

// actualIndex converts a display index to the backup index
func (bs *BackupSelectorWidget) actualIndex(displayIdx int) int {
	if bs.reversed {
		return len(bs.backups) - 1 - displayIdx
	}
	return displayIdx
}

func (bs *BackupSelectorWidget) inRange(displayIdx int) bool {
	if !bs.visualMode {
		return false
	}
	lo, hi := min(bs.selectionStart, bs.selectedIndex), max(bs.selectionStart, bs.selectedIndex)
	return displayIdx >= lo && displayIdx <= hi
}

// Render draws the backup list and diff preview side by side
func (bs *BackupSelectorWidget) Render(screen *Screen) {
	if !bs.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()
	bs.maxHeight = height

	boxHeight := height - 4
	leftWidth := width / 2
	rightWidth := width - leftWidth
	if leftWidth < 20 || rightWidth < 20 || boxHeight < 5 {
		return
	}

	bs.renderLeftPanel(screen, 1, 2, leftWidth-1, boxHeight)
	bs.renderRightPanel(screen, leftWidth+1, 2, rightWidth-2, boxHeight)
}

func (bs *BackupSelectorWidget) renderLeftPanel(screen *Screen, x, y, width, height int) {
	screen.Fill(x, y, width, height, screen.PanelStyle())
	screen.DrawBox(x, y, width, height, screen.PanelBorderStyle())
	screen.DrawStringLimited(x+2, y, fmt.Sprintf(" Backups (%d) ", len(bs.backups)), width-4, screen.PanelTitleStyle())

	rows := height - 4
	for i := 0; i < rows; i++ {
		displayIdx := bs.scrollOffset + i
		if displayIdx >= len(bs.backups) {
			break
		}
		bs.renderBackupLine(screen, x+1, y+2+i, width-2, displayIdx)
	}

	footer := "j/k: select | V: range | Enter: restore | Esc: cancel"
	screen.DrawStringLimited(x+1, y+height-2, footer, width-2, screen.PanelLabelStyle())
}

func (bs *BackupSelectorWidget) renderBackupLine(screen *Screen, x, y, width, displayIdx int) {
	actualIdx := bs.actualIndex(displayIdx)
	backup := bs.backups[actualIdx]

	sessionID := backup.SessionID
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}

	prefix := "  "
	style := screen.PanelStyle()
	switch {
	case displayIdx == bs.selectedIndex:
		prefix = "> "
		style = screen.PanelActiveStyle()
	case bs.inRange(displayIdx):
		prefix = "* "
		style = screen.PanelLabelStyle()
	}

	line := fmt.Sprintf("%s#%d %s (%s)", prefix, actualIdx+1, backup.Timestamp.Format("2006-01-02 15:04:05"), sessionID)
	col := x + screen.DrawStringLimited(x, y, line, width, style)

	result, ok := bs.diffResults[actualIdx]
	if !ok {
		screen.DrawStringLimited(col, y, " unreadable", x+width-col, screen.PanelErrorStyle())
		return
	}
	stats := []struct {
		format string
		count  int
		style  tcell.Style
	}{
		{" +%d", len(result.NewNodes) + len(result.NewConnections), screen.ConnectPreviewStyle()},
		{" ~%d", len(result.ModifiedNodes) + len(result.ModifiedConnections), screen.SelectionStyle()},
		{" -%d", len(result.DeletedNodes) + len(result.DeletedConnections), screen.PanelErrorStyle()},
	}
	for _, s := range stats {
		if s.count == 0 {
			continue
		}
		col += screen.DrawStringLimited(col, y, fmt.Sprintf(s.format, s.count), x+width-col, s.style)
	}
}

func (bs *BackupSelectorWidget) renderRightPanel(screen *Screen, x, y, width, height int) {
	screen.Fill(x, y, width, height, screen.PanelStyle())
	screen.DrawBox(x, y, width, height, screen.PanelBorderStyle())

	header := " Restore changes "
	if bs.visualMode {
		header = " Changes in range "
	}
	if backup, ok := bs.Selected(); ok {
		header += backup.Timestamp.Format("15:04:05") + " "
	}
	screen.DrawStringLimited(x+2, y, header, width-4, screen.PanelTitleStyle())

	lines := bs.diffLines[min(bs.diffScrollOffset, len(bs.diffLines)):]
	renderDiffLines(screen, x+1, y+2, width-2, height-4, lines)

	screen.DrawStringLimited(x+1, y+height-2, "PgUp/PgDn: scroll | R: order", width-2, screen.PanelLabelStyle())
}
