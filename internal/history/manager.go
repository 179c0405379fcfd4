package history

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// CommandFile is where the ":" command line keeps its history
const CommandFile = "commands.toml"

// Manager handles loading and saving history to TOML files
type Manager struct {
	historyDir string
	limit      int
}

// HistoryFile represents the structure of a history TOML file
type HistoryFile struct {
	Entries []string `toml:"entries"`
}

// NewManager creates a history manager in ~/.local/share/tui-flowchart/history/
func NewManager(limit int) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return NewManagerIn(filepath.Join(homeDir, ".local", "share", "tui-flowchart", "history"), limit)
}

// NewManagerIn creates a history manager storing files in dir. A limit of
// zero or less keeps every entry.
func NewManagerIn(dir string, limit int) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Manager{
		historyDir: dir,
		limit:      limit,
	}, nil
}

// Load loads history entries from a TOML file
func (m *Manager) Load(filename string) ([]string, error) {
	filePath := filepath.Join(m.historyDir, filename)

	// If file doesn't exist, return empty slice
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var histFile HistoryFile
	if err := toml.Unmarshal(data, &histFile); err != nil {
		// Corrupted files are treated as empty
		return []string{}, nil
	}

	return histFile.Entries, nil
}

// Save saves history entries to a TOML file, keeping the newest entries
// when there are more than the limit
func (m *Manager) Save(filename string, entries []string) error {
	filePath := filepath.Join(m.historyDir, filename)

	if m.limit > 0 && len(entries) > m.limit {
		entries = entries[len(entries)-m.limit:]
	}

	histFile := HistoryFile{
		Entries: entries,
	}

	data, err := toml.Marshal(histFile)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0o644)
}

// Append adds entry to the end of entries. A repeat of the last entry and
// blank entries are dropped.
func Append(entries []string, entry string) []string {
	if entry == "" {
		return entries
	}
	if n := len(entries); n > 0 && entries[n-1] == entry {
		return entries
	}
	return append(entries, entry)
}
