package theme

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	paths := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tui-flowchart", "themes"),
			filepath.Join(home, ".local", "share", "tui-flowchart", "themes"),
		)
	}

	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// colorSlots maps TOML keys to the struct fields they override
func colorSlots(c *Colors) map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"background":      &c.Background,
		"grid":            &c.Grid,
		"edge":            &c.Edge,
		"edge_label":      &c.EdgeLabel,
		"selection":       &c.Selection,
		"connect_preview": &c.ConnectPreview,
		"panel_border":    &c.PanelBorder,
		"panel_title":     &c.PanelTitle,
		"panel_label":     &c.PanelLabel,
		"panel_value":     &c.PanelValue,
		"panel_active":    &c.PanelActive,
		"panel_error":     &c.PanelError,
		"tooltip_text":    &c.TooltipText,
		"tooltip_bg":      &c.TooltipBg,
		"menu_text":       &c.MenuText,
		"menu_bg":         &c.MenuBg,
		"menu_selected":   &c.MenuSelected,
		"command_prompt":  &c.CommandPrompt,
		"command_text":    &c.CommandText,
		"help_background": &c.HelpBackground,
		"help_border":     &c.HelpBorder,
		"help_title":      &c.HelpTitle,
		"help_content":    &c.HelpContent,
		"status_mode":     &c.StatusMode,
		"status_message":  &c.StatusMessage,
		"status_modified": &c.StatusModified,
	}
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo Night for missing colors
func configToTheme(config ThemeConfig) *Theme {
	base := TokyoNight()

	slots := colorSlots(&base.Colors)
	for key, value := range config.Colors {
		slot, ok := slots[key]
		if !ok {
			log.Printf("Unknown theme color %q ignored", key)
			continue
		}
		if _, err := ParseColor(value); err != nil {
			log.Printf("Invalid theme color %s=%q: %v", key, value, err)
			continue
		}
		*slot = HexToColor(value)
	}

	if config.Name != "" {
		base.Name = config.Name
	}

	return base
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if themeName == "default" {
		return Default()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
