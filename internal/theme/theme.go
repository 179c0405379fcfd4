package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds the terminal colours of the editor chrome
type Colors struct {
	// Canvas colors
	Background     tcell.Color
	Grid           tcell.Color
	Edge           tcell.Color
	EdgeLabel      tcell.Color
	Selection      tcell.Color
	ConnectPreview tcell.Color

	// Side panel colors
	PanelBorder  tcell.Color
	PanelTitle   tcell.Color
	PanelLabel   tcell.Color
	PanelValue   tcell.Color
	PanelActive  tcell.Color
	PanelError   tcell.Color
	TooltipText  tcell.Color
	TooltipBg    tcell.Color
	MenuText     tcell.Color
	MenuBg       tcell.Color
	MenuSelected tcell.Color

	// Command line colors
	CommandPrompt tcell.Color
	CommandText   tcell.Color

	// Help overlay colors
	HelpBackground tcell.Color
	HelpBorder     tcell.Color
	HelpTitle      tcell.Color
	HelpContent    tcell.Color

	// Status line colors
	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Background:     tcell.ColorDefault,
			Grid:           tcell.ColorDefault,
			Edge:           tcell.ColorDefault,
			EdgeLabel:      tcell.ColorDefault,
			Selection:      tcell.ColorYellow,
			ConnectPreview: tcell.ColorDefault,
			PanelBorder:    tcell.ColorDefault,
			PanelTitle:     tcell.ColorDefault,
			PanelLabel:     tcell.ColorDefault,
			PanelValue:     tcell.ColorDefault,
			PanelActive:    tcell.ColorDefault,
			PanelError:     tcell.ColorRed,
			TooltipText:    tcell.ColorDefault,
			TooltipBg:      tcell.ColorDefault,
			MenuText:       tcell.ColorDefault,
			MenuBg:         tcell.ColorDefault,
			MenuSelected:   tcell.ColorDefault,
			CommandPrompt:  tcell.ColorDefault,
			CommandText:    tcell.ColorDefault,
			HelpBackground: tcell.ColorDefault,
			HelpBorder:     tcell.ColorDefault,
			HelpTitle:      tcell.ColorDefault,
			HelpContent:    tcell.ColorDefault,
			StatusMode:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusModified: tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Background:     HexToColor("#1a1b26"), // Dark background
			Grid:           HexToColor("#24283b"),
			Edge:           HexToColor("#7dcfff"), // Cyan
			EdgeLabel:      HexToColor("#e0af68"), // Yellow
			Selection:      HexToColor("#bb9af7"), // Magenta
			ConnectPreview: HexToColor("#9ece6a"), // Green
			PanelBorder:    HexToColor("#565f89"), // Comment gray
			PanelTitle:     HexToColor("#bb9af7"),
			PanelLabel:     HexToColor("#7aa2f7"), // Blue
			PanelValue:     HexToColor("#c0caf5"), // Light gray-blue
			PanelActive:    HexToColor("#9ece6a"),
			PanelError:     HexToColor("#f7768e"), // Red
			TooltipText:    HexToColor("#1a1b26"),
			TooltipBg:      HexToColor("#e0af68"),
			MenuText:       HexToColor("#c0caf5"),
			MenuBg:         HexToColor("#24283b"),
			MenuSelected:   HexToColor("#7aa2f7"),
			CommandPrompt:  HexToColor("#bb9af7"),
			CommandText:    HexToColor("#c0caf5"),
			HelpBackground: HexToColor("#1a1b26"),
			HelpBorder:     HexToColor("#7dcfff"),
			HelpTitle:      HexToColor("#bb9af7"),
			HelpContent:    HexToColor("#c0caf5"),
			StatusMode:     HexToColor("#bb9af7"),
			StatusMessage:  HexToColor("#9ece6a"),
			StatusModified: HexToColor("#f7768e"),
		},
	}
}
