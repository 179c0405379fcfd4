package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// expandShortHex turns #RGB into #RRGGBB
func expandShortHex(hexColor string) string {
	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}
	return "#" + hexColor
}

// ParseColor handles #RRGGBB, #RGB and rgb(r,g,b)
func ParseColor(colorStr string) (colorful.Color, error) {
	colorStr = strings.TrimSpace(strings.ToLower(colorStr))

	if strings.HasPrefix(colorStr, "#") {
		hex := expandShortHex(colorStr)
		if len(hex) != 7 {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q", colorStr)
		}
		return colorful.Hex(hex)
	}

	if strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(colorStr, "rgb("), ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return colorful.Color{}, fmt.Errorf("invalid rgb color %q", colorStr)
		}
		var rgb [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return colorful.Color{}, fmt.Errorf("invalid rgb component %q", p)
			}
			rgb[i] = v
		}
		return colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}, nil
	}

	return colorful.Color{}, fmt.Errorf("unsupported color format %q", colorStr)
}

// NormalizeHex validates a colour and returns it as lowercase #rrggbb
func NormalizeHex(colorStr string) (string, error) {
	c, err := ParseColor(colorStr)
	if err != nil {
		return "", err
	}
	return c.Clamped().Hex(), nil
}

// HexToColor converts a colour string to tcell.Color, or ColorDefault when it does not parse
func HexToColor(colorStr string) tcell.Color {
	c, err := ParseColor(colorStr)
	if err != nil {
		return tcell.ColorDefault
	}
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ContrastText picks black or white text for a background colour
func ContrastText(background string) string {
	c, err := ParseColor(background)
	if err != nil {
		return DefaultTextColor
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

// ColorToStyle creates a style with a specific foreground color
func ColorToStyle(fgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor)
}

// ColorPairToStyle creates a style with specific foreground and background colors
func ColorPairToStyle(fgColor, bgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor).Background(bgColor)
}
