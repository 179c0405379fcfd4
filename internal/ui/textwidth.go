package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width helpers work in display columns, not bytes. Node labels are often
// CJK, which takes two columns per rune.

// RuneWidth returns the display width of a single rune. Control and
// combining characters have width 0.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth columns without splitting runes
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return s[:i]
		}
		width += rw
	}
	return s
}

// TruncateToWidthWithEllipsis truncates s with "…" if it exceeds maxWidth
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return TruncateToWidth(s, maxWidth)
	}
	return TruncateToWidth(s, maxWidth-1) + "…"
}

// PadStringToWidth pads s with spaces to width columns
func PadStringToWidth(s string, width int) string {
	if pad := width - StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// CenterOffset returns the column at which s starts when centred in width
func CenterOffset(s string, width int) int {
	off := (width - StringWidth(s)) / 2
	if off < 0 {
		return 0
	}
	return off
}

// WrapToWidth breaks s into lines of at most maxWidth columns, preferring
// spaces. Explicit newlines are kept. CJK text breaks between any runes.
func WrapToWidth(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, maxWidth)...)
	}
	return lines
}

func wrapLine(s string, maxWidth int) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	runes := []rune(s)
	for len(runes) > 0 {
		width := 0
		cut := len(runes)
		lastSpace := -1
		for i, r := range runes {
			if r == ' ' {
				lastSpace = i
			}
			rw := RuneWidth(r)
			if width+rw > maxWidth {
				cut = i
				break
			}
			width += rw
		}
		if cut == len(runes) {
			lines = append(lines, string(runes))
			break
		}
		if lastSpace > 0 {
			cut = lastSpace
		}
		if cut == 0 {
			// A single rune wider than the line
			cut = 1
		}
		lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	return lines
}

// ColumnToRuneIndex maps a display column within s to a rune index
func ColumnToRuneIndex(s string, col int) int {
	if col <= 0 {
		return 0
	}
	width := 0
	for i, r := range []rune(s) {
		if width >= col {
			return i
		}
		width += RuneWidth(r)
	}
	return len([]rune(s))
}
