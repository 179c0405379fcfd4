package import_parser

import (
	"bufio"
	"strings"
)

// IndentedTextParser imports plain text files with indentation-based hierarchy
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

// Parse converts indented text to outline items
func (p *IndentedTextParser) Parse(content string) ([]*Item, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var rootItems []*Item
	var stack []*Item // Stack to track parent at each indentation level

	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)

		// Skip empty lines
		if text == "" {
			continue
		}

		item := &Item{Text: text}
		level := min(countIndent(line)/2, len(stack))

		// Pop back to the parent of this level
		stack = stack[:level]
		if len(stack) == 0 {
			rootItems = append(rootItems, item)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, item)
		}
		stack = append(stack, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rootItems, nil
}

// countIndent counts leading whitespace, a tab being 2 spaces
func countIndent(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\t':
			indent += 2
		case ' ':
			indent++
		default:
			return indent
		}
	}
	return indent
}
