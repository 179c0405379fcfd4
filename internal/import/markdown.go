package import_parser

import (
	"bufio"
	"strings"
)

// MarkdownParser imports markdown headers and lists
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

// Parse converts markdown content to outline items. Headers nest by their
// level, list items nest by indentation below the last header.
func (p *MarkdownParser) Parse(content string) ([]*Item, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var rootItems []*Item
	var headers []*Item // Open header at each level
	var list []*Item    // Open list item at each indentation level

	add := func(parent, item *Item) {
		if parent == nil {
			rootItems = append(rootItems, item)
			return
		}
		parent.Children = append(parent.Children, item)
	}
	top := func(stack []*Item) *Item {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Skip empty lines
		if strings.TrimSpace(line) == "" {
			continue
		}

		if level, text := parseHeader(line); level >= 0 {
			item := &Item{Text: text}
			headers = headers[:min(level, len(headers))]
			add(top(headers), item)
			headers = append(headers, item)
			list = nil
			continue
		}

		if level, text := parseListItem(line); level >= 0 {
			item := &Item{Text: text}
			list = list[:min(level, len(list))]
			parent := top(list)
			if parent == nil {
				parent = top(headers)
			}
			add(parent, item)
			list = append(list, item)
			continue
		}

		// Plain text - child of the open list item or header
		parent := top(list)
		if parent == nil {
			parent = top(headers)
		}
		add(parent, &Item{Text: strings.TrimSpace(line)})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rootItems, nil
}

// parseHeader extracts level and text from markdown header
func parseHeader(line string) (level int, text string) {
	for level < len(line) && line[level] == '#' {
		level++
	}

	text = strings.TrimSpace(line[level:])
	if level == 0 || text == "" {
		return -1, ""
	}
	return level - 1, text // Convert to 0-based level
}

// parseListItem extracts indentation level and text from list item
func parseListItem(line string) (level int, text string) {
	indent := countIndent(line)
	trimmed := strings.TrimSpace(line)

	// Check for list markers
	if len(trimmed) > 2 && (trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+') && trimmed[1] == ' ' {
		return indent / 2, strings.TrimSpace(trimmed[2:]) // 2 spaces per level
	}

	return -1, ""
}
