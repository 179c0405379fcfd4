// Package import_parser turns Markdown and indented text outlines into
// flowcharts
package import_parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
	FormatAuto         ImportFormat = "auto" // Auto-detect from extension
)

// Item is one line of an outline with the lines nested below it
type Item struct {
	Text     string
	Children []*Item
}

// Parser interface for different import formats
type Parser interface {
	Parse(content string) ([]*Item, error)
	Name() string
}

// ImportFile parses an outline and lays it out as a flowchart
func ImportFile(content string, format ImportFormat) (model.FlowchartData, error) {
	var parser Parser

	switch format {
	case FormatMarkdown:
		parser = &MarkdownParser{}
	case FormatIndentedText:
		parser = &IndentedTextParser{}
	default:
		return model.FlowchartData{}, fmt.Errorf("unsupported import format: %s", format)
	}

	items, err := parser.Parse(content)
	if err != nil {
		return model.FlowchartData{}, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	if len(items) == 0 {
		return model.FlowchartData{}, fmt.Errorf("parse error (%s): no items", parser.Name())
	}

	return ToFlowchart(items), nil
}

// DetectFormat picks the format from the file extension
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}

	// Default to indented text
	return FormatIndentedText
}
