package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// Record is the host document. The diagram is kept as an opaque string.
type Record struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Flowchart        string    `json:"flowchart"`
	Modified         time.Time `json:"modified"`
	OriginalFilename string    `json:"original_filename,omitempty"`

	// Bare records were read from a plain diagram file and are written back
	// in the same format
	Bare bool `json:"-"`
}

// NewRecord creates a record holding an empty diagram
func NewRecord(title string) *Record {
	flowchart, _ := EncodeFlowchart(model.Empty())
	return &Record{
		ID:        model.NewID("rec"),
		Title:     title,
		Flowchart: flowchart,
		Modified:  time.Now(),
	}
}

// EncodeFlowchart serializes a diagram for storage. Diagrams with broken
// references are refused.
func EncodeFlowchart(d model.FlowchartData) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("refusing to store flowchart: %w", err)
	}
	data, err := json.Marshal(d.Clone())
	if err != nil {
		return "", fmt.Errorf("failed to marshal flowchart: %w", err)
	}
	return string(data), nil
}

// DecodeFlowchart parses a stored diagram. An empty string is an empty diagram.
func DecodeFlowchart(s string) (model.FlowchartData, error) {
	if s == "" {
		return model.Empty(), nil
	}
	return codeview.FromText(s)
}

// Diagram decodes the record's diagram
func (r *Record) Diagram() (model.FlowchartData, error) {
	return DecodeFlowchart(r.Flowchart)
}

// SetDiagram stores d in the record and bumps the modification time
func (r *Record) SetDiagram(d model.FlowchartData) error {
	s, err := EncodeFlowchart(d)
	if err != nil {
		return err
	}
	r.Flowchart = s
	r.Modified = time.Now()
	return nil
}
