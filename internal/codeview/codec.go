// Package codeview converts diagrams to and from their JSON text and keeps
// the state of the code and import views.
package codeview

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// Only the top-level shape is checked. Node and connection fields are left
// to the adapter.
const flowchartSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "tuf://schemas/flowchart.json",
  "type": "object",
  "required": ["nodes", "connections"],
  "properties": {
    "nodes": { "type": "array" },
    "connections": { "type": "array" }
  }
}`

const schemaURL = "tuf://schemas/flowchart.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(flowchartSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ParseError reports text that is not a flowchart
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ToText serializes d as indented JSON
func ToText(d model.FlowchartData) string {
	data, err := json.MarshalIndent(d.Clone(), "", "  ")
	if err != nil {
		// FlowchartData holds only strings and numbers
		panic(err)
	}
	return string(data)
}

// FromText parses a diagram. It fails with *ParseError unless the text is
// JSON with array-valued nodes and connections.
func FromText(text string) (model.FlowchartData, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return model.FlowchartData{}, &ParseError{Reason: "not valid JSON", Err: err}
	}
	s, err := compiledSchema()
	if err != nil {
		return model.FlowchartData{}, &ParseError{Reason: "schema unavailable", Err: err}
	}
	if err := s.Validate(doc); err != nil {
		return model.FlowchartData{}, &ParseError{Reason: "expected an object with nodes and connections arrays", Err: err}
	}

	var d model.FlowchartData
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return model.FlowchartData{}, &ParseError{Reason: "invalid field value", Err: err}
	}
	return d.Clone(), nil
}
