package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

func diagram() model.FlowchartData {
	return model.FlowchartData{
		Nodes: []model.FlowNode{
			{ID: "a", Type: model.NodeStart, Text: "开始", Width: 120, Height: 50},
			{ID: "b", Type: model.NodeEnd, Text: "结束", Y: 100, Width: 120, Height: 50},
		},
		Connections: []model.FlowConnection{
			{ID: "c", From: model.Endpoint{NodeID: "a"}, To: model.Endpoint{NodeID: "b"}, Text: "done"},
		},
	}
}

func TestLoadMissingFileGivesNewRecord(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "plan.json"))
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Title != "plan" {
		t.Errorf("Expected title 'plan', got '%s'", rec.Title)
	}
	if rec.ID == "" {
		t.Errorf("New record should have an ID")
	}

	d, err := rec.Diagram()
	if err != nil {
		t.Fatalf("Diagram failed: %v", err)
	}
	if len(d.Nodes) != 0 || len(d.Connections) != 0 {
		t.Errorf("Expected an empty diagram, got %+v", d)
	}
	if store.FileExists() {
		t.Errorf("Load must not create the file")
	}
}

func TestSaveAndLoadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "plan.json")
	store := NewJSONStore(path)

	rec := NewRecord("Plan")
	if err := rec.SetDiagram(diagram()); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.FileExists() {
		t.Fatalf("Expected %s to exist after save", path)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != rec.ID {
		t.Errorf("Expected ID '%s', got '%s'", rec.ID, loaded.ID)
	}
	if loaded.Title != "Plan" {
		t.Errorf("Expected title 'Plan', got '%s'", loaded.Title)
	}
	if loaded.Bare {
		t.Errorf("A saved record should not load as bare")
	}

	d, err := loaded.Diagram()
	if err != nil {
		t.Fatalf("Diagram failed: %v", err)
	}
	if !model.Equal(diagram(), d) {
		t.Errorf("Diagram changed across save and load: %+v", d)
	}
}

func TestBareDiagramFileKeepsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowchart.json")
	if err := os.WriteFile(path, []byte(`{"nodes": [], "connections": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !rec.Bare {
		t.Errorf("Expected a bare record")
	}
	if rec.Title != "flowchart" {
		t.Errorf("Expected title 'flowchart', got '%s'", rec.Title)
	}

	if err := rec.SetDiagram(diagram()); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	d, err := DecodeFlowchart(string(data))
	if err != nil {
		t.Fatalf("Saved bare file is not a diagram: %v", err)
	}
	if !model.Equal(diagram(), d) {
		t.Errorf("Diagram changed across save: %+v", d)
	}
}

func TestLoadRejectsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"garbage.json":  "not json",
		"shape.json":    `{"nodes": {}, "connections": []}`,
		"embedded.json": `{"id": "r", "title": "t", "flowchart": "[1,2]"}`,
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewJSONStore(path).Load(); err == nil {
			t.Errorf("%s: expected a load error", name)
		}
	}
}

func TestEncodeFlowchartValidates(t *testing.T) {
	d := diagram()
	d.Connections[0].To.NodeID = "gone"
	_, err := EncodeFlowchart(d)
	var integrity *model.IntegrityError
	if !errors.As(err, &integrity) {
		t.Errorf("Expected an IntegrityError, got %v", err)
	}

	rec := NewRecord("x")
	before := rec.Flowchart
	if err := rec.SetDiagram(d); err == nil {
		t.Errorf("SetDiagram should reject a dangling connection")
	}
	if rec.Flowchart != before {
		t.Errorf("A rejected diagram must leave the record alone")
	}
}

func TestSaveRefusesReadOnly(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "plan.json"))
	store.ReadOnly = true
	if err := store.Save(NewRecord("x")); err == nil {
		t.Errorf("Expected read-only store to refuse saving")
	}
}
