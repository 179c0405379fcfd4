package codeview

import (
	"github.com/pstuifzand/tui-flowchart/internal/controller"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// Loader replaces the live diagram and switches the view mode
type Loader interface {
	SetData(d *model.FlowchartData) error
	SetMode(m controller.ViewMode)
}

// View holds the code editor and import buffers with their inline errors
type View struct {
	loader Loader

	Code        string
	CodeError   string
	ImportText  string
	ImportError string
}

// NewView creates a view replacing diagrams through l
func NewView(l Loader) *View {
	return &View{loader: l}
}

// OpenCode shows the code view seeded with the current diagram
func (v *View) OpenCode(current model.FlowchartData) {
	v.Code = ToText(current)
	v.CodeError = ""
	v.loader.SetMode(controller.ViewCode)
}

// ApplyCode replaces the diagram with the edited text. On error the text
// is kept and the diagram is left alone. The view stays in code mode.
func (v *View) ApplyCode(text string) error {
	v.Code = text
	d, err := decode(text)
	if err == nil {
		err = v.loader.SetData(&d)
	}
	if err != nil {
		v.CodeError = err.Error()
		return err
	}
	v.CodeError = ""
	return nil
}

// Sync reseeds the code buffer from the diagram unless it holds an
// unapplied broken edit
func (v *View) Sync(current model.FlowchartData) {
	if v.CodeError != "" {
		return
	}
	v.Code = ToText(current)
}

// CloseCode returns to the canvas
func (v *View) CloseCode() {
	v.CodeError = ""
	v.loader.SetMode(controller.ViewVisual)
}

// Import replaces the diagram with pasted text and switches to the canvas
func (v *View) Import(text string) error {
	v.ImportText = text
	d, err := decode(text)
	if err == nil {
		err = v.loader.SetData(&d)
	}
	if err != nil {
		v.ImportError = err.Error()
		return err
	}
	v.ImportText = ""
	v.ImportError = ""
	v.loader.SetMode(controller.ViewVisual)
	return nil
}

// decode parses text and refuses diagrams with duplicate ids or connections
// to missing nodes before anything is replaced
func decode(text string) (model.FlowchartData, error) {
	d, err := FromText(text)
	if err != nil {
		return d, err
	}
	if err := d.Validate(); err != nil {
		return model.FlowchartData{}, err
	}
	return d, nil
}
