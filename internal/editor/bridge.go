// Package editor binds the property panel buffers to the live engine node
// of the current selection.
package editor

import (
	"fmt"
	"slices"

	"github.com/pstuifzand/tui-flowchart/internal/adapter"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// Target gives the bridge access to the live engine and the selection
type Target interface {
	Engine() *engine.Engine
	Selected() string
}

// Buffers hold the values shown in the property panel
type Buffers struct {
	NodeID      string
	Type        model.FlowNodeType
	Text        string
	Description string
	FillColor   string
	StrokeColor string
	TextColor   string
	ImageURL    string
	Attachments []model.Attachment
}

// Bridge writes panel edits to the selected node. Every write is one engine
// history step, so the controller emits after each of them.
type Bridge struct {
	target   Target
	buf      Buffers
	maxBytes int64
}

// New creates a bridge. maxBytes limits the size of read files; zero
// means DefaultMaxAttachmentBytes.
func New(t Target, maxBytes int64) *Bridge {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAttachmentBytes
	}
	return &Bridge{target: t, maxBytes: maxBytes}
}

// Buffers returns a copy of the edit buffers
func (b *Bridge) Buffers() Buffers {
	buf := b.buf
	buf.Attachments = slices.Clone(b.buf.Attachments)
	return buf
}

// Open reports whether the buffers are bound to a node
func (b *Bridge) Open() bool {
	return b.buf.NodeID != ""
}

// SelectionChanged rebinds the buffers to the new selection
func (b *Bridge) SelectionChanged(id string) {
	if id == "" {
		b.Clear()
		return
	}
	b.Load(id)
}

// Load fills the buffers from the live node. Colours without an override
// show the registry default of the node's type.
func (b *Bridge) Load(id string) {
	n := b.node(id)
	if n == nil {
		b.Clear()
		return
	}
	props := adapter.DecodeProperties(n.Properties)
	t := adapter.LiveNodeType(n)
	style := theme.DefaultStyle(t)
	if props.Style != nil {
		if props.Style.Fill != "" {
			style.Fill = props.Style.Fill
		}
		if props.Style.Stroke != "" {
			style.Stroke = props.Style.Stroke
		}
	}
	textColor := props.TextColor
	if textColor == "" {
		textColor = theme.DefaultTextColor
	}
	b.buf = Buffers{
		NodeID:      n.ID,
		Type:        t,
		Text:        n.Text,
		Description: props.Description,
		FillColor:   style.Fill,
		StrokeColor: style.Stroke,
		TextColor:   textColor,
		ImageURL:    props.ImageURL,
		Attachments: props.Attachments,
	}
}

// Refresh reloads the buffers after the engine changed underneath them
func (b *Bridge) Refresh() {
	if b.buf.NodeID == "" {
		return
	}
	if b.buf.NodeID != b.target.Selected() {
		b.Clear()
		return
	}
	b.Load(b.buf.NodeID)
}

// Clear unbinds the buffers
func (b *Bridge) Clear() {
	b.buf = Buffers{}
}

func (b *Bridge) node(id string) *engine.NodeModel {
	eng := b.target.Engine()
	if eng == nil || id == "" {
		return nil
	}
	return eng.Node(id)
}

// live returns the bound node when it is still selected and alive
func (b *Bridge) live() *engine.NodeModel {
	if b.buf.NodeID == "" || b.buf.NodeID != b.target.Selected() {
		return nil
	}
	return b.node(b.buf.NodeID)
}

// UpdateText sets the node label
func (b *Bridge) UpdateText(text string) {
	n := b.live()
	if n == nil {
		return
	}
	if err := b.target.Engine().UpdateText(n.ID, text); err == nil {
		b.buf.Text = text
	}
}

// UpdateDescription sets the hover description. Empty removes it.
func (b *Bridge) UpdateDescription(desc string) {
	n := b.live()
	if n == nil {
		return
	}
	eng := b.target.Engine()
	var err error
	if desc == "" {
		err = eng.DeleteProperty(n.ID, adapter.PropDescription)
	} else {
		err = eng.SetProperties(n.ID, map[string]any{adapter.PropDescription: desc})
	}
	if err == nil {
		b.buf.Description = desc
	}
}

// UpdateFillColor sets the fill override
func (b *Bridge) UpdateFillColor(color string) error {
	hex, err := theme.NormalizeHex(color)
	if err != nil {
		return fmt.Errorf("invalid fill colour: %w", err)
	}
	b.writeStyle(theme.NodeStyle{Fill: hex, Stroke: b.buf.StrokeColor})
	return nil
}

// UpdateStrokeColor sets the stroke override
func (b *Bridge) UpdateStrokeColor(color string) error {
	hex, err := theme.NormalizeHex(color)
	if err != nil {
		return fmt.Errorf("invalid stroke colour: %w", err)
	}
	b.writeStyle(theme.NodeStyle{Fill: b.buf.FillColor, Stroke: hex})
	return nil
}

func (b *Bridge) writeStyle(s theme.NodeStyle) {
	n := b.live()
	if n == nil {
		return
	}
	eng := b.target.Engine()
	if err := eng.SetProperties(n.ID, map[string]any{adapter.PropStyle: adapter.EncodeStyle(s)}); err != nil {
		return
	}
	eng.Amend(func() {
		eng.SetNodeStyle(n.ID, engine.Style{Fill: s.Fill, Stroke: s.Stroke})
	})
	b.buf.FillColor = s.Fill
	b.buf.StrokeColor = s.Stroke
}

// UpdateTextColor sets the label colour. The rendered text style is
// written as well since the engine does not derive it from properties.
func (b *Bridge) UpdateTextColor(color string) error {
	hex, err := theme.NormalizeHex(color)
	if err != nil {
		return fmt.Errorf("invalid text colour: %w", err)
	}
	n := b.live()
	if n == nil {
		return nil
	}
	eng := b.target.Engine()
	if err := eng.SetProperties(n.ID, map[string]any{adapter.PropTextColor: hex}); err != nil {
		return nil
	}
	eng.Amend(func() {
		eng.SetTextStyle(n.ID, hex)
	})
	b.buf.TextColor = hex
	return nil
}

// UpdateImage sets the image data URL. Empty removes the image.
func (b *Bridge) UpdateImage(url string) {
	n := b.live()
	if n == nil {
		return
	}
	eng := b.target.Engine()
	var err error
	if url == "" {
		err = eng.DeleteProperty(n.ID, adapter.PropImageURL)
	} else {
		err = eng.SetProperties(n.ID, map[string]any{adapter.PropImageURL: url})
	}
	if err == nil {
		b.buf.ImageURL = url
	}
}

// AddAttachment appends a read file to the node's attachments
func (b *Bridge) AddAttachment(f DataFile) (model.Attachment, bool) {
	n := b.live()
	if n == nil {
		return model.Attachment{}, false
	}
	att := model.Attachment{
		ID:   model.NewID("att"),
		Name: f.Name,
		Type: f.Kind,
		URL:  f.URL,
	}
	atts := append(slices.Clone(b.buf.Attachments), att)
	if !b.writeAttachments(n.ID, atts) {
		return model.Attachment{}, false
	}
	return att, true
}

// RemoveAttachment drops an attachment by id
func (b *Bridge) RemoveAttachment(id string) bool {
	n := b.live()
	if n == nil {
		return false
	}
	i := slices.IndexFunc(b.buf.Attachments, func(a model.Attachment) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	atts := slices.Delete(slices.Clone(b.buf.Attachments), i, i+1)
	return b.writeAttachments(n.ID, atts)
}

func (b *Bridge) writeAttachments(id string, atts []model.Attachment) bool {
	eng := b.target.Engine()
	var err error
	if len(atts) == 0 {
		err = eng.DeleteProperty(id, adapter.PropAttachments)
	} else {
		err = eng.SetProperties(id, map[string]any{adapter.PropAttachments: adapter.EncodeAttachments(atts)})
	}
	if err != nil {
		return false
	}
	b.buf.Attachments = atts
	return true
}
