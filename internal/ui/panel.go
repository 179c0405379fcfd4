package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/editor"
)

// PanelField is one row of the property panel
type PanelField int

const (
	FieldType PanelField = iota
	FieldText
	FieldDescription
	FieldFill
	FieldStroke
	FieldTextColor
	FieldImage
	FieldAttachments
	fieldCount
)

var fieldLabels = [...]string{
	FieldType:        "Type",
	FieldText:        "Text",
	FieldDescription: "Description",
	FieldFill:        "Fill",
	FieldStroke:      "Stroke",
	FieldTextColor:   "Text colour",
	FieldImage:       "Image",
	FieldAttachments: "Attachments",
}

func (f PanelField) String() string {
	if f < 0 || f >= fieldCount {
		return "?"
	}
	return fieldLabels[f]
}

// PanelWidth is the number of columns the panel takes on the right
const PanelWidth = 34

// PropertyPanel shows and edits the selected node through the editor bridge
type PropertyPanel struct {
	bridge *editor.Bridge
	focus  PanelField
	attIdx int
	editor *Editor
	err    string
}

// NewPropertyPanel creates a panel editing through b
func NewPropertyPanel(b *editor.Bridge) *PropertyPanel {
	return &PropertyPanel{bridge: b, focus: FieldText}
}

// IsOpen reports whether a node is bound
func (p *PropertyPanel) IsOpen() bool {
	return p.bridge.Open()
}

// Focus returns the focused field
func (p *PropertyPanel) Focus() PanelField {
	return p.focus
}

// Error returns the last rejected edit, if any
func (p *PropertyPanel) Error() string {
	return p.err
}

// NextField moves the focus down, wrapping around
func (p *PropertyPanel) NextField() {
	p.focus = (p.focus + 1) % fieldCount
	p.attIdx = 0
}

// PrevField moves the focus up, wrapping around
func (p *PropertyPanel) PrevField() {
	p.focus = (p.focus + fieldCount - 1) % fieldCount
	p.attIdx = 0
}

// IsEditing reports whether a field editor is active
func (p *PropertyPanel) IsEditing() bool {
	return p.editor != nil && p.editor.IsActive()
}

func (p *PropertyPanel) value(f PanelField) string {
	buf := p.bridge.Buffers()
	switch f {
	case FieldType:
		return string(buf.Type)
	case FieldText:
		return buf.Text
	case FieldDescription:
		return buf.Description
	case FieldFill:
		return buf.FillColor
	case FieldStroke:
		return buf.StrokeColor
	case FieldTextColor:
		return buf.TextColor
	case FieldImage:
		return buf.ImageURL
	}
	return ""
}

// BeginEdit opens an editor on the focused field. Type and the attachment
// list are not editable in place; neither is a multi-line description.
func (p *PropertyPanel) BeginEdit() bool {
	if !p.IsOpen() {
		return false
	}
	switch p.focus {
	case FieldType, FieldAttachments:
		return false
	case FieldDescription:
		if strings.Contains(p.value(FieldDescription), "\n") {
			p.err = "multi-line description, press E to edit it externally"
			return false
		}
	case FieldImage:
		if strings.HasPrefix(p.value(FieldImage), "data:") {
			// Embedded images are replaced with :image, not retyped
			p.editor = NewEditor("")
			p.editor.Start()
			return true
		}
	}
	p.err = ""
	p.editor = NewEditor(p.value(p.focus))
	p.editor.Start()
	return true
}

// HandleKey feeds the active field editor. It returns true when the key
// was consumed.
func (p *PropertyPanel) HandleKey(ev *tcell.EventKey) bool {
	if !p.IsEditing() {
		return false
	}
	if p.editor.HandleKey(ev) {
		return true
	}
	if ev.Key() == tcell.KeyEscape {
		p.editor.Cancel()
		p.editor = nil
		return true
	}
	p.commit(p.editor.Stop())
	p.editor = nil
	return true
}

func (p *PropertyPanel) commit(value string) {
	var err error
	switch p.focus {
	case FieldText:
		p.bridge.UpdateText(value)
	case FieldDescription:
		p.bridge.UpdateDescription(strings.TrimSpace(value))
	case FieldFill:
		err = p.bridge.UpdateFillColor(value)
	case FieldStroke:
		err = p.bridge.UpdateStrokeColor(value)
	case FieldTextColor:
		err = p.bridge.UpdateTextColor(value)
	case FieldImage:
		p.bridge.UpdateImage(strings.TrimSpace(value))
	}
	if err != nil {
		p.err = err.Error()
		return
	}
	p.err = ""
}

// SelectAttachment moves the highlight in the attachment list by delta
func (p *PropertyPanel) SelectAttachment(delta int) {
	n := len(p.bridge.Buffers().Attachments)
	if n == 0 {
		p.attIdx = 0
		return
	}
	p.attIdx = min(max(p.attIdx+delta, 0), n-1)
}

// RemoveSelectedAttachment drops the highlighted attachment
func (p *PropertyPanel) RemoveSelectedAttachment() bool {
	atts := p.bridge.Buffers().Attachments
	if p.focus != FieldAttachments || p.attIdx >= len(atts) {
		return false
	}
	if !p.bridge.RemoveAttachment(atts[p.attIdx].ID) {
		return false
	}
	p.SelectAttachment(0)
	return true
}

// Reset drops a pending edit, e.g. when the selection changes
func (p *PropertyPanel) Reset() {
	p.editor = nil
	p.err = ""
	p.attIdx = 0
}

func displayValue(f PanelField, v string) string {
	switch {
	case f == FieldImage && strings.HasPrefix(v, "data:"):
		mediaType, _, _ := strings.Cut(strings.TrimPrefix(v, "data:"), ";")
		return fmt.Sprintf("<embedded %s>", mediaType)
	case v == "":
		return "-"
	}
	return strings.ReplaceAll(v, "\n", "⏎")
}

// Render draws the panel into r
func (p *PropertyPanel) Render(screen *Screen, r Rect) {
	if r.W < 4 || r.H < 3 {
		return
	}
	screen.Fill(r.X, r.Y, r.W, r.H, screen.PanelStyle())
	screen.DrawBox(r.X, r.Y, r.W, r.H, screen.PanelBorderStyle())
	screen.DrawStringLimited(r.X+2, r.Y, " Properties ", r.W-4, screen.PanelTitleStyle())

	innerX, innerW := r.X+2, r.W-4
	y := r.Y + 1
	bottom := r.Y + r.H - 1
	if !p.IsOpen() {
		screen.DrawStringLimited(innerX, y+1, "Select a node to edit it", innerW, screen.PanelLabelStyle())
		return
	}

	buf := p.bridge.Buffers()
	for f := FieldType; f < fieldCount && y+1 < bottom; f++ {
		labelStyle := screen.PanelLabelStyle()
		if f == p.focus {
			labelStyle = screen.PanelActiveStyle()
		}
		screen.DrawStringLimited(innerX, y, f.String(), innerW, labelStyle)
		y++

		switch {
		case f == p.focus && p.IsEditing():
			p.editor.Render(screen, innerX, y, innerW, screen.CommandTextStyle())
			y++
		case f == FieldAttachments:
			if len(buf.Attachments) == 0 {
				screen.DrawStringLimited(innerX, y, "-", innerW, screen.PanelStyle())
				y++
			}
			for i, att := range buf.Attachments {
				if y >= bottom {
					break
				}
				style := screen.PanelStyle()
				if f == p.focus && i == p.attIdx {
					style = screen.PanelActiveStyle()
				}
				line := fmt.Sprintf("%d. %s (%s)", i+1, att.Name, att.Type)
				screen.DrawStringLimited(innerX, y, TruncateToWidthWithEllipsis(line, innerW), innerW, style)
				y++
			}
		default:
			v := displayValue(f, p.value(f))
			style := screen.PanelStyle()
			if f == FieldFill || f == FieldStroke || f == FieldTextColor {
				if v != "-" {
					screen.SetCell(innerX, y, '█', screen.PanelStyle().Foreground(hexOr(v, screen.Theme.Colors.PanelValue)))
					screen.DrawStringLimited(innerX+2, y, v, innerW-2, style)
					y++
					continue
				}
			}
			screen.DrawStringLimited(innerX, y, TruncateToWidthWithEllipsis(v, innerW), innerW, style)
			y++
		}
	}

	if p.err != "" && bottom-1 > y {
		for i, line := range WrapToWidth(p.err, innerW) {
			if y+1+i >= bottom {
				break
			}
			screen.DrawStringLimited(innerX, y+1+i, line, innerW, screen.PanelErrorStyle())
		}
	}
}
