package adapter

import (
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// Keys of the engine property bag
const (
	PropFlowType    = "flowType"
	PropImageURL    = "imageUrl"
	PropStyle       = "style"
	PropDescription = "description"
	PropTextColor   = "textColor"
	PropAttachments = "attachments"
)

// NodeProperties is the typed form of a node's engine property bag.
// Zero values mean the key is absent.
type NodeProperties struct {
	FlowType    model.FlowNodeType
	ImageURL    string
	Style       *theme.NodeStyle
	Description string
	TextColor   string
	Attachments []model.Attachment
}

// DecodeProperties reads the known keys of a property bag. Values of the
// wrong type are ignored as if absent, and so is an unknown flowType.
func DecodeProperties(props map[string]any) NodeProperties {
	var p NodeProperties
	if s, ok := props[PropFlowType].(string); ok && model.FlowNodeType(s).Valid() {
		p.FlowType = model.FlowNodeType(s)
	}
	p.ImageURL, _ = props[PropImageURL].(string)
	p.Description, _ = props[PropDescription].(string)
	p.TextColor, _ = props[PropTextColor].(string)
	p.Style = decodeStyle(props[PropStyle])
	p.Attachments = decodeAttachments(props[PropAttachments])
	return p
}

func decodeStyle(v any) *theme.NodeStyle {
	switch s := v.(type) {
	case map[string]any:
		fill, _ := s["fill"].(string)
		stroke, _ := s["stroke"].(string)
		if fill == "" && stroke == "" {
			return nil
		}
		return &theme.NodeStyle{Fill: fill, Stroke: stroke}
	case map[string]string:
		if s["fill"] == "" && s["stroke"] == "" {
			return nil
		}
		return &theme.NodeStyle{Fill: s["fill"], Stroke: s["stroke"]}
	}
	return nil
}

func decodeAttachments(v any) []model.Attachment {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var result []model.Attachment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var a model.Attachment
		a.ID, _ = m["id"].(string)
		a.Name, _ = m["name"].(string)
		kind, _ := m["type"].(string)
		a.Type = model.AttachmentKind(kind)
		a.URL, _ = m["url"].(string)
		if a.ID == "" || (a.Type != model.AttachmentImage && a.Type != model.AttachmentVideo) {
			continue
		}
		result = append(result, a)
	}
	return result
}

// Encode produces the engine property bag. Absent fields are left out.
func (p NodeProperties) Encode() map[string]any {
	props := map[string]any{}
	if p.FlowType != "" {
		props[PropFlowType] = string(p.FlowType)
	}
	if p.ImageURL != "" {
		props[PropImageURL] = p.ImageURL
	}
	if p.Style != nil {
		props[PropStyle] = EncodeStyle(*p.Style)
	}
	if p.Description != "" {
		props[PropDescription] = p.Description
	}
	if p.TextColor != "" {
		props[PropTextColor] = p.TextColor
	}
	if len(p.Attachments) > 0 {
		props[PropAttachments] = EncodeAttachments(p.Attachments)
	}
	return props
}

// EncodeStyle converts a style to its property form
func EncodeStyle(s theme.NodeStyle) map[string]any {
	return map[string]any{"fill": s.Fill, "stroke": s.Stroke}
}

// EncodeAttachments converts attachments to their property form
func EncodeAttachments(atts []model.Attachment) []any {
	out := make([]any, 0, len(atts))
	for _, a := range atts {
		out = append(out, map[string]any{
			"id":   a.ID,
			"name": a.Name,
			"type": string(a.Type),
			"url":  a.URL,
		})
	}
	return out
}
