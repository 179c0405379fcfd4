package engine

import "math"

const (
	minScale = 0.2
	maxScale = 4.0
)

// Transform maps diagram space to screen space: screen = diagram*Scale + Translate
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// DefaultTransform is 100% scale at the origin
func DefaultTransform() Transform {
	return Transform{Scale: 1}
}

// ToScreen converts a diagram point to screen space
func (t Transform) ToScreen(p Point) Point {
	return Point{X: p.X*t.Scale + t.TranslateX, Y: p.Y*t.Scale + t.TranslateY}
}

// ToDiagram converts a screen point to diagram space
func (t Transform) ToDiagram(p Point) Point {
	return Point{X: (p.X - t.TranslateX) / t.Scale, Y: (p.Y - t.TranslateY) / t.Scale}
}

// Transform returns the current pan/zoom transform
func (e *Engine) Transform() Transform {
	return e.transform
}

// ScreenToDiagram converts a screen point using the current transform
func (e *Engine) ScreenToDiagram(p Point) Point {
	return e.transform.ToDiagram(p)
}

// DiagramToScreen converts a diagram point using the current transform
func (e *Engine) DiagramToScreen(p Point) Point {
	return e.transform.ToScreen(p)
}

// Zoom scales around the viewport centre by one zoom step
func (e *Engine) Zoom(in bool) float64 {
	factor := 1 + e.opts.ZoomStep
	if !in {
		factor = 1 / factor
	}
	scale := math.Max(minScale, math.Min(maxScale, e.transform.Scale*factor))
	center := Point{X: float64(e.width) / 2, Y: float64(e.height) / 2}
	anchor := e.transform.ToDiagram(center)
	e.transform.Scale = scale
	e.transform.TranslateX = center.X - anchor.X*scale
	e.transform.TranslateY = center.Y - anchor.Y*scale
	e.events.Emit(Event{Name: EventTransform})
	return scale
}

// ResetZoom restores 100% scale keeping the translation
func (e *Engine) ResetZoom() {
	e.transform.Scale = 1
	e.events.Emit(Event{Name: EventTransform})
}

// ResetTranslate moves the origin back to the top-left corner
func (e *Engine) ResetTranslate() {
	e.transform.TranslateX = 0
	e.transform.TranslateY = 0
	e.events.Emit(Event{Name: EventTransform})
}

// Translate pans by a screen-space delta
func (e *Engine) Translate(dx, dy float64) {
	e.transform.TranslateX += dx
	e.transform.TranslateY += dy
	e.events.Emit(Event{Name: EventTransform})
}

// ViewportCenter returns the centre of the container in diagram space
func (e *Engine) ViewportCenter() Point {
	return e.transform.ToDiagram(Point{X: float64(e.width) / 2, Y: float64(e.height) / 2})
}
