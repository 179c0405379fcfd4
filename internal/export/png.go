package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

// ErrEmpty is returned when a diagram without nodes is rasterized
var ErrEmpty = errors.New("nothing to export")

const pngPadding = 40.0

// PNG renders the diagram to a PNG file
func PNG(filePath string, d model.FlowchartData) error {
	img, err := Image(d)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(filePath, img); err != nil {
		return fmt.Errorf("failed to write png file: %w", err)
	}
	return nil
}

// Image rasterizes the diagram. Node coordinates are shape centres; the
// image is cropped to the nodes plus padding.
func Image(d model.FlowchartData) (image.Image, error) {
	if len(d.Nodes) == 0 {
		return nil, ErrEmpty
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range d.Nodes {
		w, h := nodeSize(n)
		minX = math.Min(minX, n.X-w/2)
		minY = math.Min(minY, n.Y-h/2)
		maxX = math.Max(maxX, n.X+w/2)
		maxY = math.Max(maxY, n.Y+h/2)
	}
	for _, c := range d.Connections {
		if c.From.NodeID != c.To.NodeID {
			continue
		}
		n, ok := d.Node(c.From.NodeID)
		if !ok {
			continue
		}
		for _, p := range loopPath(n) {
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
		}
	}
	minX -= pngPadding
	minY -= pngPadding
	maxX += pngPadding
	maxY += pngPadding

	dc := gg.NewContext(int(math.Ceil(maxX-minX)), int(math.Ceil(maxY-minY)))
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(-minX, -minY)

	labelFace, err := loadFace(goregular.TTF, 13)
	if err != nil {
		return nil, err
	}
	edgeFace, err := loadFace(gomono.TTF, 11)
	if err != nil {
		return nil, err
	}

	// Draw connections first so nodes cover the line ends
	dc.SetFontFace(edgeFace)
	for _, c := range d.Connections {
		from, ok1 := d.Node(c.From.NodeID)
		to, ok2 := d.Node(c.To.NodeID)
		if !ok1 || !ok2 {
			continue
		}
		drawConnectionPNG(dc, from, to, c.Text)
	}

	dc.SetFontFace(labelFace)
	for _, n := range d.Nodes {
		drawNodePNG(dc, n)
	}

	return dc.Image(), nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func nodeSize(n model.FlowNode) (float64, float64) {
	w, h := n.Width, n.Height
	if w <= 0 {
		w = model.DefaultNodeWidth
	}
	if h <= 0 {
		h = model.DefaultNodeHeight
	}
	return w, h
}

func parseOr(s, fallback string) color.Color {
	if c, err := theme.ParseColor(s); err == nil {
		return c
	}
	c, _ := theme.ParseColor(fallback)
	return c
}

func drawConnectionPNG(dc *gg.Context, from, to model.FlowNode, label string) {
	if from.ID == to.ID {
		drawLoopPNG(dc, from, label)
		return
	}
	_, fh := nodeSize(from)
	_, th := nodeSize(to)
	x1, y1 := from.X, from.Y+fh/2
	x2, y2 := to.X, to.Y-th/2

	dc.SetLineWidth(1.5)
	dc.SetColor(parseOr(theme.DefaultEdgeStroke, "#6b7280"))
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	drawArrowPNG(dc, x1, y1, x2, y2)

	if label != "" {
		dc.SetColor(parseOr(theme.DefaultTextColor, "#1f2937"))
		dc.DrawStringAnchored(label, (x1+x2)/2, (y1+y2)/2, 0.5, 0.5)
	}
}

func loopPath(n model.FlowNode) []engine.Point {
	w, h := nodeSize(n)
	return engine.SelfLoopPath(&engine.NodeModel{X: n.X, Y: n.Y, Width: w, Height: h})
}

func drawLoopPNG(dc *gg.Context, n model.FlowNode, label string) {
	pts := loopPath(n)
	dc.SetLineWidth(1.5)
	dc.SetColor(parseOr(theme.DefaultEdgeStroke, "#6b7280"))
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
	last, prev := pts[len(pts)-1], pts[len(pts)-2]
	drawArrowPNG(dc, prev.X, prev.Y, last.X, last.Y)

	if label != "" {
		dc.SetColor(parseOr(theme.DefaultTextColor, "#1f2937"))
		dc.DrawStringAnchored(label, (pts[1].X+pts[2].X)/2, pts[1].Y, 0.5, 1)
	}
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 8.0
	arrowAngle := 0.5

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, n model.FlowNode) {
	w, h := nodeSize(n)
	def := theme.DefaultStyle(n.Type)

	switch theme.ShapeKind(n.Type) {
	case engine.ShapeEllipse:
		dc.DrawEllipse(n.X, n.Y, w/2, h/2)
	case engine.ShapeDiamond:
		dc.MoveTo(n.X, n.Y-h/2)
		dc.LineTo(n.X+w/2, n.Y)
		dc.LineTo(n.X, n.Y+h/2)
		dc.LineTo(n.X-w/2, n.Y)
		dc.ClosePath()
	default:
		dc.DrawRectangle(n.X-w/2, n.Y-h/2, w, h)
	}
	dc.SetColor(parseOr(n.FillColor, def.Fill))
	dc.FillPreserve()
	dc.SetLineWidth(2)
	dc.SetColor(parseOr(n.StrokeColor, def.Stroke))
	dc.Stroke()

	dc.SetColor(parseOr(theme.DefaultTextColor, "#1f2937"))
	dc.DrawStringAnchored(firstLine(n.Text), n.X, n.Y, 0.5, 0.5)
}
