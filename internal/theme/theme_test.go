package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

func TestDefaultStyleCoversEveryType(t *testing.T) {
	for _, nt := range model.AllNodeTypes() {
		s := DefaultStyle(nt)
		assert.NotEmpty(t, s.Fill, nt)
		assert.NotEmpty(t, s.Stroke, nt)
	}
	assert.Equal(t, NodeStyle{Fill: "#dcfce7", Stroke: "#22c55e"}, DefaultStyle(model.NodeStart))
	assert.Equal(t, DefaultStyle(model.NodeProcess), DefaultStyle("unknown"))
}

func TestShapeKindMapping(t *testing.T) {
	tests := []struct {
		nodeType model.FlowNodeType
		shape    engine.ShapeKind
	}{
		{model.NodeStart, engine.ShapeEllipse},
		{model.NodeEnd, engine.ShapeEllipse},
		{model.NodeDecision, engine.ShapeDiamond},
		{model.NodeProcess, engine.ShapeRect},
		{model.NodeImage, engine.ShapeRect},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.shape, ShapeKind(tt.nodeType), tt.nodeType)
	}

	assert.Equal(t, model.NodeProcess, TypeFromShape(engine.ShapeRect))
	assert.Equal(t, model.NodeStart, TypeFromShape(engine.ShapeEllipse))
	assert.Equal(t, model.NodeDecision, TypeFromShape(engine.ShapeDiamond))
}

func TestEngineTheme(t *testing.T) {
	th := EngineTheme()
	assert.Equal(t, "#fef3c7", th.Shapes[engine.ShapeDiamond].Fill)
	assert.Equal(t, DefaultTextColor, th.TextColor)
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ABCDEF", "#abcdef", false},
		{"#abc", "#aabbcc", false},
		{"rgb(255, 0, 16)", "#ff0010", false},
		{"  #22c55e ", "#22c55e", false},
		{"#12", "", true},
		{"rgb(300,0,0)", "", true},
		{"red", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeHex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestHexToColor(t *testing.T) {
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), HexToColor("#ff0000"))
	assert.Equal(t, tcell.ColorDefault, HexToColor("nonsense"))
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, "#000000", ContrastText("#ffffff"))
	assert.Equal(t, "#ffffff", ContrastText("#000000"))
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	content := `name = "mine"

[colors]
edge = "#ff0000"
nonsense = "#00ff00"
grid = "bad"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", th.Name)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), th.Colors.Edge)
	assert.Equal(t, TokyoNight().Colors.Grid, th.Colors.Grid)
}
