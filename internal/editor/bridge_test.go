package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-flowchart/internal/adapter"
	"github.com/pstuifzand/tui-flowchart/internal/controller"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
)

type box struct{}

func (box) Size() (int, int) { return 800, 600 }

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fixture struct {
	ctl     *controller.Controller
	bridge  *Bridge
	changes []model.FlowchartData
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	f.ctl = controller.New(controller.Options{
		Container: box{},
		OnChange:  func(d model.FlowchartData) { f.changes = append(f.changes, d) },
		OnSelect:  func(id string) { f.bridge.SelectionChanged(id) },
	})
	f.bridge = New(f.ctl, 1024)
	f.ctl.SetData(&model.FlowchartData{
		Nodes: []model.FlowNode{
			{ID: "a", Type: model.NodeDecision, Text: "A", X: 100, Y: 100},
			{ID: "b", Type: model.NodeProcess, Text: "B", X: 300, Y: 100, FillColor: "#111111", StrokeColor: "#222222"},
		},
	})
	require.NoError(t, f.ctl.Mount())
	return f
}

func (f *fixture) last() model.FlowchartData {
	return f.changes[len(f.changes)-1]
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")

	buf := f.bridge.Buffers()
	assert.Equal(t, "a", buf.NodeID)
	assert.Equal(t, model.NodeDecision, buf.Type)
	assert.Equal(t, "A", buf.Text)
	assert.Equal(t, theme.DefaultStyle(model.NodeDecision).Fill, buf.FillColor)
	assert.Equal(t, theme.DefaultStyle(model.NodeDecision).Stroke, buf.StrokeColor)
	assert.Equal(t, theme.DefaultTextColor, buf.TextColor)
	assert.Empty(t, buf.Attachments)
}

func TestBuffersTrackSelection(t *testing.T) {
	f := newFixture(t)

	f.ctl.Select("a")
	f.ctl.ClearSelection()
	assert.False(t, f.bridge.Open())
	assert.Equal(t, Buffers{}, f.bridge.Buffers())

	f.ctl.Select("b")
	buf := f.bridge.Buffers()
	assert.Equal(t, "b", buf.NodeID)
	assert.Equal(t, "#111111", buf.FillColor)

	f.ctl.Select("a")
	assert.Equal(t, "a", f.bridge.Buffers().NodeID)
	assert.Equal(t, "A", f.bridge.Buffers().Text)
}

func TestUpdatesAreSingleUndoSteps(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	eng := f.ctl.Engine()

	pre := f.ctl.Recompute()
	require.NoError(t, f.bridge.UpdateFillColor("#ABC"))

	assert.Equal(t, "#aabbcc", f.bridge.Buffers().FillColor)
	assert.Equal(t, "#aabbcc", eng.EffectiveStyle(eng.Node("a")).Fill)
	n, _ := f.last().Node("a")
	assert.Equal(t, "#aabbcc", n.FillColor)

	require.True(t, f.ctl.Undo())
	assert.True(t, model.Equal(pre, f.ctl.Snapshot()))
	assert.Equal(t, theme.DefaultStyle(model.NodeDecision).Fill, eng.EffectiveStyle(eng.Node("a")).Fill)
	assert.False(t, eng.History().CanUndo())
}

func TestUpdateStrokeKeepsFill(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("b")

	require.NoError(t, f.bridge.UpdateStrokeColor("rgb(0, 0, 255)"))
	n, _ := f.last().Node("b")
	assert.Equal(t, "#111111", n.FillColor)
	assert.Equal(t, "#0000ff", n.StrokeColor)
}

func TestInvalidColourDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	before := len(f.changes)

	assert.Error(t, f.bridge.UpdateFillColor("blue-ish"))
	assert.Error(t, f.bridge.UpdateTextColor("#12"))
	assert.Len(t, f.changes, before)
	assert.False(t, f.ctl.Engine().History().CanUndo())
}

func TestUpdateTextColorTouchesRenderedText(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	eng := f.ctl.Engine()

	require.NoError(t, f.bridge.UpdateTextColor("#FF0000"))
	n := eng.Node("a")
	assert.Equal(t, "#ff0000", eng.EffectiveTextColor(n))
	assert.Equal(t, "#ff0000", adapter.DecodeProperties(n.Properties).TextColor)

	require.True(t, f.ctl.Undo())
	assert.Equal(t, theme.DefaultTextColor, eng.EffectiveTextColor(eng.Node("a")))
}

func TestTextAndDescription(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")

	f.bridge.UpdateText("renamed")
	f.bridge.UpdateDescription("hover text")
	n, _ := f.last().Node("a")
	assert.Equal(t, "renamed", n.Text)
	assert.Equal(t, "hover text", adapter.DecodeProperties(f.ctl.Engine().Node("a").Properties).Description)

	f.bridge.UpdateDescription("")
	_, ok := f.ctl.Engine().Node("a").Properties[adapter.PropDescription]
	assert.False(t, ok)
}

func TestMissingNodeIsNoop(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	f.bridge.Load("a")

	// delete behind the controller's back; the bridge still points at a
	require.NoError(t, f.ctl.Engine().Render(engine.GraphData{}))
	before := len(f.changes)

	f.bridge.UpdateText("x")
	f.bridge.UpdateDescription("x")
	f.bridge.UpdateImage("data:image/png;base64,AA")
	assert.NoError(t, f.bridge.UpdateFillColor("#000000"))
	_, ok := f.bridge.AddAttachment(DataFile{Name: "x.png", Kind: model.AttachmentImage})
	assert.False(t, ok)
	assert.Len(t, f.changes, before)
}

func TestReadFile(t *testing.T) {
	ctx := context.Background()

	f, err := ReadFile(ctx, writeFile(t, "pixel.png", pngHeader), 0)
	require.NoError(t, err)
	assert.Equal(t, model.AttachmentImage, f.Kind)
	assert.Equal(t, "pixel.png", f.Name)
	assert.True(t, strings.HasPrefix(f.URL, "data:image/png;base64,"))

	_, err = ReadFile(ctx, writeFile(t, "notes.txt", []byte("hello")), 0)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = ReadFile(ctx, writeFile(t, "big.png", append(pngHeader, make([]byte, 100)...)), 16)
	assert.ErrorIs(t, err, ErrTooLarge)

	svg := writeFile(t, "logo.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	f, err = ReadFile(ctx, svg, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.MIME)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ReadFile(cancelled, svg, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttachmentsAddAndRemove(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	file, err := ReadFile(context.Background(), writeFile(t, "pixel.png", pngHeader), 0)
	require.NoError(t, err)

	att, ok := f.bridge.AddAttachment(file)
	require.True(t, ok)
	assert.NotEmpty(t, att.ID)
	assert.Equal(t, "pixel.png", att.Name)

	stored := adapter.DecodeProperties(f.ctl.Engine().Node("a").Properties).Attachments
	require.Len(t, stored, 1)
	assert.Equal(t, att, stored[0])

	assert.True(t, f.bridge.RemoveAttachment(att.ID))
	assert.Empty(t, f.bridge.Buffers().Attachments)
	assert.False(t, f.bridge.RemoveAttachment(att.ID))
}

func TestStaleReadIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	file, err := ReadFile(context.Background(), writeFile(t, "pixel.png", pngHeader), 0)
	require.NoError(t, err)

	pr := f.bridge.BeginRead("pixel.png", ReadAttachment)
	f.ctl.Select("b")

	assert.ErrorIs(t, f.bridge.Complete(pr, file, nil), ErrStaleRead)
	assert.Empty(t, f.bridge.Buffers().Attachments)
	assert.Empty(t, adapter.DecodeProperties(f.ctl.Engine().Node("b").Properties).Attachments)
	assert.Empty(t, adapter.DecodeProperties(f.ctl.Engine().Node("a").Properties).Attachments)
}

func TestReadWithoutSelectionIsStale(t *testing.T) {
	f := newFixture(t)
	pr := f.bridge.BeginRead("x.png", ReadImage)
	assert.ErrorIs(t, f.bridge.Complete(pr, DataFile{Kind: model.AttachmentImage}, nil), ErrStaleRead)
}

func TestRunReadDeliversOnLoop(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	path := writeFile(t, "pixel.png", pngHeader)

	loop := make(chan func(), 1)
	results := make(chan error, 1)
	f.bridge.RunRead(context.Background(), path, ReadImage,
		func(fn func()) { loop <- fn },
		func(err error) { results <- err })

	(<-loop)()
	require.NoError(t, <-results)

	n, _ := f.last().Node("a")
	assert.True(t, strings.HasPrefix(n.ImageURL, "data:image/png;base64,"))
	assert.Equal(t, n.ImageURL, f.bridge.Buffers().ImageURL)
}

func TestImageReadRejectsVideo(t *testing.T) {
	f := newFixture(t)
	f.ctl.Select("a")
	pr := f.bridge.BeginRead("clip.mp4", ReadImage)

	err := f.bridge.Complete(pr, DataFile{Name: "clip.mp4", Kind: model.AttachmentVideo}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
