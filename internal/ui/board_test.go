package ui

import (
	"bytes"
	"image/png"
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/config"
	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	test.NewTempApp(t)
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 100, 50
	b, err := NewBoard(cfg, nil, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	// Widget twice the canvas size: positions are halved.
	b.Resize(fyne.NewSize(200, 100))
	return b
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestBoardGesture(t *testing.T) {
	b := newTestBoard(t)
	var last state.Snapshot
	b.OnStatus = func(s state.Snapshot) { last = s }

	b.MouseDown(mouse(20, 20))
	assert.Equal(t, "drawing", last.Mode)
	b.Dragged(drag(100, 20))
	b.Dragged(drag(180, 80))
	b.MouseUp(mouse(180, 80))
	b.DragEnd()

	snap := b.Snapshot()
	assert.Equal(t, "idle", snap.Mode)
	assert.Equal(t, 1, snap.Committed)
	assert.Equal(t, []state.Kind{state.KindStroke}, snap.Kinds)

	stroke := b.session.History().Last().(*state.Stroke)
	assert.Equal(t, []state.Point{state.Pt(10, 10), state.Pt(50, 10), state.Pt(90, 40)}, stroke.Points())
}

func TestBoardSecondaryButtonIgnored(t *testing.T) {
	b := newTestBoard(t)
	ev := mouse(10, 10)
	ev.Button = desktop.MouseButtonSecondary
	b.MouseDown(ev)
	assert.Equal(t, 0, b.Snapshot().Committed)
}

func TestBoardUndoRedoClear(t *testing.T) {
	b := newTestBoard(t)
	b.MouseDown(mouse(10, 10))
	b.Dragged(drag(50, 50))
	b.MouseUp(mouse(50, 50))
	require.NoError(t, b.Clear())
	assert.Equal(t, 2, b.Snapshot().Committed)

	require.NoError(t, b.Undo())
	require.NoError(t, b.Undo())
	assert.Equal(t, 0, b.Snapshot().Committed)
	assert.Equal(t, 2, b.Snapshot().Redo)

	require.NoError(t, b.Redo())
	assert.Equal(t, 1, b.Snapshot().Committed)

	// Undo with nothing to undo is not an error.
	require.NoError(t, b.Undo())
	require.NoError(t, b.Undo())
}

func TestBoardStampTool(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.SetTool(state.DefaultStampTool()))
	b.MouseDown(mouse(40, 40))
	b.Dragged(drag(60, 60))
	b.MouseUp(mouse(60, 60))

	stamp := b.session.History().Last().(*state.Stamp)
	assert.Equal(t, state.Pt(30, 30), stamp.Position())

	err := b.SetTool(state.Tool{Kind: state.ToolStroke})
	assert.Error(t, err)
	assert.Equal(t, state.ToolStamp, b.Tool().Kind)
}

func TestBoardHoverPreview(t *testing.T) {
	b := newTestBoard(t)
	b.MouseMoved(mouse(100, 50))
	assert.True(t, b.session.History().Len() == 0)
	img := b.frame(0, 0)
	assert.Equal(t, 100, img.Bounds().Dx())
	b.MouseOut()
}

func TestBoardExport(t *testing.T) {
	b := newTestBoard(t)
	b.MouseDown(mouse(10, 10))
	b.Dragged(drag(190, 90))
	b.MouseUp(mouse(190, 90))

	var buf bytes.Buffer
	require.NoError(t, b.Export(&buf, export.FormatPNG, 2))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	buf.Reset()
	require.NoError(t, b.Export(&buf, export.FormatPDF, 1))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestStatusText(t *testing.T) {
	s := state.Snapshot{Mode: "idle", Tool: state.DefaultStrokeTool(), Committed: 2, Redo: 1}
	got := statusText(s, "http://10.0.0.2:8888")
	assert.Contains(t, got, "2 drawn, 1 to redo")
	assert.Contains(t, got, "http://10.0.0.2:8888")
}
