package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
)

// glyphSwatch is a tappable square showing one stamp glyph.
type glyphSwatch struct {
	widget.BaseWidget
	Glyph    string
	OnTapped func(string)
}

func newGlyphSwatch(g string, tapped func(string)) *glyphSwatch {
	s := &glyphSwatch{Glyph: g, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *glyphSwatch) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	bg.SetMinSize(fyne.NewSize(32, 32))
	bg.StrokeColor = color.Gray{Y: 150}
	bg.StrokeWidth = 1

	txt := canvas.NewText(s.Glyph, color.Black)
	txt.TextSize = 20
	txt.Alignment = fyne.TextAlignCenter

	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewCenter(txt)))
}

func (s *glyphSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Glyph)
	}
}

// toolbox keeps one configured tool per kind so switching between pen and
// stamp keeps each tool's settings.
type toolbox struct {
	board  *Board
	stroke state.Tool
	stamp  state.Tool
}

func (t *toolbox) use(kind state.ToolKind) {
	tool := t.stroke
	if kind == state.ToolStamp {
		tool = t.stamp
	}
	_ = t.board.SetTool(tool)
}

func (t *toolbox) update(edit func(stroke, stamp *state.Tool)) {
	edit(&t.stroke, &t.stamp)
	t.use(t.board.Tool().Kind)
}

// NewToolbar builds the tool row for board. Export dialogs open in win.
func NewToolbar(board *Board, win fyne.Window) fyne.CanvasObject {
	tb := &toolbox{board: board, stroke: board.cfg.StrokeTool(), stamp: board.cfg.StampTool()}

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { tb.use(state.ToolStroke) }), // Pen
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { tb.use(state.ToolStamp) }),      // Stamp
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { _ = board.Undo() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { _ = board.Redo() }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { _ = board.Clear() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { showExport(board, win, export.FormatPNG) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { showExport(board, win, export.FormatPDF) }),
	)

	// --- Stamp palette ---
	onGlyph := func(g string) {
		tb.stamp.Glyph = g
		tb.use(state.ToolStamp)
	}
	glyphs := container.NewHBox()
	for _, g := range board.cfg.Stamp.Glyphs {
		glyphs.Add(newGlyphSwatch(g, onGlyph))
	}

	// --- Sliders ---
	width := widget.NewSlider(1, 50)
	width.SetValue(tb.stroke.Width)
	width.OnChanged = func(v float64) {
		tb.update(func(stroke, stamp *state.Tool) {
			stroke.Width = v
			stamp.Size = v * 8
		})
	}
	opacity := widget.NewSlider(0.05, 1)
	opacity.Step = 0.05
	opacity.SetValue(tb.stroke.Opacity)
	opacity.OnChanged = func(v float64) {
		tb.update(func(stroke, _ *state.Tool) { stroke.Opacity = v })
	}
	sliders := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), width, opacity)

	return container.NewHBox(
		actions,
		widget.NewSeparator(),
		widget.NewLabel("Stamp:"),
		glyphs,
		widget.NewSeparator(),
		widget.NewLabel("Size / Opacity:"),
		sliders,
		layout.NewSpacer(),
	)
}

func showExport(board *Board, win fyne.Window, format string) {
	scale := board.cfg.Export.Scale
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := board.Export(w, format, scale); err != nil {
			board.logger.Error("export failed", "uri", w.URI(), "err", err)
			dialog.ShowError(err, win)
			return
		}
		board.logger.Info("exported", "uri", w.URI(), "scale", scale)
	}, win)
	d.SetFileName(fmt.Sprintf("sketch@%dx.%s", scale, format))
	d.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	d.Show()
}
