package ui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"LocalSketch/internal/config"
	"LocalSketch/internal/export"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Board is the drawing surface. It owns a session and a display raster and
// turns mouse events into session actions.
type Board struct {
	widget.BaseWidget

	mu      sync.Mutex
	session *state.Session
	display *render.Raster
	dirty   bool

	cfg    config.Config
	fonts  *render.Fonts
	logger *log.Logger

	// OnStatus is called after every change with the new snapshot.
	OnStatus func(state.Snapshot)
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)

// NewBoard creates a board for a canvas of the configured size.
func NewBoard(cfg config.Config, fonts *render.Fonts, logger *log.Logger) (*Board, error) {
	if logger == nil {
		logger = log.Default()
	}
	display, err := render.NewRaster(cfg.RasterOptions(1, fonts))
	if err != nil {
		return nil, fmt.Errorf("create display: %w", err)
	}
	b := &Board{
		display: display,
		cfg:     cfg,
		fonts:   fonts,
		logger:  logger.WithPrefix("board"),
	}
	b.session = state.NewSession(state.WithLogger(b.logger), state.WithTool(cfg.StrokeTool()))
	b.session.OnChange = func() { b.dirty = true }
	b.ExtendBaseWidget(b)
	return b, nil
}

// apply runs fn against the session under the board lock and refreshes the
// widget if the session reported a change.
func (b *Board) apply(what string, fn func(s *state.Session) error) error {
	b.mu.Lock()
	err := fn(b.session)
	dirty := b.dirty
	b.dirty = false
	snap := b.session.Snapshot()
	b.mu.Unlock()

	if err != nil {
		if errors.Is(err, state.ErrNoActiveAction) {
			// fyne reports both MouseUp and DragEnd for one gesture.
			b.logger.Debug("ignored", "action", what)
		} else {
			b.logger.Warn("action failed", "action", what, "err", err)
		}
	}
	if dirty {
		b.Refresh()
		if b.OnStatus != nil {
			b.OnStatus(snap)
		}
	}
	return err
}

// toCanvas maps a widget position onto canvas coordinates. The raster is
// stretched to fill the widget.
func (b *Board) toCanvas(pos fyne.Position) state.Point {
	size := b.Size()
	x, y := float64(pos.X), float64(pos.Y)
	if size.Width > 0 && size.Height > 0 {
		x *= float64(b.cfg.Canvas.Width) / float64(size.Width)
		y *= float64(b.cfg.Canvas.Height) / float64(size.Height)
	}
	return state.Pt(x, y)
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := b.toCanvas(e.Position)
	_ = b.apply("begin", func(s *state.Session) error { return s.BeginAction(p, s.Tool()) })
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	_ = b.apply("end", (*state.Session).EndAction)
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	p := b.toCanvas(e.Position)
	_ = b.apply("continue", func(s *state.Session) error {
		if s.Mode() != state.Drawing {
			return nil
		}
		return s.ContinueAction(p)
	})
}

func (b *Board) DragEnd() {
	_ = b.apply("end", func(s *state.Session) error {
		if s.Mode() != state.Drawing {
			return nil
		}
		return s.EndAction()
	})
}

func (b *Board) MouseIn(e *desktop.MouseEvent) { b.MouseMoved(e) }

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	p := b.toCanvas(e.Position)
	_ = b.apply("hover", func(s *state.Session) error {
		s.Hover(p)
		return nil
	})
}

func (b *Board) MouseOut() {
	_ = b.apply("leave", func(s *state.Session) error {
		s.Leave()
		return nil
	})
}

// Undo reverts the last committed drawable.
func (b *Board) Undo() error {
	return b.apply("undo", func(s *state.Session) error {
		_, err := s.Undo()
		return err
	})
}

// Redo reapplies the last undone drawable.
func (b *Board) Redo() error {
	return b.apply("redo", func(s *state.Session) error {
		_, err := s.Redo()
		return err
	})
}

// Clear commits a clear marker.
func (b *Board) Clear() error { return b.apply("clear", (*state.Session).Clear) }

// SetTool selects the tool for the next action.
func (b *Board) SetTool(t state.Tool) error {
	return b.apply("tool", func(s *state.Session) error { return s.SetTool(t) })
}

// Tool returns the current tool.
func (b *Board) Tool() state.Tool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session.Tool()
}

// Snapshot summarises the board's session.
func (b *Board) Snapshot() state.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session.Snapshot()
}

// Export writes the committed history as PNG or PDF at the given scale.
func (b *Board) Export(w io.Writer, format string, scale int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	opts := b.cfg.RasterOptions(scale, b.fonts)
	switch format {
	case export.FormatPDF:
		return export.PDF(w, b.session, opts)
	default:
		return export.PNG(w, b.session, opts)
	}
}

// Close releases the display raster.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.display.Close()
}

// frame renders the session, preview included, onto the display raster.
func (b *Board) frame(_, _ int) image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session.Render(b.display)
	return b.display.Image()
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b, raster: canvas.NewRaster(b.frame)}
	return r
}

type boardRenderer struct {
	board  *Board
	raster *canvas.Raster
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.raster} }
func (r *boardRenderer) Refresh()                     { r.raster.Refresh() }
func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) Layout(size fyne.Size)        { r.raster.Resize(size) }
func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(r.board.cfg.Canvas.Width), float32(r.board.cfg.Canvas.Height))
}
