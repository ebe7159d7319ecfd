package state

import (
	"time"

	"github.com/charmbracelet/log"

	skerr "LocalSketch/internal/errors"
)

// Caller-discipline violations. Both carry ErrCodeIllegalState.
var (
	// ErrNoActiveAction is returned when an action is continued or ended
	// while none is open.
	ErrNoActiveAction = skerr.New(skerr.ErrCodeIllegalState, "no drawing action in progress")

	// ErrActionInProgress is returned when an action is started, or history
	// is changed, while another action is still open.
	ErrActionInProgress = skerr.New(skerr.ErrCodeIllegalState, "a drawing action is in progress")
)

// Mode is the session's action state.
type Mode int

const (
	Idle Mode = iota
	Drawing
)

func (m Mode) String() string {
	if m == Drawing {
		return "drawing"
	}
	return "idle"
}

// Session owns everything a sketchpad needs between events: the history, the
// current tool, the last pointer position and the action in progress. GUI
// layers translate raw pointer events into BeginAction, ContinueAction and
// EndAction.
//
// A Session is not safe for concurrent use.
type Session struct {
	history *History
	tool    Tool

	// active is non-nil only in the Drawing mode. Dropping it on EndAction
	// is what makes a stray drag after the action impossible.
	active Drawable

	pointer    Point
	hasPointer bool

	logger *log.Logger
	now    func() time.Time

	// OnChange, if set, is called after every change that affects Render.
	OnChange func()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTool sets the initial tool. Invalid tools are ignored.
func WithTool(t Tool) Option {
	return func(s *Session) {
		if t.Validate() == nil {
			s.tool = t
		}
	}
}

// WithClock replaces time.Now for action timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession returns an idle session with an empty history and the default
// stroke tool.
func NewSession(opts ...Option) *Session {
	s := &Session{
		history: NewHistory(),
		tool:    DefaultStrokeTool(),
		logger:  log.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode reports whether an action is open.
func (s *Session) Mode() Mode {
	if s.active != nil {
		return Drawing
	}
	return Idle
}

// Tool returns the current tool.
func (s *Session) Tool() Tool { return s.tool }

// History exposes the underlying history for read access.
func (s *Session) History() *History { return s.history }

// SetTool changes the tool used by later actions.
func (s *Session) SetTool(t Tool) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.tool = t
	s.logger.Debug("tool changed", "tool", t)
	s.changed()
	return nil
}

// BeginAction opens a new action at p with tool, committing its drawable
// right away so it is visible while it is being drawn.
func (s *Session) BeginAction(p Point, tool Tool) error {
	if s.active != nil {
		return ErrActionInProgress
	}
	if err := tool.Validate(); err != nil {
		return err
	}
	var d Drawable
	switch tool.Kind {
	case ToolStroke:
		d = newStrokeAt(s.now(), p, tool.Width, tool.Opacity)
	case ToolStamp:
		d = newStampAt(s.now(), p, tool.Glyph, tool.Size)
	}
	s.history.Commit(d)
	s.active = d
	s.pointer, s.hasPointer = p, true
	s.logger.Debug("action started", "kind", d.Kind(), "id", d.ID(), "x", p.X, "y", p.Y)
	s.changed()
	return nil
}

// ContinueAction drags the open action to p.
func (s *Session) ContinueAction(p Point) error {
	if s.active == nil {
		return ErrNoActiveAction
	}
	s.active.Drag(p)
	s.pointer, s.hasPointer = p, true
	s.changed()
	return nil
}

// EndAction closes the open action. The drawable stays in history but can no
// longer be reached for dragging.
func (s *Session) EndAction() error {
	if s.active == nil {
		return ErrNoActiveAction
	}
	s.logger.Debug("action finished", "kind", s.active.Kind(), "id", s.active.ID())
	s.active = nil
	s.changed()
	return nil
}

// Undo reverts the most recent action. It reports whether anything changed;
// an empty history is not an error.
func (s *Session) Undo() (bool, error) {
	if s.active != nil {
		return false, ErrActionInProgress
	}
	if !s.history.Undo() {
		return false, nil
	}
	s.logger.Debug("undo", "committed", s.history.Len(), "redo", s.history.RedoLen())
	s.changed()
	return true, nil
}

// Redo re-applies the most recently undone action.
func (s *Session) Redo() (bool, error) {
	if s.active != nil {
		return false, ErrActionInProgress
	}
	if !s.history.Redo() {
		return false, nil
	}
	s.logger.Debug("redo", "committed", s.history.Len(), "redo", s.history.RedoLen())
	s.changed()
	return true, nil
}

// Clear commits a clear marker. Earlier actions stay in history and come back
// when the clear is undone.
func (s *Session) Clear() error {
	if s.active != nil {
		return ErrActionInProgress
	}
	d := &ClearMarker{meta: newMeta(s.now())}
	s.history.Commit(d)
	s.logger.Debug("canvas cleared", "id", d.ID())
	s.changed()
	return nil
}

// Hover records the pointer position used for the tool preview.
func (s *Session) Hover(p Point) {
	s.pointer, s.hasPointer = p, true
	s.changed()
}

// Leave forgets the pointer position, hiding the preview.
func (s *Session) Leave() {
	if !s.hasPointer {
		return
	}
	s.hasPointer = false
	s.changed()
}

// Render replays the history onto surf and, while no action is open, draws
// the tool preview on top.
func (s *Session) Render(surf Surface) {
	s.history.Replay(surf)
	if s.active == nil && s.hasPointer {
		renderPreview(surf, s.tool, s.pointer)
	}
}

// RenderHistory replays the committed picture without any preview, as used
// for export.
func (s *Session) RenderHistory(surf Surface) {
	s.history.Replay(surf)
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Snapshot is a read-only summary of a session.
type Snapshot struct {
	Mode      string `json:"mode"`
	Tool      Tool   `json:"tool"`
	Committed int    `json:"committed"`
	Redo      int    `json:"redo"`
	Kinds     []Kind `json:"kinds"`
	Extent    Rect   `json:"-"`
}

// Snapshot summarises the session state.
func (s *Session) Snapshot() Snapshot {
	entries := s.history.Entries()
	kinds := make([]Kind, len(entries))
	for i, d := range entries {
		kinds[i] = d.Kind()
	}
	return Snapshot{
		Mode:      s.Mode().String(),
		Tool:      s.tool,
		Committed: s.history.Len(),
		Redo:      s.history.RedoLen(),
		Kinds:     kinds,
		Extent:    Extent(entries),
	}
}
