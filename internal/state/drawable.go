package state

import (
	"time"

	"github.com/google/uuid"
)

// Drawable is one undoable drawing action. The set of implementations is
// closed: Stroke, Stamp and ClearMarker are the only variants.
type Drawable interface {
	// ID uniquely identifies the action for logs and snapshots.
	ID() string
	Kind() Kind
	// CreatedAt is when the action started.
	CreatedAt() time.Time
	// Drag updates the drawable in response to continued pointer motion.
	Drag(p Point)
	// Render paints the drawable. It is a pure function of the current state.
	Render(s Surface)

	sealed()
}

type meta struct {
	id      string
	created time.Time
}

func newMeta(now time.Time) meta {
	return meta{id: uuid.NewString(), created: now}
}

func (m meta) ID() string           { return m.id }
func (m meta) CreatedAt() time.Time { return m.created }
func (meta) sealed()                {}

// Stroke is a freehand line. Points are kept in insertion order.
type Stroke struct {
	meta
	points  []Point
	width   float64
	opacity float64
}

// NewStroke starts a stroke at p.
func NewStroke(p Point, width, opacity float64) *Stroke {
	return newStrokeAt(time.Now(), p, width, opacity)
}

func newStrokeAt(now time.Time, p Point, width, opacity float64) *Stroke {
	return &Stroke{
		meta:    newMeta(now),
		points:  []Point{p},
		width:   width,
		opacity: opacity,
	}
}

func (s *Stroke) Kind() Kind { return KindStroke }

// Drag appends p to the stroke.
func (s *Stroke) Drag(p Point) {
	s.points = append(s.points, p)
}

// Render draws the polyline. A stroke with fewer than two points has no
// visible segment and draws nothing.
func (s *Stroke) Render(surf Surface) {
	if len(s.points) < 2 {
		return
	}
	surf.DrawPolyline(s.points, s.width, s.opacity)
}

// Points returns a copy of the recorded points.
func (s *Stroke) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Stroke) Width() float64   { return s.width }
func (s *Stroke) Opacity() float64 { return s.opacity }

// Stamp places a glyph (an emoji or short text) at a single position.
type Stamp struct {
	meta
	pos   Point
	glyph string
	size  float64
}

// NewStamp places glyph at p.
func NewStamp(p Point, glyph string, size float64) *Stamp {
	return newStampAt(time.Now(), p, glyph, size)
}

func newStampAt(now time.Time, p Point, glyph string, size float64) *Stamp {
	return &Stamp{meta: newMeta(now), pos: p, glyph: glyph, size: size}
}

func (s *Stamp) Kind() Kind { return KindStamp }

// Drag moves the stamp to p, replacing the previous position.
func (s *Stamp) Drag(p Point) {
	s.pos = p
}

func (s *Stamp) Render(surf Surface) {
	surf.DrawGlyph(s.glyph, s.pos.X, s.pos.Y, s.size)
}

func (s *Stamp) Position() Point { return s.pos }
func (s *Stamp) Glyph() string   { return s.glyph }
func (s *Stamp) Size() float64   { return s.size }

// ClearMarker wipes the canvas on replay. Earlier entries stay in history.
type ClearMarker struct {
	meta
}

// NewClearMarker returns a clear action.
func NewClearMarker() *ClearMarker {
	return &ClearMarker{meta: newMeta(time.Now())}
}

func (c *ClearMarker) Kind() Kind { return KindClear }

// Drag is a no-op.
func (c *ClearMarker) Drag(Point) {}

func (c *ClearMarker) Render(surf Surface) {
	surf.Clear()
}
