package render

import (
	"fmt"
	"strings"

	"LocalSketch/internal/state"
)

// OpKind identifies a recorded surface call.
type OpKind int

const (
	OpClear OpKind = iota
	OpPolyline
	OpGlyph
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpPolyline:
		return "polyline"
	case OpGlyph:
		return "glyph"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded surface call.
type Op struct {
	Kind    OpKind
	Points  []state.Point
	Width   float64
	Opacity float64
	Text    string
	X, Y    float64
	Size    float64
}

func (op Op) String() string {
	switch op.Kind {
	case OpPolyline:
		var b strings.Builder
		fmt.Fprintf(&b, "polyline w=%g a=%g", op.Width, op.Opacity)
		for _, p := range op.Points {
			fmt.Fprintf(&b, " (%g,%g)", p.X, p.Y)
		}
		return b.String()
	case OpGlyph:
		return fmt.Sprintf("glyph %q at (%g,%g) size=%g", op.Text, op.X, op.Y, op.Size)
	default:
		return op.Kind.String()
	}
}

// Recorder is a Surface that records calls instead of drawing them.
type Recorder struct {
	ops []Op
}

var _ state.Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Clear() {
	r.ops = append(r.ops, Op{Kind: OpClear})
}

func (r *Recorder) DrawPolyline(points []state.Point, width, opacity float64) {
	pts := make([]state.Point, len(points))
	copy(pts, points)
	r.ops = append(r.ops, Op{Kind: OpPolyline, Points: pts, Width: width, Opacity: opacity})
}

func (r *Recorder) DrawGlyph(text string, x, y, size float64) {
	r.ops = append(r.ops, Op{Kind: OpGlyph, Text: text, X: x, Y: y, Size: size})
}

// Ops returns every call recorded since the last Reset.
func (r *Recorder) Ops() []Op { return r.ops }

// Visible returns the drawing calls made after the most recent clear, i.e.
// what the surface currently shows.
func (r *Recorder) Visible() []Op {
	start := 0
	for i, op := range r.ops {
		if op.Kind == OpClear {
			start = i + 1
		}
	}
	return r.ops[start:]
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }
