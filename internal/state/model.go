package state

// Point is a device coordinate on the canvas.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Surface is the render target the history is replayed onto. Coordinates are
// always logical canvas coordinates; a surface rendering at a different
// resolution scales its own transform.
type Surface interface {
	// Clear erases the surface to its background.
	Clear()
	// DrawPolyline strokes a connected line through points in order.
	DrawPolyline(points []Point, width, opacity float64)
	// DrawGlyph draws text centred on (x, y) at the given size.
	DrawGlyph(text string, x, y, size float64)
}

// Kind names a Drawable variant.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindStamp  Kind = "stamp"
	KindClear  Kind = "clear"
)
