package state

import "math"

const (
	previewSegments = 32
	previewOpacity  = 0.5
	previewWidth    = 1

	// stampRingRatio sizes the stamp preview ring relative to the glyph size.
	stampRingRatio = 0.6
)

// renderPreview draws the uncommitted hint for tool at p: a ring the size of
// the brush for strokes. Stamps show the glyph inside a ring, which a
// placed stamp never has.
func renderPreview(s Surface, tool Tool, p Point) {
	switch tool.Kind {
	case ToolStroke:
		s.DrawPolyline(ring(p, tool.Width/2), previewWidth, previewOpacity)
	case ToolStamp:
		s.DrawGlyph(tool.Glyph, p.X, p.Y, tool.Size)
		s.DrawPolyline(ring(p, tool.Size*stampRingRatio), previewWidth, previewOpacity)
	}
}

// ring approximates a circle as a closed polyline.
func ring(c Point, r float64) []Point {
	pts := make([]Point, previewSegments+1)
	for i := 0; i < previewSegments; i++ {
		a := 2 * math.Pi * float64(i) / previewSegments
		pts[i] = Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	pts[previewSegments] = pts[0]
	return pts
}
