package state

// Rect is an axis-aligned box in canvas coordinates. The zero Rect is empty.
type Rect struct {
	Min, Max Point
	nonEmpty bool
}

// Empty reports whether r covers nothing.
func (r Rect) Empty() bool { return !r.nonEmpty }

func (r Rect) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

func (r Rect) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest Rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min:      Point{X: min(r.Min.X, o.Min.X), Y: min(r.Min.Y, o.Min.Y)},
		Max:      Point{X: max(r.Max.X, o.Max.X), Y: max(r.Max.Y, o.Max.Y)},
		nonEmpty: true,
	}
}

// Pad grows r by d on every side.
func (r Rect) Pad(d float64) Rect {
	if r.Empty() {
		return r
	}
	r.Min.X -= d
	r.Min.Y -= d
	r.Max.X += d
	r.Max.Y += d
	return r
}

func boundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0], nonEmpty: true}
	for _, p := range points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// Bounds returns the area d paints. Strokes that render nothing and clear
// markers have empty bounds.
func Bounds(d Drawable) Rect {
	switch v := d.(type) {
	case *Stroke:
		if len(v.points) < 2 {
			return Rect{}
		}
		return boundsOf(v.points).Pad(v.width / 2)
	case *Stamp:
		return boundsOf([]Point{v.pos}).Pad(v.size / 2)
	case *ClearMarker:
		return Rect{}
	default:
		panic("state: unknown drawable " + string(d.Kind()))
	}
}

// Extent returns the painted area of a committed log. A clear marker hides
// everything before it, so only entries after the last one count.
func Extent(entries []Drawable) Rect {
	start := 0
	for i, d := range entries {
		if d.Kind() == KindClear {
			start = i + 1
		}
	}
	var r Rect
	for _, d := range entries[start:] {
		r = r.Union(Bounds(d))
	}
	return r
}
