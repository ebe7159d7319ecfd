// Package render provides the surfaces a sketch history is replayed onto: a
// gogpu/gg backed raster used for display and export, and a call recorder.
package render

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/state"
)

// MaxScale bounds the export scale factor.
const MaxScale = 8

// RasterOptions configures a Raster.
type RasterOptions struct {
	// Width and Height are the logical canvas size.
	Width, Height int
	// Scale multiplies the pixel size. Zero means 1.
	Scale int
	// Background fills the surface on Clear. Nil means white.
	Background color.Color
	// Ink is the colour of strokes and glyphs. Nil means black.
	Ink color.Color
	// Fonts renders glyphs. Nil selects the built-in font.
	Fonts *Fonts
}

// Raster is a Surface drawing into a pixel buffer. The logical canvas is
// mapped onto Width*Scale x Height*Scale pixels through the context
// transform, so recorded coordinates are never rewritten.
type Raster struct {
	dc         *gg.Context
	width      int
	height     int
	scale      float64
	background gg.RGBA
	ink        gg.RGBA
	fonts      *Fonts
	err        error
}

var _ state.Surface = (*Raster)(nil)

// NewRaster allocates a cleared raster surface.
func NewRaster(opts RasterOptions) (*Raster, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, skerr.New(skerr.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 1 || scale > MaxScale {
		return nil, skerr.New(skerr.ErrCodeInvalidScale, "scale must be within [1,%d], got %d", MaxScale, scale)
	}
	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			return nil, err
		}
	}
	r := &Raster{
		dc:         gg.NewContext(opts.Width*scale, opts.Height*scale),
		width:      opts.Width,
		height:     opts.Height,
		scale:      float64(scale),
		background: gg.White,
		ink:        gg.Black,
		fonts:      fonts,
	}
	if opts.Background != nil {
		r.background = gg.FromColor(opts.Background)
	}
	if opts.Ink != nil {
		r.ink = gg.FromColor(opts.Ink)
	}
	r.dc.Scale(r.scale, r.scale)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.Clear()
	return r, nil
}

// Clear fills the whole surface with the background colour.
func (r *Raster) Clear() {
	r.dc.ClearWithColor(r.background)
}

// DrawPolyline strokes the points with round caps and joins. The line width
// is in logical units and scales with the surface.
func (r *Raster) DrawPolyline(points []state.Point, width, opacity float64) {
	if len(points) < 2 {
		return
	}
	r.dc.SetRGBA(r.ink.R, r.ink.G, r.ink.B, r.ink.A*opacity)
	r.dc.SetLineWidth(width)
	r.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	if err := r.dc.Stroke(); err != nil && r.err == nil {
		r.err = err
	}
}

// DrawGlyph draws text centred on (x, y). The context transform maps both the
// anchor and the face size, so glyphs scale with the surface like strokes do.
func (r *Raster) DrawGlyph(s string, x, y, size float64) {
	r.dc.SetFont(r.fonts.Face(size))
	r.dc.SetRGBA(r.ink.R, r.ink.G, r.ink.B, r.ink.A)
	r.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// Err returns the first rasterisation error, if any.
func (r *Raster) Err() error { return r.err }

// Bounds returns the pixel size of the surface.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.dc.Width(), r.dc.Height())
}

// Scale returns the pixel scale factor.
func (r *Raster) Scale() int { return int(r.scale) }

// Image returns the current pixels.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the current pixels as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.err != nil {
		return skerr.Wrap(skerr.ErrCodeInternal, r.err, "rasterise")
	}
	return r.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (r *Raster) Close() error { return r.dc.Close() }
