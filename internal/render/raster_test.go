package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/state"
)

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func countDark(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isDark(img.At(x, y)) {
				n++
			}
		}
	}
	return n
}

// darkBounds returns the bounding box of the dark pixels of img.
func darkBounds(img image.Image) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isDark(img.At(x, y)) {
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return box
}

func newTestRaster(t *testing.T, w, h, scale int) *Raster {
	t.Helper()
	r, err := NewRaster(RasterOptions{Width: w, Height: h, Scale: scale})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRasterValidation(t *testing.T) {
	tests := []struct {
		name string
		opts RasterOptions
		code skerr.Code
	}{
		{"zero size", RasterOptions{Width: 0, Height: 10}, skerr.ErrCodeInvalidInput},
		{"scale too large", RasterOptions{Width: 10, Height: 10, Scale: MaxScale + 1}, skerr.ErrCodeInvalidScale},
		{"negative scale", RasterOptions{Width: 10, Height: 10, Scale: -2}, skerr.ErrCodeInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRaster(tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.code, skerr.GetCode(err))
		})
	}
}

func TestRasterClearIsBackground(t *testing.T) {
	r := newTestRaster(t, 20, 20, 1)
	assert.Zero(t, countDark(r.Image()))
	assert.Equal(t, image.Rect(0, 0, 20, 20), r.Bounds())
}

func TestRasterPolyline(t *testing.T) {
	r := newTestRaster(t, 50, 20, 1)
	r.DrawPolyline([]state.Point{{X: 5, Y: 10}, {X: 45, Y: 10}}, 4, 1)
	require.NoError(t, r.Err())

	img := r.Image()
	assert.True(t, isDark(img.At(25, 10)), "pixel on the line should be inked")
	assert.False(t, isDark(img.At(25, 2)), "pixel away from the line should be background")
}

func TestRasterScaleKeepsGeometry(t *testing.T) {
	r := newTestRaster(t, 50, 20, 2)
	assert.Equal(t, image.Rect(0, 0, 100, 40), r.Bounds())
	assert.Equal(t, 2, r.Scale())

	r.DrawPolyline([]state.Point{{X: 5, Y: 10}, {X: 45, Y: 10}}, 4, 1)
	img := r.Image()
	assert.True(t, isDark(img.At(50, 20)))
	assert.False(t, isDark(img.At(50, 4)))
}

func TestRasterSinglePointStrokeDrawsNothing(t *testing.T) {
	r := newTestRaster(t, 20, 20, 1)
	s := state.NewStroke(state.Pt(10, 10), 6, 1)
	s.Render(r)
	assert.Zero(t, countDark(r.Image()))
}

func TestRasterGlyph(t *testing.T) {
	r := newTestRaster(t, 60, 40, 1)
	r.DrawGlyph("W", 30, 20, 24)
	assert.Positive(t, countDark(r.Image()))
}

func TestRasterGlyphScalesWithSurface(t *testing.T) {
	base := newTestRaster(t, 80, 60, 1)
	base.DrawGlyph("W", 40, 30, 24)
	want := darkBounds(base.Image())
	require.False(t, want.Empty())

	for _, scale := range []int{2, 4} {
		r := newTestRaster(t, 80, 60, scale)
		r.DrawGlyph("W", 40, 30, 24)
		got := darkBounds(r.Image())
		require.False(t, got.Empty(), "scale %d drew nothing", scale)

		// Same box in logical units, within a pixel of antialiasing per side.
		tol := 2 * scale
		assert.InDelta(t, want.Min.X*scale, got.Min.X, float64(tol), "scale %d min x", scale)
		assert.InDelta(t, want.Min.Y*scale, got.Min.Y, float64(tol), "scale %d min y", scale)
		assert.InDelta(t, want.Max.X*scale, got.Max.X, float64(tol), "scale %d max x", scale)
		assert.InDelta(t, want.Max.Y*scale, got.Max.Y, float64(tol), "scale %d max y", scale)
	}
}

func TestRasterClearErasesStrokes(t *testing.T) {
	r := newTestRaster(t, 50, 20, 1)
	r.DrawPolyline([]state.Point{{X: 5, Y: 10}, {X: 45, Y: 10}}, 4, 1)
	r.Clear()
	assert.Zero(t, countDark(r.Image()))
}

func TestRasterEncodePNG(t *testing.T) {
	r := newTestRaster(t, 30, 10, 1)
	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
}

func TestFontsFaceCache(t *testing.T) {
	f, err := DefaultFonts()
	require.NoError(t, err)
	a := f.Face(12.1)
	b := f.Face(12.05)
	assert.Same(t, a, b)
}
