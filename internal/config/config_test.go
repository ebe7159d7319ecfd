package config

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[canvas]
width = 256
height = 256
background = "#fafafa"

[stroke]
width = 8.5
opacity = 0.4

[stamp]
glyphs = ["A", "B"]

[export]
scale = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Canvas.Width)
	assert.Equal(t, "#000000", cfg.Canvas.Ink, "unset keys keep defaults")
	assert.Equal(t, 32.0, cfg.Stamp.Size)
	assert.Equal(t, 4, cfg.Export.Scale)
	assert.Equal(t, state.Tool{Kind: state.ToolStroke, Width: 8.5, Opacity: 0.4}, cfg.StrokeTool())
	assert.Equal(t, "A", cfg.StampTool().Glyph)

	opts := cfg.RasterOptions(2, nil)
	assert.Equal(t, color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}, opts.Background)
	assert.Equal(t, 2, opts.Scale)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[canvas`},
		{"bad colour", "[canvas]\nbackground = \"#zzz\""},
		{"bad opacity", "[stroke]\nopacity = 2.0"},
		{"bad scale", "[export]\nscale = 16"},
		{"no glyphs", "[stamp]\nglyphs = []"},
		{"zero canvas", "[canvas]\nwidth = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.True(t, skerr.Is(err, skerr.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#f0a", color.NRGBA{R: 0xff, G: 0x00, B: 0xaa, A: 0xff}},
		{"102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{"#FFFFFF", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	}
	for _, tt := range tests {
		c, err := ParseHexColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, color.NRGBAModel.Convert(c), tt.in)
	}

	for _, bad := range []string{"#12", "#1234", "#12345678", "#ggg", "", "red"} {
		_, err := ParseHexColor(bad)
		assert.True(t, skerr.Is(err, skerr.ErrCodeInvalidConfig), "%q: %v", bad, err)
	}
}

func glyphImage(t *testing.T, g string) *image.RGBA {
	t.Helper()
	r, err := render.NewRaster(Default().RasterOptions(1, nil))
	require.NoError(t, err)
	defer r.Close()
	r.DrawGlyph(g, 40, 40, 32)
	img := r.Image()
	out := image.NewRGBA(image.Rect(0, 0, 80, 80))
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	return out
}

func TestDefaultPaletteRendersWithBuiltInFont(t *testing.T) {
	palette := Default().Stamp.Glyphs
	assert.Contains(t, palette, state.DefaultStampTool().Glyph)

	// U+E000 is a private use code point no font maps: it draws the
	// missing-glyph box.
	missing := glyphImage(t, "\ue000")
	seen := make(map[string]*image.RGBA)
	for _, g := range palette {
		img := glyphImage(t, g)
		assert.False(t, bytes.Equal(missing.Pix, img.Pix), "%q renders as the missing glyph", g)
		for other, prev := range seen {
			assert.False(t, bytes.Equal(prev.Pix, img.Pix), "%q and %q render the same", g, other)
		}
		seen[g] = img
	}
}
