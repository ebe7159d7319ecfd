// Package config loads LocalSketch settings from a TOML file.
//
//	[canvas]
//	width = 800
//	height = 600
//	background = "#ffffff"
//	ink = "#000000"
//	font = "/usr/share/fonts/noto/NotoEmoji-Regular.ttf"
//
//	[stroke]
//	width = 3.0
//	opacity = 1.0
//
//	[stamp]
//	size = 32.0
//	glyphs = ["♥", "☺", "♪", "♣"]
//
//	[server]
//	addr = ":8888"
//	advertise = true
//
//	[export]
//	scale = 2
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Config is the full set of settings.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Stroke Stroke `toml:"stroke"`
	Stamp  Stamp  `toml:"stamp"`
	Server Server `toml:"server"`
	Export Export `toml:"export"`
}

// Canvas describes the drawing surface.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
	Ink        string `toml:"ink"`
	// Font is a TrueType/OpenType file used for stamps. Empty selects the
	// built-in Go Regular font, which covers the WGL4 symbols of the default
	// palette but no emoji.
	Font string `toml:"font"`
}

// Stroke holds the initial pen settings.
type Stroke struct {
	Width   float64 `toml:"width"`
	Opacity float64 `toml:"opacity"`
}

// Stamp holds the stamp size and the glyph palette offered by the UI.
type Stamp struct {
	Size   float64  `toml:"size"`
	Glyphs []string `toml:"glyphs"`
}

// Server configures the websocket bridge.
type Server struct {
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
}

// Export configures file export.
type Export struct {
	Scale int `toml:"scale"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 800, Height: 600, Background: "#ffffff", Ink: "#000000"},
		Stroke: Stroke{Width: 3, Opacity: 1},
		Stamp:  Stamp{Size: 32, Glyphs: []string{"♥", "☺", "♪", "♣", "☼"}},
		Server: Server{Addr: ":8888"},
		Export: Export{Scale: 2},
	}
}

// Load reads path on top of the defaults. An empty path, or one that does
// not exist, yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and colours.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return skerr.New(skerr.ErrCodeInvalidConfig, "canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := ParseHexColor(c.Canvas.Background); err != nil {
		return skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "canvas.background")
	}
	if _, err := ParseHexColor(c.Canvas.Ink); err != nil {
		return skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "canvas.ink")
	}
	if err := c.StrokeTool().Validate(); err != nil {
		return skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "stroke")
	}
	if len(c.Stamp.Glyphs) == 0 {
		return skerr.New(skerr.ErrCodeInvalidConfig, "stamp.glyphs is empty")
	}
	if err := c.StampTool().Validate(); err != nil {
		return skerr.Wrap(skerr.ErrCodeInvalidConfig, err, "stamp")
	}
	if c.Export.Scale < 1 || c.Export.Scale > render.MaxScale {
		return skerr.New(skerr.ErrCodeInvalidConfig, "export.scale must be within [1,%d], got %d", render.MaxScale, c.Export.Scale)
	}
	return nil
}

// StrokeTool returns the configured pen.
func (c Config) StrokeTool() state.Tool {
	return state.Tool{Kind: state.ToolStroke, Width: c.Stroke.Width, Opacity: c.Stroke.Opacity}
}

// StampTool returns a stamp tool using the first palette glyph.
func (c Config) StampTool() state.Tool {
	glyph := ""
	if len(c.Stamp.Glyphs) > 0 {
		glyph = c.Stamp.Glyphs[0]
	}
	return state.Tool{Kind: state.ToolStamp, Glyph: glyph, Size: c.Stamp.Size}
}

// RasterOptions builds surface options for the canvas at scale. Colours must
// already be valid.
func (c Config) RasterOptions(scale int, fonts *render.Fonts) render.RasterOptions {
	bg, _ := ParseHexColor(c.Canvas.Background)
	ink, _ := ParseHexColor(c.Canvas.Ink)
	return render.RasterOptions{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		Scale:      scale,
		Background: bg,
		Ink:        ink,
		Fonts:      fonts,
	}
}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (gg.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if (len(hex) != 3 && len(hex) != 6) || strings.Trim(hex, "0123456789abcdefABCDEF") != "" {
		return gg.RGBA{}, skerr.New(skerr.ErrCodeInvalidConfig, "invalid colour %q, want #rgb or #rrggbb", s)
	}
	return gg.Hex(hex), nil
}
