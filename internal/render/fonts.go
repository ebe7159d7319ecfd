package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts hands out glyph faces of one font source, cached by pixel size.
// It is safe for concurrent use so that one set can be shared between the
// display surface and export surfaces.
type Fonts struct {
	source *text.FontSource

	mu    sync.Mutex
	faces map[float64]text.Face
}

// NewFonts wraps an already parsed font source.
func NewFonts(source *text.FontSource) *Fonts {
	return &Fonts{source: source, faces: make(map[float64]text.Face)}
}

// LoadFonts reads a TrueType/OpenType file. An empty path selects the
// built-in Go Regular font.
func LoadFonts(path string) (*Fonts, error) {
	if path == "" {
		return DefaultFonts()
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return NewFonts(src), nil
}

var (
	defaultFontsOnce sync.Once
	defaultFonts     *Fonts
	defaultFontsErr  error
)

// DefaultFonts returns the shared Go Regular font set.
func DefaultFonts() (*Fonts, error) {
	defaultFontsOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			defaultFontsErr = fmt.Errorf("parse built-in font: %w", err)
			return
		}
		defaultFonts = NewFonts(src)
	})
	return defaultFonts, defaultFontsErr
}

// Face returns a face for the given pixel size, rounded to a quarter pixel so
// the cache stays small while a stamp is resized.
func (f *Fonts) Face(size float64) text.Face {
	key := math.Round(size*4) / 4
	f.mu.Lock()
	defer f.mu.Unlock()
	face, ok := f.faces[key]
	if !ok {
		face = f.source.Face(key)
		f.faces[key] = face
	}
	return face
}

// Name returns the font family name.
func (f *Fonts) Name() string { return f.source.Name() }
