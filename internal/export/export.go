// Package export writes the committed picture of a session to PNG or PDF.
//
// Export replays the history onto its own temporary raster, never the one
// used for display, so it can run at any scale without disturbing the board.
package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	skerr "LocalSketch/internal/errors"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Supported formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Rasterize replays the session history, without tool preview, onto a new
// raster built from opts. The caller closes the result.
func Rasterize(s *state.Session, opts render.RasterOptions) (*render.Raster, error) {
	r, err := render.NewRaster(opts)
	if err != nil {
		return nil, err
	}
	s.RenderHistory(r)
	if err := r.Err(); err != nil {
		_ = r.Close()
		return nil, skerr.Wrap(skerr.ErrCodeInternal, err, "rasterise history")
	}
	return r, nil
}

// PNG writes the picture as a PNG image of opts.Width*opts.Scale pixels.
func PNG(w io.Writer, s *state.Session, opts render.RasterOptions) error {
	r, err := Rasterize(s, opts)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.EncodePNG(w)
}

// PDF writes a single-page PDF sized to the logical canvas in points, with
// the picture embedded as a raster at opts.Scale.
func PDF(w io.Writer, s *state.Session, opts render.RasterOptions) error {
	var img bytes.Buffer
	if err := PNG(&img, s, opts); err != nil {
		return err
	}

	wd, ht := float64(opts.Width), float64(opts.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sketch", imgOpts, &img)
	pdf.ImageOptions("sketch", 0, 0, wd, ht, false, imgOpts, 0, "")
	if err := pdf.Error(); err != nil {
		return skerr.Wrap(skerr.ErrCodeInternal, err, "build pdf")
	}
	return pdf.Output(w)
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatPNG, FormatPDF:
		return ext, nil
	}
	return "", skerr.New(skerr.ErrCodeInvalidInput, "unsupported export format %q (want .png or .pdf)", filepath.Ext(path))
}

// ToFile exports to path, choosing the format from its extension.
func ToFile(path string, s *state.Session, opts render.RasterOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return skerr.Wrap(skerr.ErrCodeInternal, err, "create %s", path)
	}
	if format == FormatPDF {
		err = PDF(f, s, opts)
	} else {
		err = PNG(f, s, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
