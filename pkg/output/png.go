package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// PNGWriter buffers rows into an image and encodes it as PNG on Close
type PNGWriter struct {
	w   io.Writer
	img *image.RGBA
	row int
}

// NewPNGWriter returns a writer expecting height rows of width pixels, top row first
func NewPNGWriter(w io.Writer, width, height int) *PNGWriter {
	return &PNGWriter{
		w:   w,
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// WriteRow copies the row into the image buffer
func (p *PNGWriter) WriteRow(row []color.RGBA) error {
	bounds := p.img.Bounds()
	if len(row) != bounds.Dx() {
		return fmt.Errorf("row has %d pixels, expected %d", len(row), bounds.Dx())
	}
	if p.row >= bounds.Dy() {
		return fmt.Errorf("image already has %d rows", bounds.Dy())
	}

	for x, c := range row {
		p.img.SetRGBA(x, p.row, c)
	}
	p.row++
	return nil
}

// Image returns the buffered image
func (p *PNGWriter) Image() *image.RGBA {
	return p.img
}

// Close encodes the buffered image
func (p *PNGWriter) Close() error {
	if p.row != p.img.Bounds().Dy() {
		return fmt.Errorf("PNG image incomplete: wrote %d of %d rows", p.row, p.img.Bounds().Dy())
	}
	if err := png.Encode(p.w, p.img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
