package output

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
)

// PPMWriter streams rows as a plain-text (P3) PPM image
type PPMWriter struct {
	w      *bufio.Writer
	width  int
	height int
	rows   int
}

// NewPPMWriter writes the P3 header for a width x height image and returns a
// writer expecting exactly height rows of width pixels, top row first.
func NewPPMWriter(w io.Writer, width, height int) (*PPMWriter, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return nil, fmt.Errorf("failed to write PPM header: %w", err)
	}
	return &PPMWriter{w: bw, width: width, height: height}, nil
}

// WriteRow writes one "R G B" line per pixel
func (p *PPMWriter) WriteRow(row []color.RGBA) error {
	if len(row) != p.width {
		return fmt.Errorf("row has %d pixels, expected %d", len(row), p.width)
	}
	if p.rows >= p.height {
		return fmt.Errorf("image already has %d rows", p.height)
	}

	for _, c := range row {
		if _, err := fmt.Fprintf(p.w, "%d %d %d\n", c.R, c.G, c.B); err != nil {
			return fmt.Errorf("failed to write pixel: %w", err)
		}
	}
	p.rows++
	return nil
}

// Close flushes buffered output and reports a truncated image
func (p *PPMWriter) Close() error {
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM output: %w", err)
	}
	if p.rows != p.height {
		return fmt.Errorf("PPM image incomplete: wrote %d of %d rows", p.rows, p.height)
	}
	return nil
}
