package output

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// ImageWriter accepts rows top first and finishes the image on Close
type ImageWriter interface {
	WriteRow(row []color.RGBA) error
	Close() error
}

// Format names an output encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ParseFormat accepts "ppm" or "png" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPPM, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want ppm or png)", s)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// NewWriter creates the writer for format
func NewWriter(format Format, w io.Writer, width, height int) (ImageWriter, error) {
	switch format {
	case FormatPPM:
		return NewPPMWriter(w, width, height)
	case FormatPNG:
		return NewPNGWriter(w, width, height), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
