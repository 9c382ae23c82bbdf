package output

import (
	"bufio"
	"bytes"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"
)

func gradientRow(width, y int) []color.RGBA {
	row := make([]color.RGBA, width)
	for x := range row {
		row[x] = color.RGBA{R: uint8(x), G: uint8(y), B: uint8((x + y) / 2), A: 255}
	}
	return row
}

func TestPPMWriter_256x256(t *testing.T) {
	const size = 256
	var buf bytes.Buffer

	w, err := NewPPMWriter(&buf, size, size)
	if err != nil {
		t.Fatalf("NewPPMWriter failed: %v", err)
	}
	for y := 0; y < size; y++ {
		if err := w.WriteRow(gradientRow(size, y)); err != nil {
			t.Fatalf("WriteRow %d failed: %v", y, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if len(lines) != 3+size*size {
		t.Fatalf("Expected %d lines, got %d", 3+size*size, len(lines))
	}
	if lines[0] != "P3" || lines[1] != "256 256" || lines[2] != "255" {
		t.Fatalf("Unexpected header: %q", lines[:3])
	}

	for i, line := range lines[3:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("Line %d: expected 3 components, got %q", i, line)
		}
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v > 255 {
				t.Fatalf("Line %d: component %q out of range", i, f)
			}
		}
	}

	// Row-major from the top: pixel (x=5, y=2) is line 2*256+5
	if got := lines[3+2*size+5]; got != "5 2 3" {
		t.Errorf("Expected pixel (5,2) to be \"5 2 3\", got %q", got)
	}
}

func TestPPMWriter_Errors(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewPPMWriter(&buf, 2, 1)
	if err != nil {
		t.Fatalf("NewPPMWriter failed: %v", err)
	}

	if err := w.WriteRow(gradientRow(3, 0)); err == nil {
		t.Error("Expected error for wrong row width")
	}
	if err := w.Close(); err == nil {
		t.Error("Expected error for incomplete image")
	}
	if err := w.WriteRow(gradientRow(2, 0)); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if err := w.WriteRow(gradientRow(2, 1)); err == nil {
		t.Error("Expected error for too many rows")
	}
}

func TestPNGWriter_RoundTrip(t *testing.T) {
	const width, height = 7, 4
	var buf bytes.Buffer

	w := NewPNGWriter(&buf, width, height)
	for y := 0; y < height; y++ {
		if err := w.WriteRow(gradientRow(width, y)); err != nil {
			t.Fatalf("WriteRow %d failed: %v", y, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		t.Fatalf("Expected %dx%d, got %v", width, height, img.Bounds())
	}

	got := color.RGBAModel.Convert(img.At(6, 3)).(color.RGBA)
	want := gradientRow(width, 3)[6]
	if got != want {
		t.Errorf("Expected %v at (6,3), got %v", want, got)
	}
}

func TestPNGWriter_Incomplete(t *testing.T) {
	w := NewPNGWriter(&bytes.Buffer{}, 2, 2)
	if err := w.WriteRow(gradientRow(2, 0)); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if err := w.Close(); err == nil {
		t.Error("Expected error for incomplete image")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"ppm", FormatPPM, false},
		{"PNG", FormatPNG, false},
		{"jpeg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatPPM, &buf, 1, 1)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if _, ok := w.(*PPMWriter); !ok {
		t.Errorf("Expected *PPMWriter, got %T", w)
	}
	if err := w.WriteRow([]color.RGBA{{R: 1, G: 2, B: 3, A: 255}}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := buf.String(); got != "P3\n1 1\n255\n1 2 3\n" {
		t.Errorf("Unexpected PPM output %q", got)
	}

	if FormatPNG.ContentType() != "image/png" {
		t.Errorf("Unexpected PNG content type %q", FormatPNG.ContentType())
	}
}
