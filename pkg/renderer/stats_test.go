package renderer

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestPixelStats_Average(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); got != (core.Vec3{}) {
		t.Errorf("Expected black for no samples, got %v", got)
	}

	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))

	got := ps.GetColor()
	want := core.NewVec3(0.5, 0.5, 0.5)
	if got.Subtract(want).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
}

func TestColorToRGBA(t *testing.T) {
	tests := []struct {
		name  string
		input core.Vec3
		want  color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps", core.NewVec3(4, 9, 100), color.RGBA{255, 255, 255, 255}},
		// sqrt(0.25) = 0.5 -> 128
		{"gamma two", core.NewVec3(0.25, 0.25, 0.25), color.RGBA{128, 128, 128, 255}},
		// sqrt(0.01) = 0.1 -> 25.6 truncates to 25
		{"truncates", core.NewVec3(0.01, 0.04, 0.09), color.RGBA{25, 51, 76, 255}},
		{"nan is black", core.NewVec3(math.NaN(), -1, 0), color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorToRGBA(tt.input); got != tt.want {
				t.Errorf("ColorToRGBA(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderStats_SamplesPerSecond(t *testing.T) {
	if got := (RenderStats{TotalSamples: 10}).SamplesPerSecond(); got != 0 {
		t.Errorf("Expected 0 with no duration, got %f", got)
	}
	stats := RenderStats{TotalSamples: 500, Duration: 2 * time.Second}
	if got := stats.SamplesPerSecond(); math.Abs(got-250) > 1e-9 {
		t.Errorf("Expected 250, got %f", got)
	}
}
