package renderer

import (
	"image/color"
	"math"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// maxChannel keeps quantized channels below 256
const maxChannel = 0.999

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Scanlines    int           // Scanlines handed to the writer
	Duration     time.Duration // Wall time of the render
}

// SamplesPerSecond reports throughput, or 0 before any time has elapsed
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Duration <= 0 {
		return 0
	}
	return float64(rs.TotalSamples) / rs.Duration.Seconds()
}

// PixelStats accumulates radiance samples for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// GetRGBA returns the averaged pixel quantized for output
func (ps *PixelStats) GetRGBA() color.RGBA {
	return ColorToRGBA(ps.GetColor())
}

// ColorToRGBA converts a linear color to 8-bit RGBA: gamma 2 (square root),
// clamp to [0, 0.999], then scale by 256 and truncate.
func ColorToRGBA(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)

	return color.RGBA{
		R: quantize(colorVec.X),
		G: quantize(colorVec.Y),
		B: quantize(colorVec.Z),
		A: 255,
	}
}

func quantize(c float64) uint8 {
	// NaN from degenerate samples would otherwise make the conversion implementation-defined
	if math.IsNaN(c) {
		return 0
	}
	return uint8(256 * max(0, min(maxChannel, c)))
}
