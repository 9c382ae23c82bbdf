package renderer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ScanlineWriter receives finished rows, top row first.
// The row slice is reused between calls and must not be retained.
type ScanlineWriter interface {
	WriteRow(row []color.RGBA) error
}

// RenderConfig contains settings that affect how, but not what, is rendered
type RenderConfig struct {
	NumWorkers int // Number of parallel workers (0 = auto-detect CPU count)
}

// DefaultLogger implements core.Logger by writing to an io.Writer
type DefaultLogger struct {
	w io.Writer
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.w, format, args...)
}

// NewDefaultLogger creates a logger on stderr, leaving stdout to image output
func NewDefaultLogger() core.Logger {
	return NewLogger(os.Stderr)
}

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer) core.Logger {
	return &DefaultLogger{w: w}
}

// Raytracer renders a scene one scanline at a time
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     scene.SamplingConfig
	width      int
	height     int
	numWorkers int
	logger     core.Logger
}

// NewRaytracer creates a raytracer for the scene's sampling configuration
func NewRaytracer(s *scene.Scene, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if s == nil || s.Camera == nil || s.World == nil {
		return nil, errors.New("scene must have a camera and a world")
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Raytracer{
		scene:      s,
		integrator: integrator.NewPathTracingIntegrator(s.Background),
		config:     s.SamplingConfig,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
		numWorkers: config.NumWorkers,
		logger:     logger,
	}, nil
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// RenderPixel accumulates SamplesPerPixel jittered estimates for pixel (i, j),
// where j counts up from the bottom row.
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) PixelStats {
	var stats PixelStats
	camera := rt.scene.Camera

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(i) + sampler.Get1D()) / float64(rt.width-1)
		t := (float64(j) + sampler.Get1D()) / float64(rt.height-1)

		ray := camera.GetRay(s, t, sampler)
		stats.AddSample(rt.integrator.RayColor(ray, rt.scene.World, rt.config.MaxDepth, sampler))
	}

	return stats
}

// RenderScanline renders row j on the calling goroutine
func (rt *Raytracer) RenderScanline(j int, sampler core.Sampler) []color.RGBA {
	row := make([]color.RGBA, rt.width)
	for i := range row {
		pixelSampler := rt.pixelSampler(i, j)
		if pixelSampler == nil {
			pixelSampler = sampler
		}
		stats := rt.RenderPixel(i, j, pixelSampler)
		row[i] = stats.GetRGBA()
	}
	return row
}

// Render renders every scanline from the top of the image down, handing each
// finished row to writer before starting the next. onScanline, if set, is
// called after each row with the number of rows still to render.
func (rt *Raytracer) Render(ctx context.Context, writer ScanlineWriter, onScanline func(remaining int)) (RenderStats, error) {
	start := time.Now()
	stats := RenderStats{}

	pool := NewWorkerPool(rt, rt.numWorkers)
	pool.Start()
	defer pool.Stop()

	rt.logger.Printf("Rendering %dx%d, %d samples, depth %d, %d workers\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	row := make([]color.RGBA, rt.width)
	for j := rt.height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("render cancelled: %w", err)
		}

		stats.TotalSamples += pool.RenderRow(j, row)
		stats.TotalPixels += rt.width

		if err := writer.WriteRow(row); err != nil {
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("failed to write scanline %d: %w", j, err)
		}
		stats.Scanlines++

		if onScanline != nil {
			onScanline(j)
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// pixelSampler returns the reproducible stream for pixel (i, j) when the
// render is seeded, or nil so the caller supplies its own stream.
func (rt *Raytracer) pixelSampler(i, j int) core.Sampler {
	if rt.config.Seed == 0 {
		return nil
	}
	return core.NewSeededSampler(rt.config.Seed, uint64(j*rt.width+i))
}
