package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType  string
	ScenesDir  string
	Width      int
	Height     int
	Samples    int
	MaxDepth   int
	Seed       uint64
	Workers    int
	Format     output.Format
	OutputPath string // "" or "-" writes to stdout
	Background string // "" keeps the scene's own background
	Quiet      bool
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	config := Config{}
	var format string
	fs.StringVar(&config.SceneType, "scene", "default", "Scene: 'default', 'materials', 'random', a name from -scenes, or a .json file")
	fs.StringVar(&config.ScenesDir, "scenes", "scenes", "Directory searched for JSON scenes")
	fs.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Uint64Var(&config.Seed, "seed", 0, "Random seed for reproducible renders (0 = random)")
	fs.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.StringVar(&format, "format", "ppm", "Output format: 'ppm' or 'png'")
	fs.StringVar(&config.OutputPath, "output", "", "Output file (default stdout)")
	fs.StringVar(&config.Background, "background", "", "Override background: 'sky' or 'black'")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress progress output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options] > image.ppm")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	f, err := output.ParseFormat(format)
	if err != nil {
		return Config{}, err
	}
	config.Format = f

	switch config.Background {
	case "", "sky", "black":
	default:
		return Config{}, fmt.Errorf("unknown background %q (want sky or black)", config.Background)
	}
	if config.Width < 0 || config.Height < 0 || config.Samples < 0 || config.MaxDepth < 0 || config.Workers < 0 {
		return Config{}, errors.New("numeric options must not be negative")
	}

	return config, nil
}

// createScene builds the requested scene and applies the command line overrides
func createScene(config Config) (*scene.Scene, error) {
	s, err := scene.Create(config.SceneType, config.ScenesDir, config.Seed)
	if err != nil {
		return nil, err
	}

	sampling := scene.MergeSamplingConfig(s.SamplingConfig, scene.SamplingConfig{
		SamplesPerPixel: config.Samples,
		MaxDepth:        config.MaxDepth,
		Seed:            config.Seed,
	})
	s.SamplingConfig = sampling

	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	if config.Width > 0 {
		width = config.Width
	}
	if config.Height > 0 {
		height = config.Height
	}
	if width != s.SamplingConfig.Width || height != s.SamplingConfig.Height {
		s.Resize(width, height)
	}

	switch config.Background {
	case "sky":
		s.Background = lights.NewSkyGradient()
	case "black":
		s.Background = lights.NewBlackBackground()
	}

	return s, nil
}

func run(ctx context.Context, config Config, stdout, stderr io.Writer) error {
	s, err := createScene(config)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	logger := renderer.NewLogger(stderr)
	if config.Quiet {
		logger = renderer.NewLogger(io.Discard)
	}
	logger.Printf("Scene %q: %d spheres\n", s.Name, s.GetPrimitiveCount())

	raytracer, err := renderer.NewRaytracer(s, renderer.RenderConfig{NumWorkers: config.Workers}, logger)
	if err != nil {
		return err
	}

	out := stdout
	if config.OutputPath != "" && config.OutputPath != "-" {
		file, err := os.Create(config.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	writer, err := output.NewWriter(config.Format, out, raytracer.Width(), raytracer.Height())
	if err != nil {
		return err
	}

	var onScanline func(remaining int)
	if !config.Quiet {
		onScanline = func(remaining int) {
			fmt.Fprintf(stderr, "\rScanlines remaining: %d ", remaining)
		}
	}

	stats, err := raytracer.Render(ctx, writer, onScanline)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	logger.Printf("\nDone in %v: %d pixels, %d samples (%.0f samples/s)\n",
		stats.Duration, stats.TotalPixels, stats.TotalSamples, stats.SamplesPerSecond())
	return nil
}
