package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
)

// Scene contains all the elements needed for rendering.
// It is built once and treated as read-only while rendering.
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.World   // Objects in the scene
	Background     lights.Background // Light seen by rays that escape
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int    `json:"width"`           // Image width
	Height          int    `json:"height"`          // Image height
	SamplesPerPixel int    `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int    `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            uint64 `json:"seed,omitempty"`  // Non-zero makes renders reproducible
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.Width > 0 {
		base.Width = override.Width
	}
	if override.Height > 0 {
		base.Height = override.Height
	}
	if override.SamplesPerPixel > 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth > 0 {
		base.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	return base
}

// Validate checks that the configuration describes a renderable image
func (c SamplingConfig) Validate() error {
	var errs []error
	// Pixel coordinates are divided by (size - 1)
	if c.Width < 2 {
		errs = append(errs, fmt.Errorf("width must be at least 2, got %d", c.Width))
	}
	if c.Height < 2 {
		errs = append(errs, fmt.Errorf("height must be at least 2, got %d", c.Height))
	}
	if c.SamplesPerPixel < 1 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	return errors.Join(errs...)
}

// AspectRatio returns width / height
func (c SamplingConfig) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// SetCamera rebuilds the camera from config
func (s *Scene) SetCamera(config geometry.CameraConfig) {
	s.Camera = geometry.NewCamera(config)
	s.CameraConfig = s.Camera.Config()
}

// Resize changes the image size, keeping the camera aspect ratio in step
func (s *Scene) Resize(width, height int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	config := s.CameraConfig
	config.AspectRatio = s.SamplingConfig.AspectRatio()
	s.SetCamera(config)
}

// GetPrimitiveCount returns the total number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
