package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Config is the JSON description of a scene.
// The camera aspect ratio is always derived from the sampling width and height.
type Config struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Camera      geometry.CameraConfig     `json:"camera"`
	Background  BackgroundConfig          `json:"background"`
	Sampling    SamplingConfig            `json:"sampling"`
	Materials   map[string]MaterialConfig `json:"materials"`
	Spheres     []SphereConfig            `json:"spheres"`
}

// BackgroundConfig selects what escaping rays see
type BackgroundConfig struct {
	Type   string    `json:"type"`             // "sky", "gradient", "uniform" or "black"
	Top    core.Vec3 `json:"top,omitempty"`    // gradient only
	Bottom core.Vec3 `json:"bottom,omitempty"` // gradient only
	Color  core.Vec3 `json:"color,omitempty"`  // uniform only
}

// MaterialConfig describes one named, shareable material
type MaterialConfig struct {
	Type   string    `json:"type"` // "lambertian", "metal" or "dielectric"
	Albedo core.Vec3 `json:"albedo,omitempty"`
	Fuzz   float64   `json:"fuzz,omitempty"`
	IOR    float64   `json:"ior,omitempty"`
}

// SphereConfig places a sphere. Radius may be negative for hollow shells.
type SphereConfig struct {
	Center   core.Vec3 `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// LoadConfig reads and builds a scene from a JSON file
func LoadConfig(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseConfig decodes a JSON scene, filling unspecified fields with defaults
func ParseConfig(r io.Reader) (*Scene, error) {
	camera := geometry.DefaultCameraConfig()
	camera.FocusDistance = 0 // auto unless the file sets it

	cfg := Config{
		Camera:     camera,
		Background: BackgroundConfig{Type: "sky"},
		Sampling:   DefaultSamplingConfig(),
	}

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}

	return cfg.Build()
}

// Build validates the configuration and assembles the scene
func (cfg Config) Build() (*Scene, error) {
	if err := cfg.Sampling.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}

	background, err := cfg.Background.Build()
	if err != nil {
		return nil, err
	}

	// Build every material once so spheres share them
	materials := make(map[string]material.Material, len(cfg.Materials))
	names := make([]string, 0, len(cfg.Materials))
	for name := range cfg.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mat, err := cfg.Materials[name].Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	world := geometry.NewWorld()
	for i, sc := range cfg.Spheres {
		mat, ok := materials[sc.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: unknown material %q", i, sc.Material)
		}
		if sc.Radius == 0 {
			return nil, fmt.Errorf("sphere %d: radius must not be zero", i)
		}
		world.Add(geometry.NewSphere(sc.Center, sc.Radius, mat))
	}

	cameraConfig := cfg.Camera
	cameraConfig.AspectRatio = cfg.Sampling.AspectRatio()
	if err := validateCamera(cameraConfig); err != nil {
		return nil, err
	}

	s := &Scene{
		Name:           cfg.Name,
		World:          world,
		Background:     background,
		SamplingConfig: cfg.Sampling,
	}
	s.SetCamera(cameraConfig)
	return s, nil
}

// Build creates the background described by the config
func (bc BackgroundConfig) Build() (lights.Background, error) {
	switch strings.ToLower(bc.Type) {
	case "", "sky":
		return lights.NewSkyGradient(), nil
	case "gradient":
		return lights.NewGradientInfiniteLight(bc.Top, bc.Bottom), nil
	case "uniform":
		return lights.NewUniformInfiniteLight(bc.Color), nil
	case "black":
		return lights.NewBlackBackground(), nil
	default:
		return nil, fmt.Errorf("unknown background type %q", bc.Type)
	}
}

// Build creates the material described by the config
func (mc MaterialConfig) Build() (material.Material, error) {
	switch strings.ToLower(mc.Type) {
	case "lambertian":
		return material.NewLambertian(mc.Albedo), nil
	case "metal":
		if mc.Fuzz < 0 || mc.Fuzz > 1 {
			return nil, fmt.Errorf("metal fuzz must be in [0, 1], got %g", mc.Fuzz)
		}
		return material.NewMetal(mc.Albedo, mc.Fuzz), nil
	case "dielectric":
		if mc.IOR <= 0 {
			return nil, fmt.Errorf("dielectric ior must be positive, got %g", mc.IOR)
		}
		return material.NewDielectric(mc.IOR), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", mc.Type)
	}
}

func validateCamera(config geometry.CameraConfig) error {
	var errs []error
	if config.VFov <= 0 || config.VFov >= 180 {
		errs = append(errs, fmt.Errorf("camera vfov must be in (0, 180), got %g", config.VFov))
	}
	if config.Center == config.LookAt {
		errs = append(errs, errors.New("camera center and lookAt must differ"))
	}
	if config.Up.Cross(config.Center.Subtract(config.LookAt)).NearZero() {
		errs = append(errs, errors.New("camera up must not be parallel to the view direction"))
	}
	if config.Aperture < 0 {
		errs = append(errs, fmt.Errorf("camera aperture must not be negative, got %g", config.Aperture))
	}
	return errors.Join(errs...)
}
