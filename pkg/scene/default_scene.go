package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a diffuse sphere resting on a huge diffuse ground
// sphere under a sky gradient, seen through the default camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = cameraOverrides[0]
	}

	groundMaterial := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	centerMaterial := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))

	s := &Scene{
		Name: "default",
		World: geometry.NewWorld(
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, centerMaterial),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, groundMaterial),
		),
		Background:     lights.NewSkyGradient(),
		SamplingConfig: DefaultSamplingConfig(),
	}
	s.SetCamera(cameraConfig)

	return s
}
