package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
)

// ShadowAcneEpsilon is the minimum hit distance, which keeps scattered rays from
// re-hitting the surface they leave due to floating point error
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a hard bounce limit
type PathTracingIntegrator struct {
	background lights.Background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A nil background is treated as black.
func NewPathTracingIntegrator(background lights.Background) *PathTracingIntegrator {
	if background == nil {
		background = lights.NewBlackBackground()
	}
	return &PathTracingIntegrator{background: background}
}

// RayColor computes the color for a single ray.
// Paths that have not escaped after depth bounces contribute black.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for remaining := depth; remaining > 0; remaining-- {
		hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.background.Emit(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{} // Material absorbed the ray
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce budget exhausted
	return core.Vec3{}
}
