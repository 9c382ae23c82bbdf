package lights

import "github.com/df07/go-pathtracer/pkg/core"

// Background is an infinitely distant light seen by rays that escape the scene.
// It is the only light source: surfaces are lit by what their paths eventually reach.
type Background interface {
	// Emit evaluates emission in the direction of the given ray
	Emit(ray core.Ray) core.Vec3
}
