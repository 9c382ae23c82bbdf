package lights

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// UniformInfiniteLight emits the same color in every direction.
// A zero emission gives a flat black background.
type UniformInfiniteLight struct {
	emission core.Vec3
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{emission: emission}
}

// NewBlackBackground returns a background that contributes no light
func NewBlackBackground() *UniformInfiniteLight {
	return NewUniformInfiniteLight(core.Vec3{})
}

// Emit implements the Background interface
func (uil *UniformInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return uil.emission
}

// Emission returns the constant emitted color
func (uil *UniformInfiniteLight) Emission() core.Vec3 {
	return uil.emission
}
