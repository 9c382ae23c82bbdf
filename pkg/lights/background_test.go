package lights

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestSkyGradient_Emit(t *testing.T) {
	sky := NewSkyGradient()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 10, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sky.Emit(core.NewRay(core.Vec3{}, tt.direction))
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGradientInfiniteLight_Colors(t *testing.T) {
	top := core.NewVec3(0.1, 0.2, 0.3)
	bottom := core.NewVec3(0.4, 0.5, 0.6)
	light := NewGradientInfiniteLight(top, bottom)

	gotTop, gotBottom := light.Colors()
	if gotTop != top || gotBottom != bottom {
		t.Errorf("Expected (%v, %v), got (%v, %v)", top, bottom, gotTop, gotBottom)
	}
}

func TestBlackBackground_Emit(t *testing.T) {
	var background Background = NewBlackBackground()
	for _, dir := range []core.Vec3{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}} {
		if got := background.Emit(core.NewRay(core.Vec3{}, dir)); got != (core.Vec3{}) {
			t.Errorf("Black background should emit nothing, got %v", got)
		}
	}
}

func TestUniformInfiniteLight_Emit(t *testing.T) {
	emission := core.NewVec3(0.2, 0.3, 0.4)
	light := NewUniformInfiniteLight(emission)
	if got := light.Emit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))); got != emission {
		t.Errorf("Expected %v, got %v", emission, got)
	}
	if light.Emission() != emission {
		t.Errorf("Emission() should return %v", emission)
	}
}
