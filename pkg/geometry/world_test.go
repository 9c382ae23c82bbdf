package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestWorld_Hit_Nearest(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	// Overlapping spheres along -z
	nearSphere := NewSphere(core.NewVec3(0, 0, -2), 1.0, near)
	farSphere := NewSphere(core.NewVec3(0, 0, -3), 1.5, far)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, order := range [][]Shape{{nearSphere, farSphere}, {farSphere, nearSphere}} {
		world := NewWorld(order...)
		hit, isHit := world.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatal("Expected hit")
		}
		if math.Abs(hit.T-1.0) > 1e-9 {
			t.Errorf("Expected nearest hit at t=1 regardless of order, got t=%f", hit.T)
		}
		if hit.Material != material.Material(near) {
			t.Error("Expected nearest sphere's material")
		}
	}
}

func TestWorld_Hit_IntervalExcludesObjects(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	behind := NewSphere(core.NewVec3(0, 0, 5), 1.0, nil)    // entirely behind the origin
	beyond := NewSphere(core.NewVec3(0, 0, -100), 1.0, nil) // past tMax
	target := NewSphere(core.NewVec3(0, 0, -10), 1.0, nil)  // the only valid hit

	world := NewWorld(behind, beyond, target)
	hit, isHit := world.Hit(ray, 0.001, 50)
	if !isHit {
		t.Fatal("Expected hit on target sphere")
	}
	if math.Abs(hit.T-9.0) > 1e-9 {
		t.Errorf("Expected t=9, got t=%f", hit.T)
	}

	// Without the target nothing qualifies
	world = NewWorld(behind, beyond)
	if hit, isHit := world.Hit(ray, 0.001, 50); isHit {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
}

func TestWorld_Hit_Empty(t *testing.T) {
	world := NewWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if hit, isHit := world.Hit(ray, 0.001, math.Inf(1)); isHit || hit != nil {
		t.Error("Empty world should never be hit")
	}
}

// mockShape records the tMax it was queried with
type mockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

func (m *mockShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

func TestWorld_Hit_ShrinksUpperBound(t *testing.T) {
	var seen []float64
	record := func(tHit float64) *mockShape {
		return &mockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			seen = append(seen, tMax)
			if tHit > tMin && tHit < tMax {
				return &material.HitRecord{T: tHit}, true
			}
			return nil, false
		}}
	}

	world := NewWorld(record(5), record(3), record(4))
	world.Add(record(2))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := world.Hit(ray, 0.001, 10)
	if !isHit || hit.T != 2 {
		t.Fatalf("Expected nearest t=2, got %v %v", hit, isHit)
	}

	expected := []float64{10, 5, 3, 3}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("Shape %d queried with tMax=%f, expected %f", i, seen[i], expected[i])
		}
	}
	if world.Len() != 4 {
		t.Errorf("Expected 4 shapes, got %d", world.Len())
	}
}
