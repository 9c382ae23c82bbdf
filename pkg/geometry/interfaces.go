package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
//
// Hit reports the nearest intersection with t strictly inside (tMin, tMax).
// The returned record's normal must oppose the ray direction; implementations
// get this by passing their geometric outward normal to HitRecord.SetFaceNormal.
// Shapes are read-only once built and may be queried from many goroutines.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
