package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Hittable is anything a ray can intersect: a primitive, a list or a BVH subtree.
// Implementations are read-only after construction and safe for concurrent Hit calls.
type Hittable interface {
	// Hit reports whether the ray intersects within rayT and, on success, fills rec
	// with the nearest intersection. rec is unspecified on a false return.
	Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool

	// BoundingBox returns a box enclosing the object over the whole shutter interval
	BoundingBox() core.AABB
}
