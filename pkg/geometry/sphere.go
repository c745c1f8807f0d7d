package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere, optionally moving linearly from Center0 (time 0) to Center1 (time 1).
// A negative radius keeps the same surface but flips its normals inward.
type Sphere struct {
	Center0  core.Point3
	Center1  core.Point3
	Radius   float64
	Material material.Material
	moving   bool
	bbox     core.AABB
}

// NewSphere creates a new stationary sphere
func NewSphere(center core.Point3, radius float64, mat material.Material) *Sphere {
	return newSphere(center, center, radius, mat, false)
}

// NewMovingSphere creates a sphere whose center moves from center0 at time 0 to center1 at time 1
func NewMovingSphere(center0, center1 core.Point3, radius float64, mat material.Material) *Sphere {
	return newSphere(center0, center1, radius, mat, true)
}

func newSphere(center0, center1 core.Point3, radius float64, mat material.Material, moving bool) *Sphere {
	s := &Sphere{
		Center0:  center0,
		Center1:  center1,
		Radius:   radius,
		Material: mat,
		moving:   moving,
	}

	r := math.Abs(radius)
	rvec := core.NewVec3(r, r, r)
	s.bbox = core.NewAABBFromPoints(center0.Subtract(rvec), center0.Add(rvec))
	if moving {
		box1 := core.NewAABBFromPoints(center1.Subtract(rvec), center1.Add(rvec))
		s.bbox = core.NewAABBFromBoxes(s.bbox, box1)
	}
	return s
}

// Moving reports whether the sphere was created with two centers
func (s *Sphere) Moving() bool {
	return s.moving
}

// Center returns the sphere center at the given time
func (s *Sphere) Center(time float64) core.Point3 {
	if !s.moving {
		return s.Center0
	}
	return s.Center0.Lerp(s.Center1, time)
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	center := s.Center(ray.Time)
	oc := ray.Origin.Subtract(center)

	// Quadratic coefficients in half-b form: a*t^2 + 2*halfB*t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest root strictly inside the interval
	root := (-halfB - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	outwardNormal := rec.Point.Subtract(center).Divide(s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)
	rec.Material = s.Material

	return true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}
