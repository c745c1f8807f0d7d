package core

import "fmt"

// minimumAxisSize is the thinnest extent an AABB built from points may have.
// Thinner axes are padded so the slab test never sees a zero-width slab.
const minimumAxisSize = 1e-4

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

var (
	// EmptyAABB bounds nothing; unioning with it is a no-op
	EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}
	// UniverseAABB bounds everything
	UniverseAABB = AABB{X: UniverseInterval, Y: UniverseInterval, Z: UniverseInterval}
)

// NewAABB creates a new AABB from three per-axis intervals
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromPoints creates the box spanned by two corner points, in either order
func NewAABBFromPoints(a, b Point3) AABB {
	box := AABB{
		X: Interval{Min: min(a.X, b.X), Max: max(a.X, b.X)},
		Y: Interval{Min: min(a.Y, b.Y), Max: max(a.Y, b.Y)},
		Z: Interval{Min: min(a.Z, b.Z), Max: max(a.Z, b.Z)},
	}
	return box.padToMinimums()
}

// NewAABBFromBoxes returns the box enclosing both a and b
func NewAABBFromBoxes(a, b AABB) AABB {
	return AABB{
		X: NewIntervalFromIntervals(a.X, b.X),
		Y: NewIntervalFromIntervals(a.Y, b.Y),
		Z: NewIntervalFromIntervals(a.Z, b.Z),
	}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return NewAABBFromBoxes(aabb, other)
}

// AxisInterval returns the extent of the box along axis. Invalid axes panic.
func (aabb AABB) AxisInterval(axis Axis) Interval {
	switch axis {
	case AxisX:
		return aabb.X
	case AxisY:
		return aabb.Y
	case AxisZ:
		return aabb.Z
	}
	panic(fmt.Sprintf("core: invalid axis %d", int(axis)))
}

// Hit tests if a ray intersects with this AABB within rayT using the slab method
func (aabb AABB) Hit(ray Ray, rayT Interval) bool {
	for _, axis := range Axes {
		slab := aabb.AxisInterval(axis)
		origin := ray.Origin.Component(axis)

		// A zero direction component yields ±Inf here, which the comparisons below handle
		invDirection := 1.0 / ray.Direction.Component(axis)

		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		// Comparisons rather than math.Max/Min so a NaN bound (origin on the slab plane) is ignored
		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}

		if rayT.Max <= rayT.Min {
			return false
		}
	}

	return true
}

// Contains reports whether p lies inside the box, boundary included
func (aabb AABB) Contains(p Point3) bool {
	return aabb.X.Contains(p.X) && aabb.Y.Contains(p.Y) && aabb.Z.Contains(p.Z)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return NewVec3(
		(aabb.X.Min+aabb.X.Max)*0.5,
		(aabb.Y.Min+aabb.Y.Max)*0.5,
		(aabb.Z.Min+aabb.Z.Max)*0.5,
	)
}

// LongestAxis returns the axis with the longest extent
func (aabb AABB) LongestAxis() Axis {
	if aabb.X.Size() > aabb.Y.Size() && aabb.X.Size() > aabb.Z.Size() {
		return AxisX
	}
	if aabb.Y.Size() > aabb.Z.Size() {
		return AxisY
	}
	return AxisZ
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return !aabb.X.IsEmpty() && !aabb.Y.IsEmpty() && !aabb.Z.IsEmpty()
}

func (aabb AABB) padToMinimums() AABB {
	if aabb.X.Size() < minimumAxisSize {
		aabb.X = aabb.X.Expand(minimumAxisSize)
	}
	if aabb.Y.Size() < minimumAxisSize {
		aabb.Y = aabb.Y.Expand(minimumAxisSize)
	}
	if aabb.Z.Size() < minimumAxisSize {
		aabb.Z = aabb.Z.Expand(minimumAxisSize)
	}
	return aabb
}
