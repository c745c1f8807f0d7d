package core

// Ray represents a ray with an origin, a direction and the frame time it was cast at
type Ray struct {
	Origin    Point3
	Direction Vec3
	Time      float64 // in [0,1], used for motion blur
}

// NewRay creates a new ray cast at time 0
func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayAt creates a new ray cast at the given frame time
func NewRayAt(origin Point3, direction Vec3, time float64) Ray {
	return Ray{Origin: origin, Direction: direction, Time: time}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
