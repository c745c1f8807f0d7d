package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HittableList is a flat collection tested by linear search
type HittableList struct {
	objects []Hittable
	bbox    core.AABB
}

// NewHittableList creates a list holding the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	list := &HittableList{bbox: core.EmptyAABB}
	for _, object := range objects {
		list.Add(object)
	}
	return list
}

// Add appends an object and grows the list's bounding box.
// Must not be called once rendering has started.
func (l *HittableList) Add(object Hittable) {
	l.objects = append(l.objects, object)
	l.bbox = core.NewAABBFromBoxes(l.bbox, object.BoundingBox())
}

// Clear removes every object
func (l *HittableList) Clear() {
	l.objects = nil
	l.bbox = core.EmptyAABB
}

// Objects returns the list's objects. The slice is shared with the list.
func (l *HittableList) Objects() []Hittable {
	return l.objects
}

// Len returns the number of objects in the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Hit returns the closest intersection over every object
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	var tempRec material.HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, object := range l.objects {
		if object.Hit(ray, core.NewInterval(rayT.Min, closestSoFar), &tempRec) {
			hitAnything = true
			closestSoFar = tempRec.T
			*rec = tempRec
		}
	}

	return hitAnything
}

// BoundingBox returns the union of every object's box, or EmptyAABB for an empty list
func (l *HittableList) BoundingBox() core.AABB {
	return l.bbox
}
