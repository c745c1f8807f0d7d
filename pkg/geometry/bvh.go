package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SplitPolicy selects the axis a BVH node sorts its objects along
type SplitPolicy int

const (
	// SplitRandomAxis draws a fresh axis uniformly at random for every node
	SplitRandomAxis SplitPolicy = iota
	// SplitLongestAxis uses the longest extent of the node's bounding box
	SplitLongestAxis
)

func (p SplitPolicy) String() string {
	switch p {
	case SplitRandomAxis:
		return "random"
	case SplitLongestAxis:
		return "longest"
	}
	return fmt.Sprintf("SplitPolicy(%d)", int(p))
}

// ParseSplitPolicy converts a policy name back into a SplitPolicy
func ParseSplitPolicy(name string) (SplitPolicy, error) {
	switch name {
	case "random", "":
		return SplitRandomAxis, nil
	case "longest":
		return SplitLongestAxis, nil
	}
	return 0, fmt.Errorf("unknown BVH split policy %q", name)
}

// BVHNode is a node of a bounding volume hierarchy. Right is nil only for a
// node built over a single object.
type BVHNode struct {
	Left  Hittable
	Right Hittable
	bbox  core.AABB
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	TotalNodes  int
	LeafObjects int
	MaxDepth    int
	AvgDepth    float64
}

// NewBVHNode builds a hierarchy over objects. The objects slice is copied, so the
// caller's ordering is untouched. sampler is only consulted by SplitRandomAxis.
// Panics on an empty slice.
func NewBVHNode(objects []Hittable, sampler core.Sampler, policy SplitPolicy) *BVHNode {
	if len(objects) == 0 {
		panic("geometry: BVH over zero objects")
	}

	// Make a copy of the objects slice; construction sorts it in place
	working := make([]Hittable, len(objects))
	copy(working, objects)

	return buildBVH(working, sampler, policy)
}

// NewBVHFromList builds a hierarchy over every object of a list
func NewBVHFromList(list *HittableList, sampler core.Sampler, policy SplitPolicy) *BVHNode {
	return NewBVHNode(list.Objects(), sampler, policy)
}

func buildBVH(objects []Hittable, sampler core.Sampler, policy SplitPolicy) *BVHNode {
	node := &BVHNode{}
	axis := chooseAxis(objects, sampler, policy)

	switch len(objects) {
	case 1:
		node.Left = objects[0]
		node.bbox = objects[0].BoundingBox()
		return node
	case 2:
		if boxCompare(objects[0], objects[1], axis) {
			node.Left, node.Right = objects[0], objects[1]
		} else {
			node.Left, node.Right = objects[1], objects[0]
		}
	default:
		sort.SliceStable(objects, func(i, j int) bool {
			return boxCompare(objects[i], objects[j], axis)
		})

		mid := len(objects) / 2
		node.Left = buildBVH(objects[:mid], sampler, policy)
		node.Right = buildBVH(objects[mid:], sampler, policy)
	}

	node.bbox = core.NewAABBFromBoxes(node.Left.BoundingBox(), node.Right.BoundingBox())
	return node
}

func chooseAxis(objects []Hittable, sampler core.Sampler, policy SplitPolicy) core.Axis {
	if policy == SplitLongestAxis {
		bbox := core.EmptyAABB
		for _, object := range objects {
			bbox = bbox.Union(object.BoundingBox())
		}
		return bbox.LongestAxis()
	}
	return core.AxisFromIndex(min(int(sampler.Get1D()*3), 2))
}

// boxCompare orders objects by the low end of their boxes along axis
func boxCompare(a, b Hittable, axis core.Axis) bool {
	return a.BoundingBox().AxisInterval(axis).Min < b.BoundingBox().AxisInterval(axis).Min
}

// Hit tests the ray against the node's box, then both children
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	if !n.bbox.Hit(ray, rayT) {
		return false
	}

	hitLeft := n.Left.Hit(ray, rayT, rec)
	if n.Right == nil {
		return hitLeft
	}

	// Right can only win with a closer hit
	rightT := rayT
	if hitLeft {
		rightT.Max = rec.T
	}
	var rightRec material.HitRecord
	if n.Right.Hit(ray, rightT, &rightRec) {
		*rec = rightRec
		return true
	}
	return hitLeft
}

// BoundingBox returns the union of the children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// Stats walks the hierarchy and summarizes its shape
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafObjects > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafObjects)
	}
	return stats
}

func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	for _, child := range [2]Hittable{n.Left, n.Right} {
		if child == nil {
			continue
		}
		if sub, ok := child.(*BVHNode); ok {
			sub.collectStats(depth+1, stats)
		} else {
			// Objects hang one level below the node that owns them
			stats.LeafObjects++
			stats.AvgDepth += float64(depth + 1)
			if depth+1 > stats.MaxDepth {
				stats.MaxDepth = depth + 1
			}
		}
	}
}
