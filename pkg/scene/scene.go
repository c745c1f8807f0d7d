package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrUnknownScene is returned by Create for a name that is not registered
var ErrUnknownScene = errors.New("unknown scene")

// bvhMinObjects is the object count from which a scene's world is wrapped in a BVH
const bvhMinObjects = 8

// Scene contains all the elements needed for rendering
type Scene struct {
	Info           Info
	World          geometry.Hittable   // Objects in the scene, possibly behind a BVH
	Objects        []geometry.Hittable // Top-level objects, in build order
	Primitives     int                 // Number of objects in World
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
}

// Overrides replaces a scene's defaults. Zero fields keep the scene's value.
type Overrides struct {
	Camera   renderer.CameraConfig
	Sampling renderer.SamplingConfig
}

// Create builds the named scene with overrides applied. The seed used to place
// random objects and split the BVH is the merged SamplingConfig.Seed.
func Create(name string, overrides Overrides) (*Scene, error) {
	def, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	cameraConfig := renderer.MergeCameraConfig(def.camera(), overrides.Camera)
	samplingConfig := renderer.MergeSamplingConfig(def.sampling(), overrides.Sampling)

	// Scene construction gets its own stream so it never shares state with rendering
	sampler := core.NewSeededSampler(samplingConfig.Seed)
	list := def.build(sampler)

	var world geometry.Hittable = list
	if list.Len() >= bvhMinObjects {
		world = geometry.NewBVHFromList(list, sampler, samplingConfig.SplitPolicy)
	}

	return &Scene{
		Info:           def.info,
		World:          world,
		Objects:        list.Objects(),
		Primitives:     list.Len(),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}, nil
}

// NewRaytracer creates a raytracer for the scene
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, renderer.NewCamera(s.CameraConfig), s.SamplingConfig, logger)
}

// BVHStats returns the shape of the scene's BVH, if the world has one
func (s *Scene) BVHStats() (geometry.BVHStats, bool) {
	bvh, ok := s.World.(*geometry.BVHNode)
	if !ok {
		return geometry.BVHStats{}, false
	}
	return bvh.Stats(), true
}
