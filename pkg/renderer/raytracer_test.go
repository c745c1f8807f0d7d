package renderer

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MockMaterial implements material.Material for testing
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool)
}

func (m MockMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return m.scatterFn(rayIn, hit, sampler)
}

// MockHittable implements geometry.Hittable for testing
type MockHittable struct {
	hitFn func(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool
}

func (m MockHittable) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	return m.hitFn(ray, rayT, rec)
}

func (m MockHittable) BoundingBox() core.AABB {
	return core.UniverseAABB
}

// floorWith returns a world that every downward ray hits at t=1 with mat
func floorWith(mat material.Material) geometry.Hittable {
	return MockHittable{hitFn: func(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
		if ray.Direction.Y >= 0 || !rayT.Surrounds(1) {
			return false
		}
		rec.T = 1
		rec.Point = ray.At(1)
		rec.Normal = core.NewVec3(0, 1, 0)
		rec.FrontFace = true
		rec.Material = mat
		return true
	}}
}

func bounceUp(attenuation core.Color) *MockMaterial {
	return &MockMaterial{scatterFn: func(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
		return material.ScatterResult{
			Scattered:   core.NewRayAt(hit.Point, core.NewVec3(0, 1, 0), rayIn.Time),
			Attenuation: attenuation,
		}, true
	}}
}

func newTestRaytracer(world geometry.Hittable, config SamplingConfig) *Raytracer {
	return NewRaytracer(world, NewCamera(DefaultCameraConfig()), config, nil)
}

func vecNear(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func TestRayColor_Sky(t *testing.T) {
	rt := newTestRaytracer(nil, DefaultSamplingConfig())

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -3), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.RayColor(core.NewRay(core.Vec3{}, tt.direction), 10, constSampler{})
			if !vecNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRayColor_DepthZeroIsBlack(t *testing.T) {
	rt := newTestRaytracer(nil, DefaultSamplingConfig())
	if got := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), 0, constSampler{}); got != (core.Color{}) {
		t.Errorf("Expected black at depth 0, got %v", got)
	}
}

func TestRayColor_AttenuationAndDepth(t *testing.T) {
	rt := newTestRaytracer(floorWith(bounceUp(core.NewVec3(0.5, 0.25, 1))), DefaultSamplingConfig())
	down := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// One bounce needs two segments: the floor hit and the escape
	var stats RenderStats
	if got := rt.rayColor(down, 1, constSampler{}, &stats); got != (core.Color{}) {
		t.Errorf("Expected black when the bounce budget runs out, got %v", got)
	}
	if stats.DepthExhausted != 1 || stats.Rays != 1 {
		t.Errorf("Expected one exhausted path after one segment, got %+v", stats)
	}

	stats = RenderStats{}
	got := rt.rayColor(down, 2, constSampler{}, &stats)
	expected := core.NewVec3(0.5*0.5, 0.25*0.7, 1.0)
	if !vecNear(got, expected) {
		t.Errorf("Expected attenuated sky %v, got %v", expected, got)
	}
	if stats.Escaped != 1 || stats.Rays != 2 {
		t.Errorf("Expected one escaped path after two segments, got %+v", stats)
	}
}

func TestRayColor_Absorbed(t *testing.T) {
	absorber := &MockMaterial{scatterFn: func(core.Ray, material.HitRecord, core.Sampler) (material.ScatterResult, bool) {
		return material.ScatterResult{}, false
	}}

	tests := []struct {
		name string
		mat  material.Material
	}{
		{"absorbing material", absorber},
		{"missing material", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRaytracer(floorWith(tt.mat), DefaultSamplingConfig())
			var stats RenderStats
			got := rt.rayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), 50, constSampler{}, &stats)
			if got != (core.Color{}) {
				t.Errorf("Expected black, got %v", got)
			}
			if stats.Absorbed != 1 {
				t.Errorf("Expected one absorbed path, got %+v", stats)
			}
		})
	}
}

// singleSphereRaytracer is the reference scene: a diffuse sphere of radius 0.5
// at (0,0,-1) seen from the origin with a 90 degree field of view
func singleSphereRaytracer(width, depth, workers int, seed int64) *Raytracer {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	cameraConfig := DefaultCameraConfig()
	cameraConfig.Width = width
	sampling := SamplingConfig{SamplesPerPixel: 1, MaxDepth: depth, Seed: seed, NumWorkers: workers}
	return NewRaytracer(world, NewCamera(cameraConfig), sampling, nil)
}

func renderPPM(t *testing.T, rt *Raytracer) (string, RenderStats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := rt.Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String(), stats
}

// expectedSky quantizes the background seen through the center of pixel (i, j)
func expectedSky(rt *Raytracer, i, j int) rgb {
	c := ToRGBA(backgroundGradient(rt.Camera().GetRay(i, j, constSampler{})), 1)
	return rgb{int(c.R), int(c.G), int(c.B)}
}

func near(a, b rgb, slack int) bool {
	abs := func(x int) int {
		if x < 0 {
			return -x
		}
		return x
	}
	return abs(a.R-b.R) <= slack && abs(a.G-b.G) <= slack && abs(a.B-b.B) <= slack
}

func TestRender_SingleSphere(t *testing.T) {
	rt := singleSphereRaytracer(32, 1, 0, 42)
	out, stats := renderPPM(t, rt)

	width, height, pixels := parsePPMString(t, out)
	if width != 32 || height != 18 {
		t.Fatalf("Expected 32x18 image, got %dx%d", width, height)
	}

	// Depth 1 leaves no bounce after the sphere hit, so its pixels are black
	if center := pixels[height/2][width/2]; center != (rgb{}) {
		t.Errorf("Expected black sphere center at depth 1, got %+v", center)
	}

	// Corners see the sky gradient
	for _, p := range [][2]int{{0, 0}, {width - 1, 0}, {0, height - 1}, {width - 1, height - 1}} {
		i, j := p[0], p[1]
		if got, want := pixels[j][i], expectedSky(rt, i, j); !near(got, want, 4) {
			t.Errorf("Pixel (%d,%d) = %+v, expected sky %+v", i, j, got, want)
		}
	}

	if stats.TotalPixels != width*height || stats.TotalSamples != width*height {
		t.Errorf("Unexpected sample counts %+v", stats)
	}
	if stats.Escaped+stats.Absorbed+stats.DepthExhausted != int64(stats.TotalSamples) {
		t.Errorf("Every camera ray should end exactly one way: %+v", stats)
	}
	if stats.DepthExhausted == 0 || stats.Escaped == 0 {
		t.Errorf("Expected both sphere and sky pixels: %+v", stats)
	}
}

func TestRender_SingleSphereShaded(t *testing.T) {
	rt := singleSphereRaytracer(32, 10, 0, 42)
	out, _ := renderPPM(t, rt)
	_, height, pixels := parsePPMString(t, out)

	center := pixels[height/2][16]
	if center == (rgb{}) {
		t.Error("Expected lit sphere with bounces available")
	}
	if near(center, expectedSky(rt, 16, height/2), 2) {
		t.Errorf("Expected sphere pixel to differ from the sky, got %+v", center)
	}
}

func TestRender_Deterministic(t *testing.T) {
	first, _ := renderPPM(t, singleSphereRaytracer(24, 5, 1, 7))
	second, _ := renderPPM(t, singleSphereRaytracer(24, 5, 4, 7))
	if first != second {
		t.Error("Expected identical images for the same seed regardless of worker count")
	}

	other, _ := renderPPM(t, singleSphereRaytracer(24, 5, 4, 8))
	if first == other {
		t.Error("Expected a different seed to change the image")
	}
}

func TestRender_EmptySceneIsSky(t *testing.T) {
	cameraConfig := DefaultCameraConfig()
	cameraConfig.Width = 20
	rt := NewRaytracer(geometry.NewHittableList(), NewCamera(cameraConfig), SamplingConfig{SamplesPerPixel: 2, MaxDepth: 5, Seed: 1}, nil)

	out, stats := renderPPM(t, rt)
	width, height, pixels := parsePPMString(t, out)

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			if got, want := pixels[j][i], expectedSky(rt, i, j); !near(got, want, 4) {
				t.Fatalf("Pixel (%d,%d) = %+v, expected sky %+v", i, j, got, want)
			}
		}
	}
	// Red fades toward the zenith
	if pixels[0][width/2].R > pixels[height-1][width/2].R {
		t.Errorf("Expected top row to be bluer than bottom row")
	}
	if stats.Escaped != int64(stats.TotalSamples) || stats.Rays != int64(stats.TotalSamples) {
		t.Errorf("Expected every camera ray to escape immediately: %+v", stats)
	}
}

func TestRenderImage_MatchesPPM(t *testing.T) {
	out, _ := renderPPM(t, singleSphereRaytracer(16, 4, 2, 3))
	_, _, pixels := parsePPMString(t, out)

	img, stats, err := singleSphereRaytracer(16, 4, 3, 3).RenderImage(context.Background())
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	for j := range pixels {
		for i := range pixels[j] {
			c := img.RGBAAt(i, j)
			if (rgb{int(c.R), int(c.G), int(c.B)}) != pixels[j][i] {
				t.Fatalf("Pixel (%d,%d) differs between PPM and image", i, j)
			}
		}
	}
	if lum := CalculateAverageLuminance(img); math.Abs(lum-stats.AverageLuminance) > 1e-9 {
		t.Errorf("Expected stats luminance %f to match image luminance %f", stats.AverageLuminance, lum)
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		sampling SamplingConfig
		width    int
	}{
		{"zero samples", SamplingConfig{SamplesPerPixel: 0, MaxDepth: 5}, 10},
		{"negative depth", SamplingConfig{SamplesPerPixel: 1, MaxDepth: -1}, 10},
		{"negative workers", SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1, NumWorkers: -2}, 10},
		{"zero width", SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cameraConfig := DefaultCameraConfig()
			cameraConfig.Width = tt.width
			rt := NewRaytracer(nil, NewCamera(cameraConfig), tt.sampling, nil)

			var buf bytes.Buffer
			if _, err := rt.Render(context.Background(), &buf); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("Expected no output for an invalid config, got %d bytes", buf.Len())
			}
		})
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := singleSphereRaytracer(200, 50, 2, 1)
	rt.config.SamplesPerPixel = 20
	var buf bytes.Buffer
	if _, err := rt.Render(ctx, &buf); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	merged := MergeSamplingConfig(DefaultSamplingConfig(), SamplingConfig{SamplesPerPixel: 4, Seed: 9, SplitPolicy: geometry.SplitLongestAxis})
	if merged.SamplesPerPixel != 4 || merged.Seed != 9 || merged.SplitPolicy != geometry.SplitLongestAxis {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.MaxDepth != 50 {
		t.Errorf("Expected default depth 50, got %d", merged.MaxDepth)
	}
}

func BenchmarkRenderRow(b *testing.B) {
	rt := singleSphereRaytracer(200, 10, 1, 42)
	rt.config.SamplesPerPixel = 4
	for i := 0; i < b.N; i++ {
		rt.RenderRow(i%rt.camera.Height(), rt.RowSampler(i))
	}
}
