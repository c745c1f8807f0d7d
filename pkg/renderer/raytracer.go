package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidConfig is returned for camera or sampling settings that cannot produce an image
var ErrInvalidConfig = errors.New("invalid render configuration")

// hitInterval starts slightly past zero so a bounced ray cannot re-hit its own origin
var hitInterval = core.NewInterval(0.001, math.Inf(1))

var (
	skyHorizon = core.NewVec3(1.0, 1.0, 1.0)
	skyZenith  = core.NewVec3(0.5, 0.7, 1.0)
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int                  // Number of rays per pixel
	MaxDepth        int                  // Maximum ray bounce depth; 0 renders black
	Seed            int64                // Base seed for the per-row random streams
	NumWorkers      int                  // Number of parallel workers (0 = use CPU count)
	SplitPolicy     geometry.SplitPolicy // Axis policy for BVHs built by scenes
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		NumWorkers:      0,
		SplitPolicy:     geometry.SplitRandomAxis,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.SplitPolicy != 0 {
		result.SplitPolicy = override.SplitPolicy
	}
	return result
}

// Validate reports sampling settings that cannot produce an image
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d must not be negative", ErrInvalidConfig, c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count %d must not be negative", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// Raytracer renders a world through a camera. The world and camera are only read,
// so one Raytracer can be shared by every worker.
type Raytracer struct {
	world  geometry.Hittable
	camera *Camera
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil world renders as an empty scene
// and a nil logger discards output.
func NewRaytracer(world geometry.Hittable, camera *Camera, config SamplingConfig, logger core.Logger) *Raytracer {
	if world == nil {
		world = geometry.NewHittableList()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
		logger: logger,
	}
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// RowSampler returns the deterministic random stream for an image row
func (rt *Raytracer) RowSampler(row int) core.Sampler {
	return core.NewSeededSampler(rt.config.Seed + int64(row))
}

// RayColor returns the radiance carried back along ray after at most depth bounces
func (rt *Raytracer) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Color {
	var stats RenderStats
	return rt.rayColor(ray, depth, sampler, &stats)
}

// rayColor follows one path, multiplying attenuations until the path escapes,
// is absorbed or runs out of bounces
func (rt *Raytracer) rayColor(ray core.Ray, depth int, sampler core.Sampler, stats *RenderStats) core.Color {
	throughput := core.NewVec3(1, 1, 1)
	var rec material.HitRecord

	for remaining := depth; remaining > 0; remaining-- {
		stats.Rays++
		if !rt.world.Hit(ray, hitInterval, &rec) {
			stats.Escaped++
			return throughput.MultiplyVec(backgroundGradient(ray))
		}

		if rec.Material == nil {
			stats.Absorbed++
			return core.Color{}
		}
		scatter, didScatter := rec.Material.Scatter(ray, rec, sampler)
		if !didScatter {
			stats.Absorbed++
			return core.Color{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	stats.DepthExhausted++
	return core.Color{}
}

// backgroundGradient blends white at the horizon into blue overhead
func backgroundGradient(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyHorizon.Multiply(1.0 - t).Add(skyZenith.Multiply(t))
}

// RenderRow renders image row j and returns each pixel's color summed over all samples
func (rt *Raytracer) RenderRow(j int, sampler core.Sampler) ([]core.Color, RenderStats) {
	width := rt.camera.Width()
	spp := rt.config.SamplesPerPixel
	pixels := make([]core.Color, width)
	stats := RenderStats{TotalPixels: width, TotalSamples: width * spp}

	for i := 0; i < width; i++ {
		var colorAccum core.Color
		for s := 0; s < spp; s++ {
			ray := rt.camera.GetRay(i, j, sampler)
			colorAccum = colorAccum.Add(rt.rayColor(ray, rt.config.MaxDepth, sampler, &stats))
		}
		pixels[i] = colorAccum
	}

	return pixels, stats
}

// Render streams the image as a P3 PPM to w, rows in top-to-bottom order
func (rt *Raytracer) Render(ctx context.Context, w io.Writer) (RenderStats, error) {
	if err := rt.validate(); err != nil {
		return RenderStats{}, err
	}

	ppm := NewPPMWriter(w, rt.camera.Width(), rt.camera.Height())
	if err := ppm.WriteHeader(); err != nil {
		return RenderStats{}, err
	}

	stats, err := rt.renderRows(ctx, func(row int, pixels []core.Color) error {
		return ppm.WriteRow(pixels, rt.config.SamplesPerPixel)
	})
	if err != nil {
		return stats, err
	}

	if err := ppm.Flush(); err != nil {
		return stats, fmt.Errorf("flushing image: %w", err)
	}
	return stats, nil
}

// RenderImage renders the whole image into memory
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if err := rt.validate(); err != nil {
		return nil, RenderStats{}, err
	}

	img := image.NewRGBA(image.Rect(0, 0, rt.camera.Width(), rt.camera.Height()))
	stats, err := rt.renderRows(ctx, func(row int, pixels []core.Color) error {
		for i, pixel := range pixels {
			img.SetRGBA(i, row, ToRGBA(pixel, rt.config.SamplesPerPixel))
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

func (rt *Raytracer) validate() error {
	if rt.camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidConfig)
	}
	if err := rt.camera.Config().Validate(); err != nil {
		return err
	}
	return rt.config.Validate()
}

// renderRows renders every row in parallel and hands them to emit strictly in
// top-to-bottom order. emit runs on the calling goroutine.
func (rt *Raytracer) renderRows(ctx context.Context, emit func(row int, pixels []core.Color) error) (RenderStats, error) {
	startTime := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()
	spp := rt.config.SamplesPerPixel

	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	pool := NewWorkerPool(rt, min(numWorkers, height))
	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: spp,
		Workers:         pool.NumWorkers(),
	}

	rt.logger.Noticef("rendering %dx%d, %d samples/pixel, max depth %d, %d workers",
		width, height, spp, rt.config.MaxDepth, pool.NumWorkers())

	pool.Start()
	for j := 0; j < height; j++ {
		pool.Submit(RowTask{Row: j})
	}

	pending := make(map[int][]core.Color)
	nextRow := 0
	luminanceSum := 0.0
	var renderErr error

	for nextRow < height && renderErr == nil {
		select {
		case <-ctx.Done():
			renderErr = ctx.Err()
			rt.logger.Warningf("render cancelled with %d scanlines remaining", height-nextRow)
		case result := <-pool.Results():
			stats.Add(result.Stats)
			pending[result.Row] = result.Pixels

			// Emit every row that is now contiguous with what was already written
			for pixels, ok := pending[nextRow]; ok; pixels, ok = pending[nextRow] {
				if err := emit(nextRow, pixels); err != nil {
					renderErr = fmt.Errorf("writing row %d: %w", nextRow, err)
					break
				}
				luminanceSum += rowLuminance(pixels, spp)
				delete(pending, nextRow)
				nextRow++
				rt.logger.Infof("Scanlines remaining: %d", height-nextRow)
			}
		}
	}

	if renderErr != nil {
		pool.Cancel()
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)
	if renderErr != nil {
		return stats, renderErr
	}

	stats.AverageLuminance = luminanceSum / float64(width*height)
	rt.logger.Noticef("render completed in %v (%d rays)", stats.Duration.Round(time.Millisecond), stats.Rays)
	return stats, nil
}
