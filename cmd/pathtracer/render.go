package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a built-in scene to a PPM image.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	policy, err := geometry.ParseSplitPolicy(ctx.String("split"))
	if err != nil {
		return err
	}

	sc, err := scene.Create(ctx.String("scene"), scene.Overrides{
		Camera: renderer.CameraConfig{
			Width:       ctx.Int("width"),
			AspectRatio: ctx.Float64("aspect"),
			VFov:        ctx.Float64("vfov"),
		},
		Sampling: renderer.SamplingConfig{
			SamplesPerPixel: ctx.Int("spp"),
			MaxDepth:        ctx.Int("depth"),
			Seed:            ctx.Int64("seed"),
			NumWorkers:      ctx.Int("workers"),
			SplitPolicy:     policy,
		},
	})
	if err != nil {
		return err
	}

	logger.Noticef("scene %q: %d objects", sc.Info.ID, sc.Primitives)
	if stats, ok := sc.BVHStats(); ok {
		logger.Infof("BVH statistics (%s split)\n%s", sc.SamplingConfig.SplitPolicy, bvhTable(stats))
	}

	out, closeOut, err := openOutput(ctx.String("out"), ctx.App.Writer)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := sc.NewRaytracer(log.New("renderer")).Render(runCtx, out)
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logger.Noticef("render statistics\n%s", stats.Table())
	return nil
}

// openOutput opens the PPM destination; "-" writes to stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

func bvhTable(stats geometry.BVHStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Nodes", "Leaf objects", "Max depth", "Avg leaf depth"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalNodes),
		fmt.Sprintf("%d", stats.LeafObjects),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%.2f", stats.AvgDepth),
	})
	table.Render()
	return buf.String()
}
