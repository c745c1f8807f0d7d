package renderer

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Create a 2x2 image
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0

	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 1.0 / 4 = 0.25

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	// 1x1 White pixel -> Lum = 1.0
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestRenderStats_AddAndTable(t *testing.T) {
	stats := RenderStats{Width: 4, Height: 2, SamplesPerPixel: 3, Workers: 2}
	stats.Add(RenderStats{TotalPixels: 4, TotalSamples: 12, Rays: 20, Escaped: 5, Absorbed: 4, DepthExhausted: 3})
	stats.Add(RenderStats{TotalPixels: 4, TotalSamples: 12, Rays: 10, Escaped: 12})
	stats.Duration = 2 * time.Second

	if stats.TotalPixels != 8 || stats.TotalSamples != 24 || stats.Rays != 30 {
		t.Errorf("Unexpected totals %+v", stats)
	}
	if stats.Escaped+stats.Absorbed+stats.DepthExhausted != int64(stats.TotalSamples) {
		t.Errorf("Every camera ray should end exactly one way: %+v", stats)
	}
	if stats.Width != 4 || stats.Workers != 2 {
		t.Errorf("Add should leave image-wide fields alone: %+v", stats)
	}
	if got := stats.RaysPerSecond(); got != 15 {
		t.Errorf("Expected 15 rays/sec, got %f", got)
	}

	table := stats.Table()
	for _, want := range []string{"Statistic", "4x2", "Ray segments", "30", "Rays/sec", "15"} {
		if !strings.Contains(table, want) {
			t.Errorf("Expected table to contain %q:\n%s", want, table)
		}
	}
}
