package renderer

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int           // Image width in pixels
	Height           int           // Image height in pixels
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of camera rays
	SamplesPerPixel  int           // Samples taken for every pixel
	Rays             int64         // Ray segments intersected against the world
	Escaped          int64         // Paths that reached the sky
	Absorbed         int64         // Paths ended by a material absorbing the ray
	DepthExhausted   int64         // Paths cut off by the bounce limit
	Workers          int           // Number of parallel workers
	AverageLuminance float64       // Mean luminance of the quantized image in [0, 1]
	Duration         time.Duration // Wall-clock render time
}

// Add accumulates another set of counters into s. Image-wide fields are left untouched.
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.Rays += other.Rays
	s.Escaped += other.Escaped
	s.Absorbed += other.Absorbed
	s.DepthExhausted += other.DepthExhausted
}

// RaysPerSecond returns the ray throughput, or 0 before the render finished
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Duration.Seconds()
}

// Table renders the statistics as a two-column text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Samples per pixel", fmt.Sprintf("%d", s.SamplesPerPixel)},
		{"Camera rays", fmt.Sprintf("%d", s.TotalSamples)},
		{"Ray segments", fmt.Sprintf("%d", s.Rays)},
		{"Escaped to sky", fmt.Sprintf("%d", s.Escaped)},
		{"Absorbed", fmt.Sprintf("%d", s.Absorbed)},
		{"Depth exhausted", fmt.Sprintf("%d", s.DepthExhausted)},
		{"Average luminance", fmt.Sprintf("%.4f", s.AverageLuminance)},
		{"Workers", fmt.Sprintf("%d", s.Workers)},
		{"Render time", s.Duration.Round(time.Millisecond).String()},
		{"Rays/sec", fmt.Sprintf("%.0f", s.RaysPerSecond())},
	})
	table.Render()
	return buf.String()
}

// Rec. 709 luma weights, applied to 8-bit display values
func pixelLuminance(r, g, b uint8) float64 {
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255.0
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	sum := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum += pixelLuminance(c.R, c.G, c.B)
		}
	}
	return sum / float64(pixels)
}

// rowLuminance sums the luminance of a row of accumulated colors after quantization
func rowLuminance(row []core.Color, samples int) float64 {
	sum := 0.0
	for _, pixel := range row {
		c := ToRGBA(pixel, samples)
		sum += pixelLuminance(c.R, c.G, c.B)
	}
	return sum
}
