package renderer

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// intensity is the range a gamma-corrected channel is clamped to before scaling by 256
var intensity = core.NewInterval(0.000, 0.999)

// LinearToGamma applies gamma 2 correction; non-positive inputs map to 0
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// QuantizeChannel converts an averaged linear channel to an 8-bit value. NaN maps to 0.
func QuantizeChannel(linear float64) int {
	if math.IsNaN(linear) {
		return 0
	}
	return int(256 * intensity.Clamp(LinearToGamma(linear)))
}

// QuantizeColor averages an accumulated color over samples and quantizes each channel
func QuantizeColor(pixelColor core.Color, samples int) (r, g, b int) {
	scale := 1.0 / float64(samples)
	return QuantizeChannel(pixelColor.X * scale),
		QuantizeChannel(pixelColor.Y * scale),
		QuantizeChannel(pixelColor.Z * scale)
}

// ToRGBA converts an accumulated color to an opaque RGBA pixel
func ToRGBA(pixelColor core.Color, samples int) color.RGBA {
	r, g, b := QuantizeColor(pixelColor, samples)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

// WriteColor writes one "R G B" line for a color accumulated over samples
func WriteColor(w io.Writer, pixelColor core.Color, samples int) error {
	r, g, b := QuantizeColor(pixelColor, samples)
	_, err := fmt.Fprintf(w, "%d %d %d\n", r, g, b)
	return err
}
