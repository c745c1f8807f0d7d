package renderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestQuantizeChannel(t *testing.T) {
	tests := []struct {
		name   string
		linear float64
		want   int
	}{
		{"zero", 0, 0},
		{"negative", -0.5, 0},
		{"quarter", 0.25, 128},
		{"one", 1.0, 255},
		{"overexposed", 4.0, 255},
		{"positive infinity", math.Inf(1), 255},
		{"negative infinity", math.Inf(-1), 0},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeChannel(tt.linear); got != tt.want {
				t.Errorf("QuantizeChannel(%v) = %d, want %d", tt.linear, got, tt.want)
			}
		})
	}
}

func TestQuantizeChannel_Monotonic(t *testing.T) {
	prev := QuantizeChannel(-0.1)
	for x := -0.1; x <= 2.0; x += 1e-4 {
		got := QuantizeChannel(x)
		if got < prev {
			t.Fatalf("Quantization decreased at %f: %d < %d", x, got, prev)
		}
		if got < 0 || got > 255 {
			t.Fatalf("Quantized value %d out of range at %f", got, x)
		}
		prev = got
	}
}

func TestLinearToGamma(t *testing.T) {
	if got := LinearToGamma(0.81); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("LinearToGamma(0.81) = %f, want 0.9", got)
	}
	if got := LinearToGamma(-1); got != 0 {
		t.Errorf("LinearToGamma(-1) = %f, want 0", got)
	}
}

func TestWriteColor_AveragesSamples(t *testing.T) {
	var buf bytes.Buffer

	// Four samples summing to 1 per channel average to 0.25, gamma 0.5
	if err := WriteColor(&buf, core.NewVec3(1, 4, 0), 4); err != nil {
		t.Fatalf("WriteColor failed: %v", err)
	}
	if got, want := buf.String(), "128 255 0\n"; got != want {
		t.Errorf("WriteColor wrote %q, want %q", got, want)
	}
}

func TestToRGBA_NaNBecomesBlack(t *testing.T) {
	c := ToRGBA(core.NewVec3(math.NaN(), 1, math.NaN()), 1)
	if c.R != 0 || c.G != 255 || c.B != 0 || c.A != 255 {
		t.Errorf("Unexpected pixel %+v", c)
	}
}
