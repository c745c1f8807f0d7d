package renderer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// constSampler always returns the middle of the unit interval
type constSampler struct{}

func (constSampler) Get1D() float64   { return 0.5 }
func (constSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (constSampler) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }

type rgb struct{ R, G, B int }

// parsePPM reads a P3 image back into rows of pixels
func parsePPM(t *testing.T, r io.Reader) (width, height int, pixels [][]rgb) {
	t.Helper()

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	next := func() string {
		if !scanner.Scan() {
			t.Fatalf("unexpected end of PPM data")
		}
		return scanner.Text()
	}
	nextInt := func() int {
		var v int
		if _, err := fmt.Sscan(next(), &v); err != nil {
			t.Fatalf("bad PPM integer: %v", err)
		}
		return v
	}

	if magic := next(); magic != "P3" {
		t.Fatalf("Expected P3 magic, got %q", magic)
	}
	width, height = nextInt(), nextInt()
	if maxVal := nextInt(); maxVal != 255 {
		t.Fatalf("Expected max value 255, got %d", maxVal)
	}

	pixels = make([][]rgb, height)
	for j := range pixels {
		pixels[j] = make([]rgb, width)
		for i := range pixels[j] {
			pixels[j][i] = rgb{nextInt(), nextInt(), nextInt()}
		}
	}
	if scanner.Scan() {
		t.Fatalf("trailing PPM data: %q", scanner.Text())
	}
	return width, height, pixels
}

func parsePPMString(t *testing.T, s string) (int, int, [][]rgb) {
	t.Helper()
	return parsePPM(t, strings.NewReader(s))
}
