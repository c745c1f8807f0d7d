package renderer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PPMWriter streams an ASCII (P3) portable pixmap row by row
type PPMWriter struct {
	w           *bufio.Writer
	width       int
	height      int
	rowsWritten int
}

// NewPPMWriter creates a writer for a width x height image
func NewPPMWriter(w io.Writer, width, height int) *PPMWriter {
	return &PPMWriter{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
	}
}

// WriteHeader writes the magic number, dimensions and maximum channel value
func (p *PPMWriter) WriteHeader() error {
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", p.width, p.height)
	return err
}

// WriteRow writes the next row of accumulated colors, top to bottom
func (p *PPMWriter) WriteRow(row []core.Color, samples int) error {
	if len(row) != p.width {
		return fmt.Errorf("ppm: row has %d pixels, image width is %d", len(row), p.width)
	}
	if p.rowsWritten >= p.height {
		return fmt.Errorf("ppm: all %d rows already written", p.height)
	}

	for _, pixel := range row {
		if err := WriteColor(p.w, pixel, samples); err != nil {
			return err
		}
	}
	p.rowsWritten++
	return nil
}

// RowsWritten returns how many rows have been written so far
func (p *PPMWriter) RowsWritten() int {
	return p.rowsWritten
}

// Flush writes any buffered data to the underlying writer
func (p *PPMWriter) Flush() error {
	return p.w.Flush()
}
