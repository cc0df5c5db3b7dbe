// Package cube holds an in-memory hyperspectral raster.
//
// A Cube is a dense float32 buffer logically indexed [line][band][sample],
// the same band-interleaved-by-line order used on disk. The dimensions are
// carried alongside the buffer so that readers, normalizers and writers can
// hand the cube to each other without tracking sizes separately.
package cube

import (
	"fmt"
	"math"
)

// Cube is a lines × bands × samples raster stored in BIL order.
type Cube struct {
	// Lines is the number of image lines (rows)
	Lines int

	// Bands is the number of spectral bands
	Bands int

	// Samples is the number of pixels per line
	Samples int

	// Data holds Lines*Bands*Samples values. Within one line all samples of
	// band 0 come first, then all samples of band 1, and so on.
	Data []float32
}

// New allocates a zero-filled cube with the given dimensions.
func New(lines, bands, samples int) *Cube {
	if lines < 0 || bands < 0 || samples < 0 {
		panic(fmt.Sprintf("cube: negative dimensions %dx%dx%d", lines, bands, samples))
	}
	return &Cube{
		Lines:   lines,
		Bands:   bands,
		Samples: samples,
		Data:    make([]float32, lines*bands*samples),
	}
}

// FromData wraps an existing buffer. The buffer length must match the
// dimensions exactly.
func FromData(lines, bands, samples int, data []float32) (*Cube, error) {
	if lines < 0 || bands < 0 || samples < 0 {
		return nil, fmt.Errorf("negative dimensions %dx%dx%d", lines, bands, samples)
	}
	if len(data) != lines*bands*samples {
		return nil, fmt.Errorf("buffer holds %d values, dimensions %dx%dx%d need %d",
			len(data), lines, bands, samples, lines*bands*samples)
	}
	return &Cube{Lines: lines, Bands: bands, Samples: samples, Data: data}, nil
}

// Len returns the number of values the dimensions describe.
func (c *Cube) Len() int {
	return c.Lines * c.Bands * c.Samples
}

// LineLen returns the number of values in one line (all bands).
func (c *Cube) LineLen() int {
	return c.Bands * c.Samples
}

// Empty reports whether the cube has zero area.
func (c *Cube) Empty() bool {
	return c.Len() == 0
}

// Index returns the position of (line, band, sample) in Data.
func (c *Cube) Index(line, band, sample int) int {
	return line*c.Bands*c.Samples + band*c.Samples + sample
}

// At returns the value at (line, band, sample).
func (c *Cube) At(line, band, sample int) float32 {
	return c.Data[c.Index(line, band, sample)]
}

// Set stores v at (line, band, sample).
func (c *Cube) Set(line, band, sample int, v float32) {
	c.Data[c.Index(line, band, sample)] = v
}

// Line returns the slice of Data holding one full line. The returned slice
// aliases the cube.
func (c *Cube) Line(line int) []float32 {
	n := c.LineLen()
	return c.Data[line*n : (line+1)*n]
}

// Band copies one band into a new row-major lines × samples slice.
func (c *Cube) Band(band int) []float32 {
	out := make([]float32, c.Lines*c.Samples)
	for i := 0; i < c.Lines; i++ {
		start := c.Index(i, band, 0)
		copy(out[i*c.Samples:(i+1)*c.Samples], c.Data[start:start+c.Samples])
	}
	return out
}

// Spectrum copies the values of every band at one pixel.
func (c *Cube) Spectrum(line, sample int) []float32 {
	out := make([]float32, c.Bands)
	for b := 0; b < c.Bands; b++ {
		out[b] = c.Data[c.Index(line, b, sample)]
	}
	return out
}

// Contains reports whether (line, sample) lies inside the cube.
func (c *Cube) Contains(line, sample int) bool {
	return line >= 0 && line < c.Lines && sample >= 0 && sample < c.Samples
}

// Equal reports whether two cubes have the same dimensions and bit-identical
// values.
func (c *Cube) Equal(o *Cube) bool {
	if c.Lines != o.Lines || c.Bands != o.Bands || c.Samples != o.Samples {
		return false
	}
	if len(c.Data) != len(o.Data) {
		return false
	}
	for i := range c.Data {
		if math.Float32bits(c.Data[i]) != math.Float32bits(o.Data[i]) {
			return false
		}
	}
	return true
}
