// Package normalize turns one band of a hyperspectral cube into an 8-bit
// grayscale image suitable for display.
//
// The band is scanned once to collect a running mean and variance
// (Welford's method). Pixels are then clipped to mean ± k·stddev and
// stretched linearly over 0..255, which keeps a few hot or dead pixels from
// flattening the contrast of the rest of the band. NaN and infinite values
// never enter the statistics and are drawn as if they were 0.
package normalize

import (
	"errors"
	"fmt"
	"image"
	"math"

	"hyview/pkg/cube"
)

// ErrBandOutOfRange is returned for a band index outside the cube.
var ErrBandOutOfRange = errors.New("band index out of range")

const (
	// DefaultClipSigma is the number of standard deviations kept on each
	// side of the mean.
	DefaultClipSigma = 2.0

	// DefaultConstantLevel is the gray level used when the clip range is
	// empty, e.g. for a band with zero variance.
	DefaultConstantLevel = 128
)

// BandStatistics holds the result of one statistics pass over a band.
type BandStatistics struct {
	// Count is the number of finite values seen
	Count int

	// Mean of the finite values; NaN when Count is 0
	Mean float64

	// M2 is the running sum of squared deviations from the mean
	M2 float64

	// StdDev is the sample standard deviation, 0 when Count < 2
	StdDev float64

	// Min and Max of all scanned values, with invalid values counted as 0
	Min, Max float64

	// ClipLow and ClipHigh bound the display range
	ClipLow, ClipHigh float64
}

// Degenerate reports whether the clip range is empty or not a finite
// positive width, in which case the band is drawn at a constant level.
func (s BandStatistics) Degenerate() bool {
	width := s.ClipHigh - s.ClipLow
	return !(width > 0) || math.IsInf(width, 0)
}

// Normalizer converts bands to display bytes. The zero value is not usable;
// use New or Default.
type Normalizer struct {
	// ClipSigma is the half-width of the display range in standard deviations
	ClipSigma float64

	// ConstantLevel is written to every pixel of a degenerate band
	ConstantLevel uint8
}

// Default returns a Normalizer clipping at mean ± 2σ with mid-gray for
// degenerate bands.
func Default() *Normalizer {
	return &Normalizer{ClipSigma: DefaultClipSigma, ConstantLevel: DefaultConstantLevel}
}

// New returns a Normalizer with the given clip width and constant level.
func New(clipSigma float64, constantLevel uint8) (*Normalizer, error) {
	if clipSigma < 0 || math.IsNaN(clipSigma) || math.IsInf(clipSigma, 0) {
		return nil, fmt.Errorf("clip sigma must be a finite non-negative number, got %v", clipSigma)
	}
	return &Normalizer{ClipSigma: clipSigma, ConstantLevel: constantLevel}, nil
}

// NormalizeBand renders a band of c with the default settings.
func NormalizeBand(c *cube.Cube, band int) ([]byte, error) {
	return Default().Normalize(c, band)
}

// ComputeStatistics runs the statistics pass of the default Normalizer.
func ComputeStatistics(c *cube.Cube, band int) (BandStatistics, error) {
	return Default().Statistics(c, band)
}

// Statistics scans every pixel of the band once.
func (n *Normalizer) Statistics(c *cube.Cube, band int) (BandStatistics, error) {
	if band < 0 || band >= c.Bands {
		return BandStatistics{}, fmt.Errorf("%w: %d not in [0,%d)", ErrBandOutOfRange, band, c.Bands)
	}

	var st BandStatistics
	st.Min = math.Inf(1)
	st.Max = math.Inf(-1)

	for i := 0; i < c.Lines; i++ {
		row := bandRow(c, band, i)
		for _, raw := range row {
			v := float64(raw)
			if finite(v) {
				st.Count++
				delta := v - st.Mean
				st.Mean += delta / float64(st.Count)
				st.M2 += delta * (v - st.Mean)
			} else {
				v = 0
			}
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
		}
	}

	if st.Count == 0 {
		st.Mean = math.NaN()
	}
	if st.Count > 1 {
		st.StdDev = math.Sqrt(st.M2 / float64(st.Count-1))
	}
	if c.Lines*c.Samples == 0 {
		st.Min, st.Max = 0, 0
	}

	if finite(st.Mean) {
		st.ClipLow = st.Mean - n.ClipSigma*st.StdDev
		st.ClipHigh = st.Mean + n.ClipSigma*st.StdDev
	} else {
		st.ClipLow = st.Min
		st.ClipHigh = st.Max
	}
	return st, nil
}

// Normalize renders a band as an RGB buffer, 3 bytes per pixel with equal
// channels, 3*c.Samples bytes per line.
func (n *Normalizer) Normalize(c *cube.Cube, band int) ([]byte, error) {
	st, err := n.Statistics(c, band)
	if err != nil {
		return nil, err
	}
	return n.Render(c, band, st), nil
}

// Render maps a band to RGB bytes using precomputed statistics. Values are
// clamped inclusively into [ClipLow, ClipHigh] and scaled so that ClipLow
// maps to 0 and ClipHigh to 255, truncating toward zero.
func (n *Normalizer) Render(c *cube.Cube, band int, st BandStatistics) []byte {
	out := make([]byte, 3*c.Lines*c.Samples)

	if st.Degenerate() {
		for i := range out {
			out[i] = n.ConstantLevel
		}
		return out
	}

	k := 0
	for i := 0; i < c.Lines; i++ {
		row := bandRow(c, band, i)
		for _, raw := range row {
			g := gray(float64(raw), st.ClipLow, st.ClipHigh)
			out[k], out[k+1], out[k+2] = g, g, g
			k += 3
		}
	}
	return out
}

func gray(v, low, high float64) uint8 {
	if !finite(v) {
		v = 0
	}
	if v > high {
		v = high
	}
	if v < low {
		v = low
	}
	g := (v - low) / (high - low) * 255
	if g >= 255 {
		return 255
	}
	if g <= 0 {
		return 0
	}
	return uint8(g)
}

// bandRow returns the samples of one band on one line, aliasing c.Data.
func bandRow(c *cube.Cube, band, line int) []float32 {
	start := c.Index(line, band, 0)
	return c.Data[start : start+c.Samples]
}

// finite is false for NaN and ±Inf.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ToImage wraps an RGB buffer from Normalize as an opaque RGBA image.
func ToImage(rgb []byte, samples, lines int) (*image.RGBA, error) {
	if len(rgb) != 3*samples*lines {
		return nil, fmt.Errorf("rgb buffer holds %d bytes, %dx%d image needs %d",
			len(rgb), samples, lines, 3*samples*lines)
	}
	img := image.NewRGBA(image.Rect(0, 0, samples, lines))
	for p := 0; p < samples*lines; p++ {
		copy(img.Pix[4*p:4*p+3], rgb[3*p:3*p+3])
		img.Pix[4*p+3] = 0xff
	}
	return img, nil
}
