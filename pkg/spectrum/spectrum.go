// Package spectrum extracts the spectrum of a single pixel from a cube.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hyview/pkg/cube"
)

// ErrOutOfRange is returned for a pixel outside the cube.
var ErrOutOfRange = errors.New("pixel out of range")

// Spectrum is the intensity of one pixel across bands. Bands with NaN or
// infinite values are left out, together with their wavelengths, so
// Wavelengths and Values always have the same length.
type Spectrum struct {
	Line   int
	Sample int

	// Wavelengths of the kept bands, in band order
	Wavelengths []float64

	// Values of the kept bands
	Values []float64

	// Dropped counts the bands removed for holding invalid values
	Dropped int
}

// Extract returns the spectrum at (line, sample). wavelengths must hold one
// value per band.
func Extract(c *cube.Cube, wavelengths []float64, line, sample int) (*Spectrum, error) {
	if !c.Contains(line, sample) {
		return nil, fmt.Errorf("%w: line %d sample %d not in %dx%d",
			ErrOutOfRange, line, sample, c.Lines, c.Samples)
	}
	if len(wavelengths) != c.Bands {
		return nil, fmt.Errorf("have %d wavelengths for %d bands", len(wavelengths), c.Bands)
	}

	sp := &Spectrum{
		Line:        line,
		Sample:      sample,
		Wavelengths: make([]float64, 0, c.Bands),
		Values:      make([]float64, 0, c.Bands),
	}
	for b, raw := range c.Spectrum(line, sample) {
		v := float64(raw)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sp.Dropped++
			continue
		}
		sp.Wavelengths = append(sp.Wavelengths, wavelengths[b])
		sp.Values = append(sp.Values, v)
	}
	return sp, nil
}

// Len returns the number of valid bands.
func (s *Spectrum) Len() int {
	return len(s.Values)
}

// Peak returns the wavelength and value of the strongest band. ok is false
// for an empty spectrum.
func (s *Spectrum) Peak() (wavelength, value float64, ok bool) {
	if len(s.Values) == 0 {
		return 0, 0, false
	}
	i := floats.MaxIdx(s.Values)
	return s.Wavelengths[i], s.Values[i], true
}

// MeanStdDev returns the mean and sample standard deviation of the values.
func (s *Spectrum) MeanStdDev() (mean, std float64) {
	if len(s.Values) == 0 {
		return math.NaN(), math.NaN()
	}
	if len(s.Values) == 1 {
		return s.Values[0], 0
	}
	return stat.MeanStdDev(s.Values, nil)
}
