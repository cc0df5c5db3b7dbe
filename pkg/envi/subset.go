package envi

import "fmt"

// ImageSubset is a half-open window [StartSample, EndSample) ×
// [StartLine, EndLine) of a raster. Zero-area windows are legal.
type ImageSubset struct {
	StartSample int
	EndSample   int
	StartLine   int
	EndLine     int
}

// FullExtent returns the window covering the whole raster described by h.
func FullExtent(h *Header) ImageSubset {
	return ImageSubset{EndSample: h.Samples, EndLine: h.Lines}
}

// Width returns the number of samples in the window.
func (s ImageSubset) Width() int {
	return s.EndSample - s.StartSample
}

// Height returns the number of lines in the window.
func (s ImageSubset) Height() int {
	return s.EndLine - s.StartLine
}

// Validate checks that the window lies inside [0,samples]×[0,lines] of h
// and that neither range is reversed.
func (s ImageSubset) Validate(h *Header) error {
	if s.StartSample < 0 || s.StartSample > s.EndSample || s.EndSample > h.Samples {
		return fmt.Errorf("%w: samples [%d,%d) outside [0,%d)",
			ErrInvalidSubset, s.StartSample, s.EndSample, h.Samples)
	}
	if s.StartLine < 0 || s.StartLine > s.EndLine || s.EndLine > h.Lines {
		return fmt.Errorf("%w: lines [%d,%d) outside [0,%d)",
			ErrInvalidSubset, s.StartLine, s.EndLine, h.Lines)
	}
	return nil
}

func (s ImageSubset) String() string {
	return fmt.Sprintf("samples [%d,%d) lines [%d,%d)", s.StartSample, s.EndSample, s.StartLine, s.EndLine)
}
