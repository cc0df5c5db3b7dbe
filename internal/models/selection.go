package models

import (
	"hyview/pkg/config"
	"hyview/pkg/envi"
)

// Selection is the image window requested on the command line or in the
// config file, before it is resolved against an actual header
type Selection struct {
	// StartSample is the first pixel of each line to read
	StartSample int

	// EndSample is one past the last pixel; 0 means the end of the line
	EndSample int

	// StartLine is the first line to read
	StartLine int

	// EndLine is one past the last line; 0 means the last line of the image
	EndLine int
}

// SelectionFromConfig copies the subset section of a config.
func SelectionFromConfig(cfg *config.Config) Selection {
	return Selection{
		StartSample: cfg.Subset.StartSample,
		EndSample:   cfg.Subset.EndSample,
		StartLine:   cfg.Subset.StartLine,
		EndLine:     cfg.Subset.EndLine,
	}
}

// Override replaces the fields of s with the non-zero fields of o
func (s Selection) Override(o Selection) Selection {
	if o.StartSample != 0 {
		s.StartSample = o.StartSample
	}
	if o.EndSample != 0 {
		s.EndSample = o.EndSample
	}
	if o.StartLine != 0 {
		s.StartLine = o.StartLine
	}
	if o.EndLine != 0 {
		s.EndLine = o.EndLine
	}
	return s
}

// Resolve fills in the defaults for h and validates the resulting window
func (s Selection) Resolve(h *envi.Header) (envi.ImageSubset, error) {
	subset := envi.ImageSubset{
		StartSample: s.StartSample,
		EndSample:   s.EndSample,
		StartLine:   s.StartLine,
		EndLine:     s.EndLine,
	}
	if subset.EndSample == 0 {
		subset.EndSample = h.Samples
	}
	if subset.EndLine == 0 {
		subset.EndLine = h.Lines
	}
	if err := subset.Validate(h); err != nil {
		return envi.ImageSubset{}, err
	}
	return subset, nil
}
