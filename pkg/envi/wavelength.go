package envi

import (
	"strconv"
	"strings"
)

// ParseWavelengths extracts exactly bands wavelengths from a brace-delimited
// list such as "{400.5, 402.1, 403.7}". Tokens may be separated by commas,
// whitespace or both, and the list may span several lines.
//
// When the list cannot supply bands numbers (no opening brace, a token that
// is not a number, or too few tokens) the partial result is dropped and the
// band indices 0, 1, ..., bands-1 are returned instead, with fallback set.
func ParseWavelengths(value string, bands int) (wavelengths []float64, fallback bool) {
	if bands <= 0 {
		return []float64{}, false
	}

	open := strings.IndexByte(value, '{')
	if open < 0 {
		return indexWavelengths(bands), true
	}
	body := value[open+1:]
	if end := strings.IndexByte(body, '}'); end >= 0 {
		body = body[:end]
	}

	tokens := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(tokens) < bands {
		return indexWavelengths(bands), true
	}

	wavelengths = make([]float64, bands)
	for i := 0; i < bands; i++ {
		v, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return indexWavelengths(bands), true
		}
		wavelengths[i] = v
	}
	return wavelengths, false
}

// indexWavelengths returns 0, 1, ..., bands-1.
func indexWavelengths(bands int) []float64 {
	out := make([]float64, bands)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
