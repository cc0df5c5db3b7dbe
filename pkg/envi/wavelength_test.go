package envi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWavelengths(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		bands    int
		want     []float64
		fallback bool
	}{
		{"commas", "{400.5, 410, 420.25}", 3, []float64{400.5, 410, 420.25}, false},
		{"spaces", "{400.5 410 420.25 }", 3, []float64{400.5, 410, 420.25}, false},
		{"no spaces", "{1,2,3}", 3, []float64{1, 2, 3}, false},
		{"multi line", "{\n 1.5,\n 2.5,\n 3.5\n}", 3, []float64{1.5, 2.5, 3.5}, false},
		{"extra values ignored", "{1, 2, 3, 4}", 2, []float64{1, 2}, false},
		{"not monotonic", "{900, 450, 700}", 3, []float64{900, 450, 700}, false},
		{"leading text", "nm {5, 6}", 2, []float64{5, 6}, false},
		{"too few", "{1, 2}", 3, []float64{0, 1, 2}, true},
		{"no brace", "1, 2, 3", 3, []float64{0, 1, 2}, true},
		{"empty", "", 2, []float64{0, 1}, true},
		{"garbage token", "{1, x, 3}", 3, []float64{0, 1, 2}, true},
		{"values after close ignored", "{1, 2} 3", 3, []float64{0, 1, 2}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fallback := ParseWavelengths(tc.value, tc.bands)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.fallback, fallback)
			assert.Len(t, got, tc.bands)
		})
	}
}

func TestParseWavelengths_MalformedFiveBands(t *testing.T) {
	for _, value := range []string{
		"{400, 410, 420",
		"{400, 410, 420, 430",
		"{400, 410, abc, 430, 440}",
		"{",
		"{}",
		"400 410 420 430 440",
	} {
		got, fallback := ParseWavelengths(value, 5)
		assert.Equal(t, []float64{0, 1, 2, 3, 4}, got, value)
		assert.True(t, fallback, value)
	}
}

func TestParseWavelengths_NoBands(t *testing.T) {
	got, fallback := ParseWavelengths("{1, 2}", 0)
	assert.Empty(t, got)
	assert.False(t, fallback)
}
