package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyview/pkg/config"
	"hyview/pkg/envi"
)

func testHeader() *envi.Header {
	return &envi.Header{Samples: 100, Bands: 3, Lines: 50, DataType: envi.Float32}
}

func TestSelectionFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Subset.StartSample = 1
	cfg.Subset.EndSample = 2
	cfg.Subset.StartLine = 3
	cfg.Subset.EndLine = 4
	assert.Equal(t, Selection{1, 2, 3, 4}, SelectionFromConfig(cfg))
}

func TestOverride(t *testing.T) {
	base := Selection{StartSample: 5, EndSample: 50, StartLine: 2, EndLine: 20}
	got := base.Override(Selection{EndSample: 80, StartLine: 7})
	assert.Equal(t, Selection{StartSample: 5, EndSample: 80, StartLine: 7, EndLine: 20}, got)
	assert.Equal(t, base, base.Override(Selection{}))
}

func TestResolve_Defaults(t *testing.T) {
	h := testHeader()

	subset, err := Selection{}.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, envi.FullExtent(h), subset)

	subset, err = Selection{StartSample: 10, StartLine: 5, EndLine: 6}.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, envi.ImageSubset{StartSample: 10, EndSample: 100, StartLine: 5, EndLine: 6}, subset)
}

func TestResolve_Invalid(t *testing.T) {
	h := testHeader()
	for _, sel := range []Selection{
		{EndSample: 101},
		{EndLine: 51},
		{StartSample: 20, EndSample: 10},
		{StartLine: 51},
	} {
		_, err := sel.Resolve(h)
		assert.ErrorIs(t, err, envi.ErrInvalidSubset, "%+v", sel)
	}
}
