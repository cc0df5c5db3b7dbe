package envi

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRaw stores values with the given encoding after offset zero bytes.
func writeRaw(t *testing.T, path string, offset int, dt DataType, order binary.ByteOrder, values []float64) {
	t.Helper()
	buf := make([]byte, offset+len(values)*dt.Size())
	for i, v := range values {
		p := offset + i*dt.Size()
		switch dt {
		case Float32:
			order.PutUint32(buf[p:], math.Float32bits(float32(v)))
		case UInt16:
			order.PutUint16(buf[p:], uint16(v))
		}
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
}

// rampCube returns a lines×bands×samples BIL buffer where every value
// encodes its coordinates as line*100 + band*10 + sample.
func rampCube(lines, bands, samples int) []float64 {
	out := make([]float64, 0, lines*bands*samples)
	for l := 0; l < lines; l++ {
		for b := 0; b < bands; b++ {
			for s := 0; s < samples; s++ {
				out = append(out, float64(l*100+b*10+s))
			}
		}
	}
	return out
}

func testHeader(lines, bands, samples int, dt DataType) *Header {
	return &Header{
		Samples:     samples,
		Bands:       bands,
		Lines:       lines,
		DataType:    dt,
		ByteOrder:   binary.LittleEndian,
		Interleave:  InterleaveBIL,
		Wavelengths: indexWavelengths(bands),
	}
}

func TestReadImage_FullExtent(t *testing.T) {
	for _, dt := range []DataType{Float32, UInt16} {
		t.Run(dt.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene.img")
			values := rampCube(4, 3, 5)
			writeRaw(t, path, 0, dt, binary.LittleEndian, values)
			h := testHeader(4, 3, 5, dt)

			c, err := ReadImage(path, h, FullExtent(h))
			require.NoError(t, err)
			assert.Equal(t, 4, c.Lines)
			assert.Equal(t, 3, c.Bands)
			assert.Equal(t, 5, c.Samples)
			require.Len(t, c.Data, len(values))
			for i, v := range values {
				assert.Equal(t, float32(v), c.Data[i], "index %d", i)
			}
		})
	}
}

func TestReadImage_Subset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, Float32, binary.LittleEndian, rampCube(6, 3, 8))
	h := testHeader(6, 3, 8, Float32)

	subset := ImageSubset{StartSample: 2, EndSample: 5, StartLine: 1, EndLine: 4}
	c, err := ReadImage(path, h, subset)
	require.NoError(t, err)
	require.Equal(t, 3, c.Lines)
	require.Equal(t, 3, c.Samples)
	require.Equal(t, 3, c.Bands)

	for l := 0; l < c.Lines; l++ {
		for b := 0; b < c.Bands; b++ {
			for s := 0; s < c.Samples; s++ {
				want := float32((l+1)*100 + b*10 + (s + 2))
				idx := l*c.Bands*c.Samples + b*c.Samples + s
				assert.Equal(t, want, c.Data[idx], "line %d band %d sample %d", l, b, s)
			}
		}
	}
}

func TestReadImage_ByteOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 37, UInt16, binary.LittleEndian, rampCube(2, 2, 3))
	h := testHeader(2, 2, 3, UInt16)
	h.ByteOffset = 37

	c, err := ReadImage(path, h, ImageSubset{StartSample: 1, EndSample: 3, StartLine: 1, EndLine: 2})
	require.NoError(t, err)
	assert.Equal(t, []float32{101, 102, 111, 112}, c.Data)
}

func TestReadImage_UInt16Widening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, UInt16, binary.LittleEndian, []float64{0, 1, 65535, 40000})
	h := testHeader(1, 1, 4, UInt16)

	c, err := ReadImage(path, h, FullExtent(h))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 65535, 40000}, c.Data)
}

func TestReadImage_BigEndian(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, UInt16, binary.BigEndian, []float64{1, 258, 513})
	h := testHeader(1, 1, 3, UInt16)
	h.ByteOrder = binary.BigEndian

	c, err := ReadImage(path, h, FullExtent(h))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 258, 513}, c.Data)
}

func TestReadImage_TruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	// Header claims 4 lines, file only holds 2 and a half.
	values := rampCube(4, 2, 3)
	writeRaw(t, path, 0, Float32, binary.LittleEndian, values[:2*2*3+3])
	h := testHeader(4, 2, 3, Float32)

	c, err := ReadImage(path, h, FullExtent(h))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrTruncatedRead)

	// Lines that are fully present still read.
	c, err = ReadImage(path, h, ImageSubset{EndSample: 3, EndLine: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Lines)
}

func TestReadImage_OffsetBeyondEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, Float32, binary.LittleEndian, rampCube(1, 1, 2))
	h := testHeader(4, 1, 2, Float32)

	_, err := ReadImage(path, h, ImageSubset{EndSample: 2, StartLine: 3, EndLine: 4})
	assert.ErrorIs(t, err, ErrIO)

	h.ByteOffset = 1000
	_, err = ReadImage(path, h, FullExtent(h))
	assert.ErrorIs(t, err, ErrIO)
}

func TestReadImage_MissingFile(t *testing.T) {
	h := testHeader(1, 1, 1, Float32)
	_, err := ReadImage(filepath.Join(t.TempDir(), "nope.img"), h, FullExtent(h))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadImage_InvalidSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, Float32, binary.LittleEndian, rampCube(2, 1, 2))
	h := testHeader(2, 1, 2, Float32)

	for _, s := range []ImageSubset{
		{StartSample: -1, EndSample: 2, EndLine: 2},
		{EndSample: 3, EndLine: 2},
		{EndSample: 2, EndLine: 3},
		{StartSample: 2, EndSample: 1, EndLine: 2},
		{EndSample: 2, StartLine: 2, EndLine: 1},
	} {
		_, err := ReadImage(path, h, s)
		assert.ErrorIs(t, err, ErrInvalidSubset, s.String())
	}
}

func TestReadImage_ZeroArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.img")
	writeRaw(t, path, 0, Float32, binary.LittleEndian, rampCube(2, 2, 2))
	h := testHeader(2, 2, 2, Float32)

	c, err := ReadImage(path, h, ImageSubset{StartSample: 1, EndSample: 1, EndLine: 2})
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Equal(t, 2, c.Lines)
	assert.Equal(t, 0, c.Samples)

	c, err = ReadImage(path, h, ImageSubset{EndSample: 2, StartLine: 2, EndLine: 2})
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
