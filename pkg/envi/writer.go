package envi

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"hyview/pkg/cube"
)

// ImageExt is the extension WriteImage appends to the base path.
const ImageExt = ".img"

// ImagePath returns the raster file WriteImage creates for base.
func ImagePath(base string) string {
	return base + ImageExt
}

// WriteHeader writes base+".hdr" describing a float32 BIL raster with the
// given dimensions. The output is readable by ReadHeader(ImagePath(base)).
func WriteHeader(base string, bands, samples, lines int, wavelengths []float64) error {
	if len(wavelengths) != bands {
		return fmt.Errorf("%w: %d wavelengths for %d bands", ErrShapeMismatch, len(wavelengths), bands)
	}
	path := base + HeaderExt
	if err := os.WriteFile(path, []byte(FormatHeader(bands, samples, lines, wavelengths)), 0644); err != nil {
		return ioError("write", path, err)
	}
	return nil
}

// FormatHeader renders the header text WriteHeader stores.
func FormatHeader(bands, samples, lines int, wavelengths []float64) string {
	var b strings.Builder
	b.WriteString("ENVI\n")
	fmt.Fprintf(&b, "%s = %d\n", KeySamples, samples)
	fmt.Fprintf(&b, "%s = %d\n", KeyLines, lines)
	fmt.Fprintf(&b, "%s = %d\n", KeyBands, bands)
	fmt.Fprintf(&b, "%s = 0\n", KeyHeaderOffset)
	b.WriteString("file type = ENVI Standard\n")
	fmt.Fprintf(&b, "%s = %d\n", KeyDataType, Float32.Code())
	fmt.Fprintf(&b, "%s = %s\n", KeyInterleave, InterleaveBIL)
	fmt.Fprintf(&b, "%s = 0\n", KeyByteOrder)
	fmt.Fprintf(&b, "%s = {", KeyWavelength)
	for i, w := range wavelengths {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
	}
	b.WriteString("}\n")
	return b.String()
}

// WriteImage writes the cube to base+".img" as little-endian float32
// samples, one line after another, without reordering.
func WriteImage(base string, c *cube.Cube) (err error) {
	if len(c.Data) != c.Len() {
		return fmt.Errorf("%w: buffer holds %d values, dimensions %dx%dx%d need %d",
			ErrShapeMismatch, len(c.Data), c.Lines, c.Bands, c.Samples, c.Len())
	}

	path := ImagePath(base)
	f, err := os.Create(path)
	if err != nil {
		return ioError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError("close", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	raw := make([]byte, 4*c.LineLen())
	for i := 0; i < c.Lines; i++ {
		for j, v := range c.Line(i) {
			binary.LittleEndian.PutUint32(raw[4*j:], math.Float32bits(v))
		}
		if _, err := w.Write(raw); err != nil {
			return ioError("write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return ioError("write", path, err)
	}
	return nil
}

// Write stores the cube and a matching header under base.
func Write(base string, c *cube.Cube, wavelengths []float64) error {
	if err := WriteHeader(base, c.Bands, c.Samples, c.Lines, wavelengths); err != nil {
		return err
	}
	return WriteImage(base, c)
}
