package envi

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"hyview/pkg/cube"
)

// ReadImage reads the sub-window of a BIL raster into a new cube.
//
// Lines are streamed one at a time starting at the first requested line;
// lines after the window are never touched. Within each line, band b of
// sample s sits at element b*samples + s. UInt16 samples are widened to
// float32 without scaling.
//
// The subset is validated against the header. A start offset beyond the
// end of the file fails with ErrIO and a file that ends inside the window
// fails with ErrTruncatedRead; in both cases no cube is returned.
func ReadImage(path string, h *Header, subset ImageSubset) (*cube.Cube, error) {
	if err := subset.Validate(h); err != nil {
		return nil, err
	}
	elemSize := h.DataType.Size()
	if elemSize == 0 {
		return nil, &FieldError{Kind: ErrUnsupportedDataType, Key: KeyDataType, Value: h.DataType.String()}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ioError("stat", path, err)
	}

	lineBytes := h.LineBytes()
	offset := int64(h.ByteOffset) + int64(subset.StartLine)*lineBytes
	if offset > info.Size() {
		return nil, ioError("seek", path,
			fmt.Errorf("offset %d beyond end of file (%d bytes)", offset, info.Size()))
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, ioError("seek", path, err)
	}

	width := subset.Width()
	out := cube.New(subset.Height(), h.Bands, width)
	if out.Empty() {
		return out, nil
	}

	dec := newDecoder(h)
	br := bufio.NewReaderSize(f, int(min(lineBytes, 1<<20)))
	raw := make([]byte, lineBytes)

	for i := 0; i < out.Lines; i++ {
		if _, err := io.ReadFull(br, raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: %s: line %d of window (file line %d) needs %d bytes",
					ErrTruncatedRead, path, i, subset.StartLine+i, lineBytes)
			}
			return nil, ioError("read", path, err)
		}

		row := out.Line(i)
		for b := 0; b < h.Bands; b++ {
			src := b*h.Samples + subset.StartSample
			dst := row[b*width : (b+1)*width]
			for s := range dst {
				dst[s] = dec(raw, src+s)
			}
		}
	}
	return out, nil
}

// decodeFunc returns element i of a raw line as float32.
type decodeFunc func(raw []byte, i int) float32

func newDecoder(h *Header) decodeFunc {
	order := h.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	switch h.DataType {
	case UInt16:
		return func(raw []byte, i int) float32 {
			return float32(order.Uint16(raw[2*i:]))
		}
	default:
		return func(raw []byte, i int) float32 {
			return math.Float32frombits(order.Uint32(raw[4*i:]))
		}
	}
}
