// Package envi reads and writes hyperspectral cubes stored as a raw
// band-interleaved-by-line (BIL) binary file next to an ENVI-style text
// header.
//
// The header is a loose list of "key = value" lines. Only the keys needed
// to locate and decode the pixel data are interpreted; everything else is
// ignored. Pixel data is either 32-bit IEEE floats (data type 4) or 16-bit
// unsigned integers (data type 12), widened to float32 on read.
package envi

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// HeaderExt is the extension of the header file that accompanies a raster.
const HeaderExt = ".hdr"

// Header keys interpreted by the parser.
const (
	KeySamples      = "samples"
	KeyBands        = "bands"
	KeyLines        = "lines"
	KeyHeaderOffset = "header offset"
	KeyWavelength   = "wavelength"
	KeyInterleave   = "interleave"
	KeyDataType     = "data type"
	KeyByteOrder    = "byte order"
)

// InterleaveBIL is the only supported interleave value.
const InterleaveBIL = "bil"

// DataType is the on-disk encoding of one sample.
type DataType int

const (
	// Float32 is a 4-byte IEEE-754 float (ENVI data type 4).
	Float32 DataType = 4

	// UInt16 is a 2-byte unsigned integer (ENVI data type 12).
	UInt16 DataType = 12
)

// ParseDataType maps an ENVI data type code to a DataType.
func ParseDataType(code int) (DataType, error) {
	switch DataType(code) {
	case Float32, UInt16:
		return DataType(code), nil
	}
	return 0, &FieldError{Kind: ErrUnsupportedDataType, Key: KeyDataType, Value: strconv.Itoa(code)}
}

// Size returns the number of bytes one sample occupies on disk.
func (d DataType) Size() int {
	switch d {
	case Float32:
		return 4
	case UInt16:
		return 2
	}
	return 0
}

// Code returns the ENVI data type code.
func (d DataType) Code() int {
	return int(d)
}

func (d DataType) String() string {
	switch d {
	case Float32:
		return "float32"
	case UInt16:
		return "uint16"
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// Header is the metadata needed to decode a raster. It is built once by
// ReadHeader or ParseHeader and not modified afterwards.
type Header struct {
	// Samples is the number of pixels per line
	Samples int

	// Bands is the number of spectral bands
	Bands int

	// Lines is the number of image lines
	Lines int

	// ByteOffset is the number of bytes to skip before the pixel data
	ByteOffset int

	// DataType is the on-disk sample encoding
	DataType DataType

	// ByteOrder of multi-byte samples; little endian unless the header
	// says "byte order = 1"
	ByteOrder binary.ByteOrder

	// Interleave as found in the header; always "bil" for a parsed header
	Interleave string

	// Wavelengths holds one value per band, in nanometers
	Wavelengths []float64

	// WavelengthFallback is set when the wavelength list could not be
	// parsed and band indices were substituted
	WavelengthFallback bool
}

// LineBytes returns the size in bytes of one full line on disk.
func (h *Header) LineBytes() int64 {
	return int64(h.Samples) * int64(h.Bands) * int64(h.DataType.Size())
}

// DataBytes returns the expected size of the pixel data in bytes, excluding
// the leading offset.
func (h *Header) DataBytes() int64 {
	return h.LineBytes() * int64(h.Lines)
}

// HeaderPath returns the header file that belongs to a raster file: the
// final extension of the file name is replaced with ".hdr". Dots in
// directory names are not treated as extensions.
func HeaderPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + HeaderExt
}

// ReadHeader locates and parses the header belonging to imagePath.
func ReadHeader(imagePath string) (*Header, error) {
	hdrPath := HeaderPath(imagePath)
	f, err := os.Open(hdrPath)
	if err != nil {
		return nil, ioError("open", hdrPath, err)
	}
	defer f.Close()

	h, err := ParseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header %s: %w", hdrPath, err)
	}
	return h, nil
}

// ParseHeader reads a complete header from r and extracts the required
// fields. Any missing or unsupported field aborts the parse; no partially
// populated header is returned.
func ParseHeader(r io.Reader) (*Header, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError("read", "header", err)
	}
	text, err := decodeHeaderText(raw)
	if err != nil {
		return nil, err
	}
	fields := scanFields(text)

	lookup := func(key string) (string, error) {
		v, ok := fields[key]
		if !ok {
			return "", &FieldError{Kind: ErrMissingField, Key: key}
		}
		return v, nil
	}

	// Presence of every required key is checked before any value is
	// interpreted, in the order the keys are listed in the format.
	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		v, err := lookup(key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}

	h := &Header{ByteOrder: binary.LittleEndian}

	if h.Interleave = values[KeyInterleave]; h.Interleave != InterleaveBIL {
		return nil, &FieldError{Kind: ErrUnsupportedInterleave, Key: KeyInterleave, Value: h.Interleave}
	}

	code, err := parseInt(KeyDataType, values[KeyDataType])
	if err != nil {
		return nil, err
	}
	if h.DataType, err = ParseDataType(code); err != nil {
		return nil, err
	}

	if h.Samples, err = parsePositive(KeySamples, values[KeySamples]); err != nil {
		return nil, err
	}
	if h.Bands, err = parsePositive(KeyBands, values[KeyBands]); err != nil {
		return nil, err
	}
	if h.Lines, err = parsePositive(KeyLines, values[KeyLines]); err != nil {
		return nil, err
	}
	if h.ByteOffset, err = parseInt(KeyHeaderOffset, values[KeyHeaderOffset]); err != nil {
		return nil, err
	}
	if h.ByteOffset < 0 {
		return nil, &FieldError{Kind: ErrInvalidField, Key: KeyHeaderOffset, Value: values[KeyHeaderOffset]}
	}

	if v, ok := fields[KeyByteOrder]; ok {
		switch v {
		case "0":
			h.ByteOrder = binary.LittleEndian
		case "1":
			h.ByteOrder = binary.BigEndian
		default:
			return nil, &FieldError{Kind: ErrInvalidField, Key: KeyByteOrder, Value: v}
		}
	}

	h.Wavelengths, h.WavelengthFallback = ParseWavelengths(values[KeyWavelength], h.Bands)
	return h, nil
}

var requiredKeys = []string{
	KeySamples,
	KeyBands,
	KeyLines,
	KeyHeaderOffset,
	KeyWavelength,
	KeyInterleave,
	KeyDataType,
}

// decodeHeaderText returns the header as a string. Headers written by older
// tools are often Latin-1; bytes that are not valid UTF-8 are decoded as
// ISO-8859-1.
func decodeHeaderText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode header text: %w", err)
	}
	return string(decoded), nil
}

// scanFields collects "key = value" pairs. Keys are lower-cased with inner
// whitespace collapsed. A value opening a brace without closing it on the
// same line continues on the following lines until the closing brace, or
// until a line that starts another "key = value" pair, which is then scanned
// as usual. The first occurrence of a key wins.
func scanFields(text string) map[string]string {
	fields := make(map[string]string)
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		key, value, ok := splitField(lines[i])
		if !ok {
			continue
		}

		if strings.HasPrefix(value, "{") && !strings.Contains(value, "}") {
			var b strings.Builder
			b.WriteString(value)
			for i+1 < len(lines) {
				next := strings.TrimRight(lines[i+1], "\r")
				if _, _, isField := splitField(next); isField {
					break
				}
				i++
				b.WriteByte('\n')
				b.WriteString(next)
				if strings.Contains(next, "}") {
					break
				}
			}
			value = b.String()
		}

		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}
	return fields
}

// splitField splits a "key = value" line. ok is false for lines without
// "=" or with an empty key.
func splitField(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = normalizeKey(k)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(v), true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &FieldError{Kind: ErrInvalidField, Key: key, Value: value}
	}
	return n, nil
}

func parsePositive(key, value string) (int, error) {
	n, err := parseInt(key, value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &FieldError{Kind: ErrInvalidField, Key: key, Value: value}
	}
	return n, nil
}
