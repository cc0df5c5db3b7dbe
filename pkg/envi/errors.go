package envi

import (
	"errors"
	"fmt"
)

// Error kinds returned by this package. Callers match them with errors.Is;
// the concrete error usually carries the offending key, value or path.
var (
	// ErrMissingField is returned when a required header key is absent.
	ErrMissingField = errors.New("missing header field")

	// ErrInvalidField is returned when a required numeric header value is
	// malformed or out of range.
	ErrInvalidField = errors.New("invalid header field")

	// ErrUnsupportedInterleave is returned for any interleave other than bil.
	ErrUnsupportedInterleave = errors.New("unsupported interleave")

	// ErrUnsupportedDataType is returned for data type codes other than 4 and 12.
	ErrUnsupportedDataType = errors.New("unsupported data type")

	// ErrIO wraps open, seek, read and write failures.
	ErrIO = errors.New("i/o error")

	// ErrTruncatedRead is returned when the file ends before the requested
	// sub-window has been read.
	ErrTruncatedRead = errors.New("truncated read")

	// ErrInvalidSubset is returned for windows outside [0,samples]×[0,lines]
	// or with start > end.
	ErrInvalidSubset = errors.New("invalid image subset")

	// ErrShapeMismatch is returned when a buffer or list does not match the
	// dimensions it is written with.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// FieldError describes a problem with one header key.
type FieldError struct {
	Kind  error
	Key   string
	Value string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %q", e.Kind, e.Key)
	}
	return fmt.Sprintf("%v: %s = %q", e.Kind, e.Key, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// IOError ties a failed file operation to ErrIO while keeping the cause
// available to errors.As.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

func ioError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
