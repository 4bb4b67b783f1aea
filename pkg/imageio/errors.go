package imageio

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrDecode marks any failure to read or decode a source image.
	ErrDecode = errors.New("decode failed")

	// ErrEncode marks any failure to encode or write an output image.
	ErrEncode = errors.New("encode failed")

	// ErrUnsupportedFormat is returned for formats without a registered codec.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// DecodeError is returned when an image cannot be opened or decoded.
type DecodeError struct {
	Path string // empty when decoding from a reader
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding image: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// EncodeError is returned when an image cannot be encoded or written.
type EncodeError struct {
	Path   string // empty when encoding to a writer
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encoding %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("encoding %s as %s: %v", e.Path, e.Format, e.Err)
}

// Unwrap returns ErrEncode and the underlying cause.
func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncode, e.Err}
}
