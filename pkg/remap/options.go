package remap

import (
	"fmt"
	"image/color"
	"strings"
)

// Interpolation selects how a fractional coordinate is resampled.
type Interpolation uint8

const (
	// Bicubic convolves the 4x4 neighborhood with the Catmull-Rom kernel.
	Bicubic Interpolation = iota

	// Bilinear blends the 2x2 neighborhood.
	Bilinear

	// Nearest picks the closest pixel.
	Nearest
)

// String returns the configuration name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case Bicubic:
		return "bicubic"
	case Bilinear:
		return "bilinear"
	case Nearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseInterpolation parses an interpolation mode name.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bicubic", "cubic":
		return Bicubic, nil
	case "bilinear", "linear":
		return Bilinear, nil
	case "nearest":
		return Nearest, nil
	default:
		return 0, fmt.Errorf("%w: interpolation %q", ErrInvalidOption, s)
	}
}

// Border selects how coordinates outside the source are resolved, per axis.
type Border uint8

const (
	// BorderConstant fills outside taps with Options.Fill.
	BorderConstant Border = iota

	// BorderClamp repeats the edge pixel.
	BorderClamp

	// BorderWrap wraps around to the opposite edge.
	BorderWrap
)

// String returns the configuration name of the border policy.
func (b Border) String() string {
	switch b {
	case BorderConstant:
		return "constant"
	case BorderClamp:
		return "clamp"
	case BorderWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// ParseBorder parses a border policy name.
func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "constant", "fill":
		return BorderConstant, nil
	case "clamp", "edge":
		return BorderClamp, nil
	case "wrap", "repeat":
		return BorderWrap, nil
	default:
		return 0, fmt.Errorf("%w: border %q", ErrInvalidOption, s)
	}
}

// Options configures Remap.
type Options struct {
	Interpolation Interpolation
	Horizontal    Border      // longitude axis
	Vertical      Border      // latitude axis
	Fill          color.Color // used by BorderConstant; nil means opaque black
	Workers       int         // zero means GOMAXPROCS
}

// DefaultOptions matches equirectangular topology: bicubic, longitude wraps,
// latitude beyond the poles is filled with opaque black.
func DefaultOptions() Options {
	return Options{
		Interpolation: Bicubic,
		Horizontal:    BorderWrap,
		Vertical:      BorderConstant,
		Fill:          color.Black,
	}
}
