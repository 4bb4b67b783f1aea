package equirect

import "errors"

// Projection errors.
var (
	// ErrInvalidParameter is returned for a field of view outside (0°, 180°),
	// non-positive output dimensions or an empty source image.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMatrixInversion is returned when the intrinsic matrix cannot be inverted.
	// Parameter validation makes this unreachable for valid views.
	ErrMatrixInversion = errors.New("intrinsic matrix inversion failed")

	// ErrDegenerateRay marks rotated rays whose norm was too small to normalize.
	// Such rays are clamped rather than failing the projection.
	ErrDegenerateRay = errors.New("degenerate ray")
)
