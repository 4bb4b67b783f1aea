package equirect

import (
	"context"
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/panoview/internal/parallel"
	"github.com/Faultbox/panoview/pkg/math"
)

// Intrinsics is the pinhole camera model of the requested output view.
type Intrinsics struct {
	Width, Height int
	F             float64 // focal length in pixels
	CX, CY        float64 // principal point
}

// NewIntrinsics derives the pinhole intrinsics for an output of width×height
// pixels with the given horizontal field of view in degrees.
func NewIntrinsics(fovDeg float64, width, height int) (Intrinsics, error) {
	if err := validateFOV(fovDeg); err != nil {
		return Intrinsics{}, err
	}
	if width <= 0 || height <= 0 {
		return Intrinsics{}, fmt.Errorf("%w: output size %dx%d must be positive", ErrInvalidParameter, width, height)
	}

	w := float64(width)
	return Intrinsics{
		Width:  width,
		Height: height,
		F:      0.5 * w / gomath.Tan(0.5*math.Radians(fovDeg)),
		CX:     (w - 1) / 2,
		CY:     (float64(height) - 1) / 2,
	}, nil
}

func validateFOV(fovDeg float64) error {
	if gomath.IsNaN(fovDeg) || fovDeg <= 0 || fovDeg >= 180 {
		return fmt.Errorf("%w: field of view %g must be in (0, 180) degrees", ErrInvalidParameter, fovDeg)
	}
	return nil
}

// Matrix returns K = [[f,0,cx],[0,f,cy],[0,0,1]].
func (in Intrinsics) Matrix() math.Mat3 {
	return math.Mat3{
		in.F, 0, in.CX,
		0, in.F, in.CY,
		0, 0, 1,
	}
}

// Inverse returns K⁻¹. A singular K is reported as ErrMatrixInversion; an
// ill-conditioned one still yields its inverse.
func (in Intrinsics) Inverse() (math.Mat3, error) {
	k := mat.NewDense(3, 3, in.Matrix().Slice())

	var inv mat.Dense
	if err := inv.Inverse(k); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || gomath.IsInf(float64(cond), 1) {
			return math.Mat3{}, fmt.Errorf("%w: %v", ErrMatrixInversion, err)
		}
	}

	var m math.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = inv.At(r, c)
		}
	}
	return m, nil
}

// DirectionField builds the camera-space ray K⁻¹·(j, i, 1) of every output
// pixel (row i, column j). Each scanline band is one (n×3)·(K⁻¹)ᵗ product.
func (in Intrinsics) DirectionField(ctx context.Context, workers int) (*DirectionField, error) {
	kInv, err := in.Inverse()
	if err != nil {
		return nil, err
	}
	kInvT := mat.NewDense(3, 3, kInv.Transpose().Slice())

	field := &DirectionField{newGrid(in.Width, in.Height, 3)}
	err = parallel.Rows(ctx, in.Height, workers, func(start, end int) error {
		n := (end - start) * in.Width

		pixels := mat.NewDense(n, 3, nil)
		for i := start; i < end; i++ {
			base := (i - start) * in.Width
			for j := 0; j < in.Width; j++ {
				pixels.Set(base+j, 0, float64(j))
				pixels.Set(base+j, 1, float64(i))
				pixels.Set(base+j, 2, 1)
			}
		}

		dirs := mat.NewDense(n, 3, field.rows(start, end))
		dirs.Mul(pixels, kInvT)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return field, nil
}
