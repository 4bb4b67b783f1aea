package equirect

import (
	"context"
	"fmt"
	gomath "math"
	"sync/atomic"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/panoview/internal/parallel"
	"github.com/Faultbox/panoview/pkg/math"
)

// ProjectStats reports what the sphere projector had to correct.
type ProjectStats struct {
	Pixels     int
	Degenerate int // rays clamped to the forward direction
}

// DegenerateFraction returns the share of clamped rays.
func (s ProjectStats) DegenerateFraction() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Degenerate) / float64(s.Pixels)
}

// Err returns a wrapped ErrDegenerateRay when any ray was clamped, nil otherwise.
func (s ProjectStats) Err() error {
	if s.Degenerate == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d rays clamped", ErrDegenerateRay, s.Degenerate, s.Pixels)
}

// XYZToLonLat returns the longitude and latitude of direction v.
// Longitude 0 lies along +Z; the result does not depend on the length of v.
func XYZToLonLat(v math.Vec3) math.Vec2 {
	return v.LonLat()
}

// LonLatToXY maps a longitude/latitude pair to a fractional pixel coordinate in
// a srcW×srcH equirectangular image. Longitude -π..π spans columns 0..srcW-1 and
// latitude -π/2..π/2 spans rows 0..srcH-1.
func LonLatToXY(ll math.Vec2, srcW, srcH int) math.Vec2 {
	return math.Vec2{
		X: (ll.X/(2*gomath.Pi) + 0.5) * float64(srcW-1),
		Y: (ll.Y/gomath.Pi + 0.5) * float64(srcH-1),
	}
}

// RotateToLonLat rotates every ray of dirs by r and converts it to longitude
// and latitude. Each scanline band is rotated as one (n×3)·Rᵗ product.
// Rays whose rotated norm is below 1e-12 are clamped to the forward ray.
func RotateToLonLat(ctx context.Context, dirs *DirectionField, r math.Mat3, workers int) (*LonLatField, ProjectStats, error) {
	width, height := dirs.Size()
	rT := mat.NewDense(3, 3, r.Transpose().Slice())

	out := &LonLatField{newGrid(width, height, 2)}
	var degenerate atomic.Int64

	err := parallel.Rows(ctx, height, workers, func(start, end int) error {
		n := (end - start) * width
		src := mat.NewDense(n, 3, dirs.rows(start, end))

		var rotated mat.Dense
		rotated.Mul(src, rT)

		ll := out.rows(start, end)
		var clamped int64
		for i := 0; i < n; i++ {
			v := math.Vec3{X: rotated.At(i, 0), Y: rotated.At(i, 1), Z: rotated.At(i, 2)}
			if v.Length() < degenerateEpsilon {
				v = math.AxisZ
				clamped++
			}
			lonlat := v.LonLat()
			ll[2*i] = lonlat.X
			ll[2*i+1] = lonlat.Y
		}
		degenerate.Add(clamped)
		return nil
	})
	if err != nil {
		return nil, ProjectStats{}, err
	}

	return out, ProjectStats{Pixels: width * height, Degenerate: int(degenerate.Load())}, nil
}

// LonLatToSample maps every longitude/latitude pair to a source pixel coordinate.
func LonLatToSample(ctx context.Context, ll *LonLatField, srcW, srcH, workers int) (*SampleField, error) {
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: source size %dx%d must be positive", ErrInvalidParameter, srcW, srcH)
	}

	width, height := ll.Size()
	out := &SampleField{newGrid(width, height, 2)}

	err := parallel.Rows(ctx, height, workers, func(start, end int) error {
		in := ll.rows(start, end)
		xy := out.rows(start, end)
		for i := 0; i < len(in); i += 2 {
			p := LonLatToXY(math.Vec2{X: in[i], Y: in[i+1]}, srcW, srcH)
			xy[i] = p.X
			xy[i+1] = p.Y
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Project rotates dirs by r and maps the result onto a srcW×srcH
// equirectangular image. A warning is logged when more than
// DegenerateWarnFraction of the rays had to be clamped.
func Project(ctx context.Context, dirs *DirectionField, r math.Mat3, srcW, srcH int, opts ...Option) (*SampleField, ProjectStats, error) {
	o := buildOptions(opts)

	ll, stats, err := RotateToLonLat(ctx, dirs, r, o.workers)
	if err != nil {
		return nil, stats, err
	}

	if stats.DegenerateFraction() > DegenerateWarnFraction {
		o.logger.Warn("degenerate rays clamped",
			zap.Int("count", stats.Degenerate),
			zap.Int("pixels", stats.Pixels),
			zap.Error(stats.Err()),
		)
	}

	field, err := LonLatToSample(ctx, ll, srcW, srcH, o.workers)
	if err != nil {
		return nil, stats, err
	}
	return field, stats, nil
}
