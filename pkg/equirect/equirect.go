// Package equirect extracts perspective (rectilinear) views from 360°
// equirectangular panoramas.
//
// A view is computed in three pure stages: a pinhole ray per output pixel,
// a yaw-then-pitch rotation of those rays, and a projection of the rotated rays
// onto the panorama's longitude/latitude grid. The resulting sample coordinates
// are handed to the remap package for bicubic resampling.
package equirect

import (
	"context"
	"fmt"
	"image"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panoview/pkg/imageio"
	"github.com/Faultbox/panoview/pkg/math"
	"github.com/Faultbox/panoview/pkg/remap"
)

// View describes the requested perspective output.
type View struct {
	FOV    float64 // horizontal field of view, degrees
	Theta  float64 // yaw, degrees
	Phi    float64 // pitch, degrees
	Width  int     // output columns
	Height int     // output rows
}

// Validate checks the field of view and output size.
func (v View) Validate() error {
	_, err := NewIntrinsics(v.FOV, v.Width, v.Height)
	return err
}

// String returns a compact description of the view.
func (v View) String() string {
	return fmt.Sprintf("fov=%g theta=%g phi=%g %dx%d", v.FOV, v.Theta, v.Phi, v.Width, v.Height)
}

// Equirectangular is an immutable decoded panorama that views are cut from.
// It is safe for concurrent use.
type Equirectangular struct {
	src    image.Image
	width  int // columns
	height int // rows
	opts   options
}

// New wraps a decoded panorama.
func New(src image.Image, opts ...Option) (*Equirectangular, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrInvalidParameter)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidParameter)
	}

	return &Equirectangular{
		src:    src,
		width:  b.Dx(),
		height: b.Dy(),
		opts:   buildOptions(opts),
	}, nil
}

// Open decodes the panorama at path.
func Open(path string, opts ...Option) (*Equirectangular, error) {
	img, _, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	return New(img, opts...)
}

// Width returns the number of source columns.
func (e *Equirectangular) Width() int { return e.width }

// Height returns the number of source rows.
func (e *Equirectangular) Height() int { return e.height }

// Source returns the decoded panorama.
func (e *Equirectangular) Source() image.Image { return e.src }

// SampleField computes the source coordinate of every pixel of view v.
func (e *Equirectangular) SampleField(ctx context.Context, v View) (*SampleField, ProjectStats, error) {
	log := e.opts.logger
	start := time.Now()

	in, err := NewIntrinsics(v.FOV, v.Width, v.Height)
	if err != nil {
		return nil, ProjectStats{}, err
	}

	dirs, err := in.DirectionField(ctx, e.opts.workers)
	if err != nil {
		return nil, ProjectStats{}, err
	}
	log.Debug("direction field ready", zap.Duration("elapsed", time.Since(start)))

	r := ComposeRotation(v.Theta, v.Phi)
	field, stats, err := Project(ctx, dirs, r, e.width, e.height,
		WithWorkers(e.opts.workers), WithLogger(log))
	if err != nil {
		return nil, stats, err
	}
	log.Debug("sample field ready",
		zap.Stringer("view", v),
		zap.Duration("elapsed", time.Since(start)),
	)

	return field, stats, nil
}

// Perspective renders view v from the panorama.
func (e *Equirectangular) Perspective(ctx context.Context, v View) (image.Image, error) {
	field, _, err := e.SampleField(ctx, v)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := remap.Remap(ctx, e.src, field, e.opts.remap)
	if err != nil {
		return nil, fmt.Errorf("resampling %s: %w", v, err)
	}
	e.opts.logger.Debug("resampled",
		zap.Stringer("interpolation", e.opts.remap.Interpolation),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out, nil
}

// Probe describes where a single output pixel samples the panorama.
type Probe struct {
	Ray    math.Vec3 // camera-space ray before rotation
	World  math.Vec3 // rotated ray
	LonLat math.Vec2 // radians
	Sample math.Vec2 // source pixel coordinate
}

// Probe traces output pixel (x, y) of view v without building full grids.
func (e *Equirectangular) Probe(v View, x, y int) (Probe, error) {
	return ProbePixel(v, x, y, e.width, e.height)
}

// ProbePixel traces output pixel (x, y) of view v onto a srcW×srcH panorama.
func ProbePixel(v View, x, y, srcW, srcH int) (Probe, error) {
	in, err := NewIntrinsics(v.FOV, v.Width, v.Height)
	if err != nil {
		return Probe{}, err
	}
	if x < 0 || x >= v.Width || y < 0 || y >= v.Height {
		return Probe{}, fmt.Errorf("%w: pixel (%d, %d) outside %dx%d view", ErrInvalidParameter, x, y, v.Width, v.Height)
	}
	kInv, err := in.Inverse()
	if err != nil {
		return Probe{}, err
	}
	return trace(kInv, ComposeRotation(v.Theta, v.Phi), float64(x), float64(y), srcW, srcH), nil
}

func trace(kInv, r math.Mat3, x, y float64, srcW, srcH int) Probe {
	ray := kInv.MulVec(math.Vec3{X: x, Y: y, Z: 1})
	world := r.MulVec(ray)
	if world.Length() < degenerateEpsilon {
		world = math.AxisZ
	}
	ll := world.LonLat()

	return Probe{
		Ray:    ray,
		World:  world,
		LonLat: ll,
		Sample: LonLatToXY(ll, srcW, srcH),
	}
}

// Outline traces the border of view v onto a srcW×srcH panorama, one point
// every step output pixels, ending where it started. The path is split where
// it crosses the longitude seam, so each returned polyline can be drawn as is.
func Outline(v View, srcW, srcH, step int) ([][]math.Vec2, error) {
	in, err := NewIntrinsics(v.FOV, v.Width, v.Height)
	if err != nil {
		return nil, err
	}
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: source size %dx%d must be positive", ErrInvalidParameter, srcW, srcH)
	}
	kInv, err := in.Inverse()
	if err != nil {
		return nil, err
	}
	if step < 1 {
		step = 1
	}
	r := ComposeRotation(v.Theta, v.Phi)

	// Pixel edges, clockwise from the top-left corner.
	x0, y0 := -0.5, -0.5
	x1, y1 := float64(v.Width)-0.5, float64(v.Height)-0.5
	var border []math.Vec2
	edge := func(from, to math.Vec2, n int) {
		for i := 0; i < n; i += step {
			t := float64(i) / float64(n)
			border = append(border, from.Add(to.Sub(from).Scale(t)))
		}
	}
	edge(math.Vec2{X: x0, Y: y0}, math.Vec2{X: x1, Y: y0}, v.Width)
	edge(math.Vec2{X: x1, Y: y0}, math.Vec2{X: x1, Y: y1}, v.Height)
	edge(math.Vec2{X: x1, Y: y1}, math.Vec2{X: x0, Y: y1}, v.Width)
	edge(math.Vec2{X: x0, Y: y1}, math.Vec2{X: x0, Y: y0}, v.Height)
	border = append(border, border[0])

	half := float64(srcW-1) / 2
	var paths [][]math.Vec2
	var cur []math.Vec2
	for _, p := range border {
		s := trace(kInv, r, p.X, p.Y, srcW, srcH).Sample
		if n := len(cur); n > 0 && gomath.Abs(s.X-cur[n-1].X) > half {
			paths = append(paths, cur)
			cur = nil
		}
		cur = append(cur, s)
	}
	return append(paths, cur), nil
}
