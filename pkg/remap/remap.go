// Package remap resamples an image at arbitrary fractional source coordinates,
// one coordinate per destination pixel.
package remap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/Faultbox/panoview/internal/parallel"
)

// Remap errors.
var (
	// ErrEmptySource is returned when the source image has no pixels.
	ErrEmptySource = errors.New("remap: empty source image")

	// ErrEmptyCoords is returned when the coordinate field has no pixels.
	ErrEmptyCoords = errors.New("remap: empty coordinate field")

	// ErrInvalidOption is returned for unknown interpolation or border values.
	ErrInvalidOption = errors.New("remap: invalid option")
)

// Coords supplies the source coordinate of every destination pixel.
type Coords interface {
	Size() (width, height int)
	At(x, y int) (sx, sy float64)
}

// Remap builds a destination image the size of coords, where pixel (x, y) is
// src resampled at coords.At(x, y). Source pixel values pass through without
// colour management: 16-bit sources produce *image.NRGBA64, all others
// *image.NRGBA.
func Remap(ctx context.Context, src image.Image, coords Coords, opts Options) (draw.Image, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	w, h := coords.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyCoords
	}
	kernel, err := kernelFor(opts.Interpolation)
	if err != nil {
		return nil, err
	}
	if opts.Horizontal > BorderWrap || opts.Vertical > BorderWrap {
		return nil, fmt.Errorf("%w: border %d/%d", ErrInvalidOption, opts.Horizontal, opts.Vertical)
	}

	fill := fillValues(opts.Fill)

	if isDeep(src) {
		s := newSampler(toBuffer16(src), kernel, opts, fill, 0xffff)
		dst := &buffer[uint16]{pix: make([]uint16, w*h*4), w: w, h: h}
		if err := run(ctx, s, dst, coords, opts.Workers); err != nil {
			return nil, err
		}
		return dst.nrgba64(), nil
	}

	for i := range fill {
		fill[i] /= 257
	}
	s := newSampler(toBuffer8(src), kernel, opts, fill, 0xff)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	dst := &buffer[uint8]{pix: out.Pix, w: w, h: h}
	if err := run(ctx, s, dst, coords, opts.Workers); err != nil {
		return nil, err
	}
	return out, nil
}

func run[T uint8 | uint16](ctx context.Context, s *sampler[T], dst *buffer[T], coords Coords, workers int) error {
	return parallel.Rows(ctx, dst.h, workers, func(start, end int) error {
		for y := start; y < end; y++ {
			row := dst.pix[y*dst.w*4 : (y+1)*dst.w*4]
			for x := 0; x < dst.w; x++ {
				sx, sy := coords.At(x, y)
				s.sample(sx, sy, row[4*x:4*x+4])
			}
		}
		return nil
	})
}

// kernelFor returns the convolution kernel of mode, or nil for nearest.
func kernelFor(mode Interpolation) (*draw.Kernel, error) {
	switch mode {
	case Bicubic:
		return draw.CatmullRom, nil
	case Bilinear:
		return draw.BiLinear, nil
	case Nearest:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: interpolation %d", ErrInvalidOption, mode)
	}
}

// fillValues returns c as non-premultiplied 16-bit channel values.
func fillValues(c color.Color) [4]float64 {
	if c == nil {
		c = color.Black
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return [4]float64{float64(n.R), float64(n.G), float64(n.B), float64(n.A)}
}

// isDeep reports whether src carries more than 8 bits per channel.
func isDeep(src image.Image) bool {
	switch src.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		return true
	}
	return false
}

// buffer is a tightly packed non-premultiplied RGBA pixel array.
type buffer[T uint8 | uint16] struct {
	pix  []T
	w, h int
}

func toBuffer8(src image.Image) *buffer[uint8] {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return &buffer[uint8]{pix: n.Pix, w: b.Dx(), h: b.Dy()}
	}

	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), src, b.Min, draw.Src)
	return &buffer[uint8]{pix: n.Pix, w: b.Dx(), h: b.Dy()}
}

func toBuffer16(src image.Image) *buffer[uint16] {
	b := src.Bounds()
	n := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), src, b.Min, draw.Src)

	pix := make([]uint16, len(n.Pix)/2)
	for i := range pix {
		pix[i] = uint16(n.Pix[2*i])<<8 | uint16(n.Pix[2*i+1])
	}
	return &buffer[uint16]{pix: pix, w: b.Dx(), h: b.Dy()}
}

func (b *buffer[T]) nrgba64() *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, b.w, b.h))
	for i, v := range b.pix {
		out.Pix[2*i] = uint8(uint16(v) >> 8)
		out.Pix[2*i+1] = uint8(v)
	}
	return out
}

// sampler evaluates a separable kernel over a source buffer with per-axis
// border handling.
type sampler[T uint8 | uint16] struct {
	src    *buffer[T]
	kernel *draw.Kernel // nil for nearest
	taps   int
	hb, vb Border
	fill   [4]float64
	max    float64
}

func newSampler[T uint8 | uint16](src *buffer[T], kernel *draw.Kernel, opts Options, fill [4]float64, maxVal float64) *sampler[T] {
	s := &sampler[T]{
		src:    src,
		kernel: kernel,
		hb:     opts.Horizontal,
		vb:     opts.Vertical,
		fill:   fill,
		max:    maxVal,
	}
	if kernel != nil {
		s.taps = int(2 * kernel.Support)
	}
	return s
}

// resolve maps index i onto [0, n) according to border b.
func resolve(i, n int, b Border) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch b {
	case BorderWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i, true
	case BorderClamp:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	default:
		return 0, false
	}
}

// pixel returns the channel values of source pixel (x, y), or the fill colour
// when a constant border applies.
func (s *sampler[T]) pixel(x, y int) [4]float64 {
	x, okX := resolve(x, s.src.w, s.hb)
	y, okY := resolve(y, s.src.h, s.vb)
	if !okX || !okY {
		return s.fill
	}
	i := (y*s.src.w + x) * 4
	p := s.src.pix[i : i+4 : i+4]
	return [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
}

func (s *sampler[T]) weight(d float64) float64 {
	d = math.Abs(d)
	if d >= s.kernel.Support {
		return 0
	}
	return s.kernel.At(d)
}

func (s *sampler[T]) sample(sx, sy float64, out []T) {
	if math.IsNaN(sx) || math.IsNaN(sy) || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		s.store(s.fill, out)
		return
	}

	if s.kernel == nil {
		s.store(s.pixel(int(math.Floor(sx+0.5)), int(math.Floor(sy+0.5))), out)
		return
	}

	x0 := int(math.Floor(sx)) - s.taps/2 + 1
	y0 := int(math.Floor(sy)) - s.taps/2 + 1

	var wx, wy [4]float64
	for k := 0; k < s.taps; k++ {
		wx[k] = s.weight(sx - float64(x0+k))
		wy[k] = s.weight(sy - float64(y0+k))
	}

	var acc [4]float64
	for ky := 0; ky < s.taps; ky++ {
		if wy[ky] == 0 {
			continue
		}
		var row [4]float64
		for kx := 0; kx < s.taps; kx++ {
			if wx[kx] == 0 {
				continue
			}
			p := s.pixel(x0+kx, y0+ky)
			for c := range row {
				row[c] += wx[kx] * p[c]
			}
		}
		for c := range acc {
			acc[c] += wy[ky] * row[c]
		}
	}
	s.store(acc, out)
}

// store rounds and clamps v into out.
func (s *sampler[T]) store(v [4]float64, out []T) {
	for c := range v {
		x := math.Round(v[c])
		if x < 0 {
			x = 0
		} else if x > s.max {
			x = s.max
		}
		out[c] = T(x)
	}
}
