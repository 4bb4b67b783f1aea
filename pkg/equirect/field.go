package equirect

import "github.com/Faultbox/panoview/pkg/math"

// grid is a dense row-major array with a fixed number of values per cell.
type grid struct {
	width, height int
	stride        int // values per cell
	data          []float64
}

func newGrid(width, height, stride int) grid {
	return grid{
		width:  width,
		height: height,
		stride: stride,
		data:   make([]float64, width*height*stride),
	}
}

// Size returns the grid dimensions in cells.
func (g grid) Size() (width, height int) {
	return g.width, g.height
}

// rows returns the backing values for rows [start, end).
func (g grid) rows(start, end int) []float64 {
	return g.data[start*g.width*g.stride : end*g.width*g.stride]
}

func (g grid) offset(x, y int) int {
	return (y*g.width + x) * g.stride
}

// DirectionField holds one camera-space ray per output pixel, before rotation.
// Each ray is K⁻¹·(col, row, 1), so its z component is 1.
type DirectionField struct {
	grid
}

// At returns the ray of output pixel (x, y).
func (f *DirectionField) At(x, y int) math.Vec3 {
	i := f.offset(x, y)
	return math.Vec3{X: f.data[i], Y: f.data[i+1], Z: f.data[i+2]}
}

// LonLatField holds one (longitude, latitude) pair per output pixel, in radians.
type LonLatField struct {
	grid
}

// At returns the longitude and latitude of output pixel (x, y).
func (f *LonLatField) At(x, y int) math.Vec2 {
	i := f.offset(x, y)
	return math.Vec2{X: f.data[i], Y: f.data[i+1]}
}

// SampleField holds one fractional source coordinate per output pixel.
// Coordinates are not wrapped or clamped; the resampler applies the border policy.
type SampleField struct {
	grid
}

// At returns the source coordinate sampled by output pixel (x, y).
func (f *SampleField) At(x, y int) (sx, sy float64) {
	i := f.offset(x, y)
	return f.data[i], f.data[i+1]
}

// Point returns the source coordinate of output pixel (x, y) as a vector.
func (f *SampleField) Point(x, y int) math.Vec2 {
	sx, sy := f.At(x, y)
	return math.Vec2{X: sx, Y: sy}
}
