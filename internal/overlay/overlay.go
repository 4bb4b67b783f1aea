// Package overlay draws view footprints onto a panorama.
package overlay

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/Faultbox/panoview/pkg/math"
)

// Palette cycles through footprint colours.
var Palette = []color.Color{
	color.NRGBA{R: 255, G: 64, B: 64, A: 255},
	color.NRGBA{R: 64, G: 220, B: 64, A: 255},
	color.NRGBA{R: 64, G: 128, B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, B: 0, A: 255},
	color.NRGBA{R: 255, G: 64, B: 255, A: 255},
	color.NRGBA{R: 0, G: 220, B: 220, A: 255},
}

// Footprint is the outline of one view in panorama pixel coordinates.
type Footprint struct {
	Label string
	Paths [][]math.Vec2
	Color color.Color // nil picks from Palette
}

// Draw returns a copy of src with every footprint stroked on top and labelled
// at its first point.
func Draw(src image.Image, footprints []Footprint, lineWidth float64) image.Image {
	dc := gg.NewContextForImage(src)
	dc.SetLineWidth(lineWidth)
	dc.SetLineCapRound()

	for i, fp := range footprints {
		c := fp.Color
		if c == nil {
			c = Palette[i%len(Palette)]
		}
		dc.SetColor(c)

		for _, path := range fp.Paths {
			if len(path) < 2 {
				continue
			}
			dc.MoveTo(path[0].X, path[0].Y)
			for _, p := range path[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.Stroke()
		}

		if fp.Label != "" && len(fp.Paths) > 0 && len(fp.Paths[0]) > 0 {
			p := fp.Paths[0][0]
			dc.DrawStringAnchored(fp.Label, p.X+lineWidth, p.Y+lineWidth, 0, 1)
		}
	}

	return dc.Image()
}
