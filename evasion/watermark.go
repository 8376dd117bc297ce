package evasion

import (
	"image"
	"math/rand/v2"

	"github.com/nvr-ai/go-imgshift/glyph"
	"github.com/nvr-ai/go-imgshift/images"
)

// Corner is the image corner the watermark is anchored to.
type Corner int

// Corners in the order the random draw indexes them.
const (
	// CornerTopLeft insets the digit from the top and left edges.
	CornerTopLeft Corner = iota
	// CornerTopRight insets the digit from the top and right edges.
	CornerTopRight
	// CornerBottomRight insets the digit from the bottom and right edges.
	CornerBottomRight
	// CornerBottomLeft insets the digit from the bottom and left edges.
	CornerBottomLeft
)

// String returns the short corner name.
func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomRight:
		return "bottom-right"
	case CornerBottomLeft:
		return "bottom-left"
	}
	return "unknown"
}

const (
	minWatermarkScale = 8
	// watermarkScaleDivisor sets the cell size relative to the grid width.
	watermarkScaleDivisor = 150
	watermarkOpacity      = 0.15
)

// Placement describes a composited watermark.
type Placement struct {
	Corner Corner
	Digit  int
	// Scale is the side length in pixels of one glyph cell.
	Scale  int
	Margin int
	// Origin is the top-left pixel of the digit. It may be negative.
	Origin image.Point
	// Footprint is the full digit box, which can extend past the canvas.
	Footprint images.Rect
}

// PlaceWatermark computes where a digit anchored to corner lands on a
// width x height canvas.
func PlaceWatermark(width, height, digit int, corner Corner) Placement {
	scale := max(minWatermarkScale, width/watermarkScaleDivisor)
	margin := scale / 2
	tw, th := glyph.Width*scale, glyph.Height*scale

	var origin image.Point
	switch corner {
	case CornerTopRight:
		origin = image.Pt(width-margin-tw, margin)
	case CornerBottomRight:
		origin = image.Pt(width-margin-tw, height-margin-th)
	case CornerBottomLeft:
		origin = image.Pt(margin, height-margin-th)
	default:
		corner = CornerTopLeft
		origin = image.Pt(margin, margin)
	}

	return Placement{
		Corner:    corner,
		Digit:     min(max(digit, 0), 9),
		Scale:     scale,
		Margin:    margin,
		Origin:    origin,
		Footprint: images.NewRectWH(origin.X, origin.Y, tw, th),
	}
}

// CompositeWatermark draws a random digit in a random corner of g, blending
// black into the colour channels at low opacity.
//
// Arguments:
// - g: The grid to draw on.
// - rng: The random source.
//
// Returns:
// - The placement that was drawn.
func CompositeWatermark(g *images.Grid, rng *rand.Rand) Placement {
	digit := rng.IntN(10)
	corner := Corner(rng.IntN(4))
	pl := PlaceWatermark(g.Width(), g.Height(), digit, corner)
	DrawDigit(g, pl)
	return pl
}

// DrawDigit blends the glyph described by pl into g. Cells outside the
// canvas are skipped.
func DrawDigit(g *images.Grid, pl Placement) {
	gl := glyph.For(pl.Digit)
	for row := range glyph.Height {
		for col := range glyph.Width {
			if !gl.On(col, row) {
				continue
			}
			cell := images.NewRectWH(pl.Origin.X+col*pl.Scale, pl.Origin.Y+row*pl.Scale, pl.Scale, pl.Scale)
			blendCell(g, cell)
		}
	}
}

func blendCell(g *images.Grid, cell images.Rect) {
	r := cell.Intersect(images.Rect{X2: g.Width(), Y2: g.Height()}).ToRectangle()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p, ok := g.At(x, y)
			if !ok {
				continue
			}
			for c := range 3 {
				p[c] = blend(p[c], 0)
			}
			g.Set(x, y, p)
		}
	}
}

// blend mixes fg over src at watermarkOpacity, rounding half up.
func blend(src, fg uint8) uint8 {
	v := float64(src)*(1-watermarkOpacity) + float64(fg)*watermarkOpacity
	return uint8(min(v+0.5, 255))
}
