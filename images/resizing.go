package images

import (
	"github.com/nfnt/resize"
)

// ResampleFilter selects the interpolation used when a grid is resized.
type ResampleFilter int

const (
	// NearestNeighborFilter uses nearest-neighbor interpolation (fastest, lowest quality).
	NearestNeighborFilter ResampleFilter = iota
	// BilinearFilter uses a triangle kernel (fast, smooth).
	BilinearFilter
	// BicubicFilter uses bicubic interpolation.
	BicubicFilter
	// LanczosFilter uses Lanczos a=3 resampling (slowest, sharpest).
	LanczosFilter
	// MitchellNetravaliFilter uses the Mitchell-Netravali cubic filter.
	MitchellNetravaliFilter
)

// interpolation maps each filter to its nfnt/resize function.
var interpolation = map[ResampleFilter]resize.InterpolationFunction{
	NearestNeighborFilter:   resize.NearestNeighbor,
	BilinearFilter:          resize.Bilinear,
	BicubicFilter:           resize.Bicubic,
	LanczosFilter:           resize.Lanczos3,
	MitchellNetravaliFilter: resize.MitchellNetravali,
}

// Resize replaces the grid's raster with a resampled copy of the given size.
// Dimensions below 1 are raised to 1, and the layout is kept.
//
// Arguments:
// - width: The target width.
// - height: The target height.
// - filter: The resampling filter.
//
// Returns:
// - true when the size changed.
//
// @example
// changed := grid.Resize(grid.Width()+1, grid.Height()+1, images.BilinearFilter)
func (g *Grid) Resize(width, height int, filter ResampleFilter) bool {
	width, height = max(width, 1), max(height, 1)
	if width == g.Width() && height == g.Height() {
		return false
	}

	fn, ok := interpolation[filter]
	if !ok {
		fn = resize.Bilinear
	}

	resized := resize.Resize(uint(width), uint(height), g.img, fn)
	g.img = toNRGBA(resized)

	if g.layout == LayoutRGB {
		// RGB grids stay fully opaque.
		for i := 3; i < len(g.img.Pix); i += 4 {
			g.img.Pix[i] = 0xFF
		}
	}
	return true
}
