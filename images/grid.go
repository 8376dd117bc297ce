package images

import (
	"image"

	"golang.org/x/image/draw"
)

// Layout is the channel layout of a decoded grid.
type Layout int

const (
	// LayoutRGB is an opaque three-channel grid. Alpha reads as 255.
	LayoutRGB Layout = iota
	// LayoutRGBA carries a meaningful alpha channel.
	LayoutRGBA
)

// String returns "rgb" or "rgba".
func (l Layout) String() string {
	if l == LayoutRGBA {
		return "rgba"
	}
	return "rgb"
}

// Pixel is one grid cell: R, G, B, A. A is 255 on RGB grids.
type Pixel [4]uint8

// Grid is a decoded raster with non-premultiplied 8-bit channels. A Grid is
// owned by a single pipeline call and must not be shared across goroutines.
type Grid struct {
	img    *image.NRGBA
	layout Layout
}

// NewGrid allocates a zeroed grid. Dimensions below 1 are raised to 1.
func NewGrid(width, height int, layout Layout) *Grid {
	width, height = max(width, 1), max(height, 1)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if layout == LayoutRGB {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xFF
		}
	}
	return &Grid{img: img, layout: layout}
}

// GridFromImage copies src into a new grid rebased at the origin. The layout
// is RGB when every pixel is fully opaque, RGBA otherwise.
//
// Arguments:
// - src: Any decoded image.
//
// Returns:
// - A grid owning its own pixel memory.
func GridFromImage(src image.Image) *Grid {
	img := toNRGBA(src)
	layout := LayoutRGBA
	if img.Opaque() {
		layout = LayoutRGB
	}
	return &Grid{img: img, layout: layout}
}

// toNRGBA converts any image to an origin-based *image.NRGBA copy.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	// Straight row copy keeps non-premultiplied values exact.
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[i:i+4*b.Dx()])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Width returns the grid width in pixels.
func (g *Grid) Width() int { return g.img.Rect.Dx() }

// Height returns the grid height in pixels.
func (g *Grid) Height() int { return g.img.Rect.Dy() }

// Layout returns the channel layout.
func (g *Grid) Layout() Layout { return g.layout }

// Bounds returns the grid rectangle, always anchored at (0, 0).
func (g *Grid) Bounds() image.Rectangle { return g.img.Rect }

// Image exposes the backing raster for encoders. Callers must not retain it
// past the owning call.
func (g *Grid) Image() *image.NRGBA { return g.img }

// In reports whether (x, y) addresses a pixel of the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width() && y < g.Height()
}

// At returns the pixel at (x, y). ok is false when the coordinate is outside
// the grid.
func (g *Grid) At(x, y int) (p Pixel, ok bool) {
	if !g.In(x, y) {
		return p, false
	}
	i := g.img.PixOffset(x, y)
	copy(p[:], g.img.Pix[i:i+4])
	return p, true
}

// Set writes p at (x, y) and reports whether the coordinate was in bounds.
// On RGB grids the alpha channel of p is ignored.
func (g *Grid) Set(x, y int, p Pixel) bool {
	if !g.In(x, y) {
		return false
	}
	i := g.img.PixOffset(x, y)
	g.img.Pix[i+0] = p[0]
	g.img.Pix[i+1] = p[1]
	g.img.Pix[i+2] = p[2]
	if g.layout == LayoutRGBA {
		g.img.Pix[i+3] = p[3]
	}
	return true
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	img := &image.NRGBA{
		Pix:    append([]uint8(nil), g.img.Pix...),
		Stride: g.img.Stride,
		Rect:   g.img.Rect,
	}
	return &Grid{img: img, layout: g.layout}
}

// Equal reports whether both grids have the same size and identical pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width() != o.Width() || g.Height() != o.Height() {
		return false
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			a, _ := g.At(x, y)
			b, _ := o.At(x, y)
			if a != b {
				return false
			}
		}
	}
	return true
}
