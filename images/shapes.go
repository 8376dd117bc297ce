// Package images - Image processing utilities
package images

import "image"

// Rect is a lightweight box.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// NewRectWH returns the box with top-left corner (x, y) and the given size.
func NewRectWH(x, y, width, height int) Rect {
	return Rect{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns X2-X1.
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns Y2-Y1.
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Empty reports whether the box covers no pixels.
func (r Rect) Empty() bool { return r.X2 <= r.X1 || r.Y2 <= r.Y1 }

// Contains reports whether (x, y) lies inside the box.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// Intersect returns the overlap of two boxes. Boxes that do not overlap
// produce an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	ix := Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
	if ix.Empty() {
		return Rect{}
	}
	return ix
}

// ToRectangle converts the box to an image.Rectangle.
func (r Rect) ToRectangle() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2).Canon()
}
