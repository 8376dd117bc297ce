// Package glyph holds a fixed 5x7 monochrome bitmap font for the digits 0-9.
package glyph

const (
	// Width is the number of columns in every glyph.
	Width = 5
	// Height is the number of rows in every glyph.
	Height = 7
)

// Glyph is a 5x7 bit matrix stored row-major. A 1 marks a foreground cell.
type Glyph [Width * Height]uint8

// On reports whether the cell at (col, row) is foreground. Cells outside the
// 5x7 matrix are background.
func (g Glyph) On(col, row int) bool {
	if col < 0 || row < 0 || col >= Width || row >= Height {
		return false
	}
	return g[row*Width+col] != 0
}

// Count returns the number of foreground cells.
func (g Glyph) Count() int {
	n := 0
	for _, c := range g {
		if c != 0 {
			n++
		}
	}
	return n
}

// For returns a copy of the glyph for digit. Digits outside 0-9 are clamped.
func For(digit int) Glyph {
	return digits[min(max(digit, 0), 9)]
}

var digits = [10]Glyph{
	// 0
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 1, 1,
		1, 0, 1, 0, 1,
		1, 1, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
	// 1
	{0, 0, 1, 0, 0,
		0, 1, 1, 0, 0,
		1, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		1, 1, 1, 1, 1},
	// 2
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		0, 0, 0, 0, 1,
		0, 0, 0, 1, 0,
		0, 0, 1, 0, 0,
		0, 1, 0, 0, 0,
		1, 1, 1, 1, 1},
	// 3
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		0, 0, 0, 0, 1,
		0, 0, 1, 1, 0,
		0, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
	// 4
	{0, 0, 0, 1, 0,
		0, 0, 1, 1, 0,
		0, 1, 0, 1, 0,
		1, 0, 0, 1, 0,
		1, 1, 1, 1, 1,
		0, 0, 0, 1, 0,
		0, 0, 0, 1, 0},
	// 5
	{1, 1, 1, 1, 1,
		1, 0, 0, 0, 0,
		1, 1, 1, 1, 0,
		0, 0, 0, 0, 1,
		0, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
	// 6
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 0,
		1, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
	// 7
	{1, 1, 1, 1, 1,
		0, 0, 0, 0, 1,
		0, 0, 0, 1, 0,
		0, 0, 1, 0, 0,
		0, 1, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 1, 0, 0, 0},
	// 8
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
	// 9
	{0, 1, 1, 1, 0,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 1,
		0, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		0, 1, 1, 1, 0},
}
