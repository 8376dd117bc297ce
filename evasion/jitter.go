package evasion

import (
	"math/rand/v2"

	"github.com/nvr-ai/go-imgshift/images"
)

// JitterDimensions grows or shrinks g by one pixel on both axes with
// probability 0.5. The new size never drops below 1x1.
//
// Returns:
// - true when the grid was resized.
func JitterDimensions(g *images.Grid, rng *rand.Rand) bool {
	if rng.IntN(2) == 0 {
		return false
	}

	delta := 1
	if rng.IntN(2) == 0 {
		delta = -1
	}
	return g.Resize(g.Width()+delta, g.Height()+delta, images.BilinearFilter)
}
