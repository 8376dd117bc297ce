package evasion

import (
	"math"
	"math/rand/v2"

	"github.com/nvr-ai/go-imgshift/images"
	"github.com/samber/lo"
)

const (
	// noiseRatio is the share of the pixel count drawn as noise coordinates.
	noiseRatio = 0.03
	// maxNoiseShift is the channel shift at full intensity.
	maxNoiseShift = 2
)

// NoiseMagnitude maps an intensity in [0, 1] to the largest channel shift.
// Values outside the range are clamped, so the result is 0, 1 or 2.
func NoiseMagnitude(intensity float64) int {
	if math.IsNaN(intensity) {
		return 0
	}
	return int(lo.Clamp(intensity, 0, 1) * maxNoiseShift)
}

// NoiseCount is the number of coordinates drawn for a width x height grid.
func NoiseCount(width, height int) int {
	return int(math.Round(noiseRatio * float64(width) * float64(height)))
}

// InjectNoise shifts the colour channels of randomly drawn pixels by small
// independent amounts. Coordinates may repeat. Alpha is never touched.
//
// Arguments:
// - g: The grid to modify.
// - intensity: Noise intensity in [0, 1].
// - rng: The random source.
//
// Returns:
// - The number of coordinates drawn. 0 when the magnitude rounds to 0.
func InjectNoise(g *images.Grid, intensity float64, rng *rand.Rand) int {
	m := NoiseMagnitude(intensity)
	if m == 0 {
		return 0
	}

	w, h := g.Width(), g.Height()
	n := NoiseCount(w, h)
	for range n {
		x, y := rng.IntN(w), rng.IntN(h)
		p, ok := g.At(x, y)
		if !ok {
			continue
		}
		for c := range 3 {
			shift := rng.IntN(2*m+1) - m
			p[c] = uint8(lo.Clamp(int(p[c])+shift, 0, 255))
		}
		g.Set(x, y, p)
	}
	return n
}
