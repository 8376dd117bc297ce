// Package evasion perturbs a decoded grid so its perceptual hash drifts while
// the picture stays visually the same.
package evasion

import (
	"math"
	"math/rand/v2"

	"github.com/nvr-ai/go-imgshift/images"
	"github.com/samber/lo"
)

// Options controls the evasion transform.
type Options struct {
	// NoiseIntensity scales the per-channel noise magnitude. Clamped to [0, 1].
	NoiseIntensity float64 `json:"noise_intensity" yaml:"noise_intensity"`
	// TargetQuality is carried for encoders that honour it. Clamped to [1, 100].
	TargetQuality int `json:"target_quality" yaml:"target_quality"`
}

// Normalize returns a copy of o with every field inside its valid range.
func (o Options) Normalize() Options {
	o.NoiseIntensity = lo.Clamp(o.NoiseIntensity, 0, 1)
	if math.IsNaN(o.NoiseIntensity) {
		o.NoiseIntensity = 0
	}
	o.TargetQuality = images.ClampQuality(o.TargetQuality)
	return o
}

// Result reports what a Transform call did to the grid.
type Result struct {
	// NoisePixels is the number of coordinates drawn by the noise step.
	NoisePixels int
	// Jittered is true when the grid was resized by one pixel.
	Jittered bool
	// Watermark describes where the digit landed.
	Watermark Placement
}

// NewRand returns a generator seeded from the runtime entropy source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Transform runs noise injection, dimension jitter and watermark compositing
// on g, in that order. g is mutated in place and may change size.
//
// Arguments:
// - g: The grid to perturb.
// - opts: Noise intensity and quality hints.
// - rng: The random source. nil uses a freshly seeded generator.
//
// Returns:
// - A Result describing each step.
//
// @example
// res := evasion.Transform(grid, evasion.Options{NoiseIntensity: 0.5}, nil)
func Transform(g *images.Grid, opts Options, rng *rand.Rand) Result {
	if rng == nil {
		rng = NewRand()
	}
	opts = opts.Normalize()

	var res Result
	res.NoisePixels = InjectNoise(g, opts.NoiseIntensity, rng)
	res.Jittered = JitterDimensions(g, rng)
	res.Watermark = CompositeWatermark(g, rng)
	return res
}
