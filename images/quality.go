package images

import "github.com/samber/lo"

const (
	// largeImageMegapixels is the size above which quality is lowered.
	largeImageMegapixels = 4.0
	// smallImageMegapixels is the size below which quality is raised.
	smallImageMegapixels = 0.5
	// largeImagePenalty is subtracted from the baseline for large images.
	largeImagePenalty = 10
	// smallImageBonus is added to the baseline for small images.
	smallImageBonus = 5

	// MinQuality and MaxQuality bound every encoder quality value.
	MinQuality = 1
	MaxQuality = 100
)

// AdviseQuality derives an encoder quality from the decoded dimensions and a
// caller-supplied baseline. Large images (> 4 MP) get baseline-10 and small
// images (< 0.5 MP) get baseline+5. The result is always within [1, 100].
//
// Arguments:
// - width, height: Decoded image dimensions.
// - baseline: The requested quality.
//
// Returns:
// - The adjusted quality.
//
// @example
// q := images.AdviseQuality(4000, 1200, 80) // 70
func AdviseQuality(width, height, baseline int) int {
	adjusted := baseline
	switch TierFor(width, height) {
	case TierLarge:
		adjusted = max(baseline-largeImagePenalty, 0)
	case TierSmall:
		adjusted = min(baseline+smallImageBonus, MaxQuality)
	}

	return ClampQuality(adjusted)
}

// ClampQuality bounds q to [MinQuality, MaxQuality].
func ClampQuality(q int) int {
	return lo.Clamp(q, MinQuality, MaxQuality)
}
