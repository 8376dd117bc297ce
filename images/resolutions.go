package images

import (
	"fmt"
	"math"
)

// QualityTier is the size band that decides how AdviseQuality moves the
// baseline quality.
type QualityTier int

const (
	// TierMedium keeps the baseline (0.5 MP to 4 MP inclusive).
	TierMedium QualityTier = iota
	// TierSmall raises the baseline (under 0.5 MP).
	TierSmall
	// TierLarge lowers the baseline (over 4 MP).
	TierLarge
)

// String returns "small", "medium" or "large".
func (t QualityTier) String() string {
	switch t {
	case TierSmall:
		return "small"
	case TierLarge:
		return "large"
	default:
		return "medium"
	}
}

// TierFor classifies a width x height image.
func TierFor(width, height int) QualityTier {
	mp := megapixels(width, height)
	switch {
	case mp > largeImageMegapixels:
		return TierLarge
	case mp < smallImageMegapixels:
		return TierSmall
	default:
		return TierMedium
	}
}

// Resolution is a named reference frame size.
type Resolution struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Megapixels returns the pixel count in millions, rounded to two decimals
// (e.g. 2.07 for 1080p).
func (r Resolution) Megapixels() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0.0
	}
	return math.Round(megapixels(r.Width, r.Height)*100) / 100
}

// Tier returns the quality tier of the resolution.
func (r Resolution) Tier() QualityTier {
	return TierFor(r.Width, r.Height)
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Width, r.Height, r.Megapixels())
}

// standardResolutions is ordered by pixel count, smallest first.
var standardResolutions = []Resolution{
	{Name: "nHD", Width: 640, Height: 360},
	{Name: "FWVGA", Width: 854, Height: 480},
	{Name: "HD 720p", Width: 1280, Height: 720},
	{Name: "2MP (4:3)", Width: 1600, Height: 1200},
	{Name: "Full HD 1080p", Width: 1920, Height: 1080},
	{Name: "QHD 1440p", Width: 2560, Height: 1440},
	{Name: "4MP (16:9)", Width: 2688, Height: 1520},
	{Name: "4K UHD", Width: 3840, Height: 2160},
	{Name: "12MP (4:3)", Width: 4000, Height: 3000},
	{Name: "8K UHD", Width: 7680, Height: 4320},
}

// StandardResolutions returns a copy of the reference resolutions, smallest
// first.
func StandardResolutions() []Resolution {
	return append([]Resolution(nil), standardResolutions...)
}

// LargestResolutionWithin returns the largest reference resolution that fits
// inside width x height.
//
// Arguments:
//   - width: The maximum possible width of the image.
//   - height: The maximum possible height of the image.
//
// Returns:
//   - Resolution: The largest fitting resolution.
//   - bool: True if a resolution was found, otherwise false.
func LargestResolutionWithin(width, height int) (Resolution, bool) {
	var best Resolution
	var found bool

	for _, res := range standardResolutions {
		if res.Width <= width && res.Height <= height {
			if !found || res.Width*res.Height > best.Width*best.Height {
				best = res
				found = true
			}
		}
	}
	return best, found
}
