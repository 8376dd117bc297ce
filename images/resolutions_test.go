package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		w, h int
		want QualityTier
	}{
		{640, 360, TierSmall},
		{1000, 500, TierMedium},
		{1920, 1080, TierMedium},
		{2000, 2000, TierMedium},
		{3840, 2160, TierLarge},
		{0, 0, TierSmall},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.w, tt.h), "%dx%d", tt.w, tt.h)
	}
	assert.Equal(t, "large", TierLarge.String())
	assert.Equal(t, "medium", TierMedium.String())
}

func TestStandardResolutionsAdviseQuality(t *testing.T) {
	for _, res := range StandardResolutions() {
		t.Run(res.Name, func(t *testing.T) {
			q := AdviseQuality(res.Width, res.Height, 80)
			switch res.Tier() {
			case TierSmall:
				assert.Equal(t, 85, q)
			case TierLarge:
				assert.Equal(t, 70, q)
			default:
				assert.Equal(t, 80, q)
			}
		})
	}
}

func TestStandardResolutionsOrdered(t *testing.T) {
	all := StandardResolutions()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Width*all[i].Height, all[i-1].Width*all[i-1].Height)
	}

	// Returned slice is a copy.
	all[0].Name = "changed"
	assert.Equal(t, "nHD", StandardResolutions()[0].Name)
}

func TestResolutionMegapixels(t *testing.T) {
	fhd := Resolution{Name: "Full HD 1080p", Width: 1920, Height: 1080}
	assert.Equal(t, 2.07, fhd.Megapixels())
	assert.Equal(t, "Full HD 1080p (1920x1080, 2.07MP)", fhd.String())
	assert.Equal(t, 0.0, Resolution{Width: -1, Height: 10}.Megapixels())
}

func TestLargestResolutionWithin(t *testing.T) {
	res, ok := LargestResolutionWithin(1700, 1250)
	require.True(t, ok)
	assert.Equal(t, "2MP (4:3)", res.Name)

	res, ok = LargestResolutionWithin(1920, 1080)
	require.True(t, ok)
	assert.Equal(t, "Full HD 1080p", res.Name)

	_, ok = LargestResolutionWithin(320, 240)
	assert.False(t, ok)
}
