// Package images - Image formats, pixel grids and sizing helpers for the
// transform pipeline.
package images

import "errors"

// ErrEmptyImage is returned when a zero-length buffer is handed to a decoder.
var ErrEmptyImage = errors.New("empty image data")

// Image describes an encoded image: its sniffed format, its bytes and its
// decoded dimensions.
type Image struct {
	// The format of the image.
	Format Format `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"-" yaml:"-"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// Megapixels returns width*height in millions of pixels.
func (i *Image) Megapixels() float64 {
	return megapixels(i.Width, i.Height)
}

func megapixels(width, height int) float64 {
	return float64(width) * float64(height) / 1_000_000.0
}

// Tier returns the quality tier for the decoded size.
func (i *Image) Tier() QualityTier {
	return TierFor(i.Width, i.Height)
}
