// Package codec decodes encoded buffers into grids and encodes grids back
// into container formats.
package codec

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/nvr-ai/go-imgshift/images"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Lossless is the quality value that asks for lossless output. WebP honours
// it. JPEG encodes at maximum quality. PNG, GIF and BMP ignore quality.
const Lossless = 0

// ErrUnsupportedFormat is returned for containers with no codec.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec converts between encoded buffers and grids.
type Codec interface {
	// Decode parses buf into a grid. An empty buf yields images.ErrEmptyImage.
	Decode(buf []byte) (*images.Grid, error)
	// Encode writes g in the given container format.
	Encode(g *images.Grid, format images.Format, quality int) ([]byte, error)
}

// Standard is the default Codec. It dispatches on the sniffed format and
// falls back to image.Decode for buffers it cannot classify.
type Standard struct {
	// GIFColors is the palette size used when encoding GIF. 0 means 256.
	GIFColors int
}

// New returns the default codec.
func New() *Standard {
	return &Standard{GIFColors: 256}
}

// Decode parses buf into a grid.
//
// Arguments:
// - buf: The encoded image. It is not modified.
//
// Returns:
// - The decoded grid.
// - An error wrapping the decoder failure.
func (s *Standard) Decode(buf []byte) (*images.Grid, error) {
	if len(buf) == 0 {
		return nil, images.ErrEmptyImage
	}

	img, err := decodeImage(buf)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errors.Errorf("decoded image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}
	return images.GridFromImage(img), nil
}

func decodeImage(buf []byte) (image.Image, error) {
	r := bytes.NewReader(buf)
	format := images.Sniff(buf)

	var (
		img image.Image
		err error
	)
	switch format {
	case images.FormatJPEG:
		img, err = jpeg.Decode(r)
	case images.FormatPNG:
		img, err = png.Decode(r)
	case images.FormatGIF:
		img, err = gif.Decode(r)
	case images.FormatBMP:
		img, err = bmp.Decode(r)
	case images.FormatWebP:
		img, err = decodeWebP(buf)
	case images.FormatAVIF:
		return nil, errors.Wrap(ErrUnsupportedFormat, "avif decoding")
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}
	return img, nil
}

// Encode writes g in format.
//
// Arguments:
// - g: The grid to encode.
// - format: The target container.
// - quality: Encoder quality in [1, 100], or Lossless.
//
// Returns:
// - The encoded bytes.
// - An error when the container is unsupported or the encoder fails.
func (s *Standard) Encode(g *images.Grid, format images.Format, quality int) ([]byte, error) {
	if g == nil {
		return nil, images.ErrEmptyImage
	}

	var (
		buf bytes.Buffer
		err error
		img = g.Image()
	)
	switch format {
	case images.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)})
	case images.FormatPNG:
		err = png.Encode(&buf, img)
	case images.FormatGIF:
		n := s.GIFColors
		if n <= 0 || n > 256 {
			n = 256
		}
		err = gif.Encode(&buf, img, &gif.Options{NumColors: n})
	case images.FormatBMP:
		err = bmp.Encode(&buf, img)
	case images.FormatWebP:
		var out []byte
		if out, err = encodeWebP(img, quality); err == nil {
			buf.Write(out)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "encode %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

func jpegQuality(quality int) int {
	if quality == Lossless {
		return images.MaxQuality
	}
	return images.ClampQuality(quality)
}

// libwebp works on straight alpha but the chai2010 helpers label its buffers
// *image.RGBA. Buffers are relabelled, never converted.

// decodeWebP returns the decoded pixels as an *image.NRGBA.
func decodeWebP(buf []byte) (*image.NRGBA, error) {
	m, err := webp.DecodeRGBA(buf)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}, nil
}

// encodeWebP writes img losslessly for Lossless, lossy otherwise. RGB values
// under fully transparent pixels are kept in lossless mode.
func encodeWebP(img *image.NRGBA, quality int) ([]byte, error) {
	straight := &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
	if quality == Lossless {
		return webp.EncodeExactLosslessRGBA(straight)
	}
	return webp.EncodeRGBA(straight, float32(images.ClampQuality(quality)))
}
