// Package pipeline ties format sniffing, quality advice, the evasion
// transform and the codec together into single-buffer operations.
package pipeline

import (
	"math/rand/v2"

	"github.com/nvr-ai/go-imgshift/codec"
	"github.com/nvr-ai/go-imgshift/evasion"
	"github.com/nvr-ai/go-imgshift/images"
	"go.uber.org/zap"
)

// EvasionFormat is the fixed container every evasion result is written in.
const EvasionFormat = images.FormatWebP

// Pipeline runs conversions and evasion over encoded buffers. It holds no
// per-call state and is safe for concurrent use as long as the codec is.
type Pipeline struct {
	codec   codec.Codec
	logger  *zap.Logger
	newRand func() *rand.Rand
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCodec replaces the default codec.
func WithCodec(c codec.Codec) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.codec = c
		}
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRandSource sets the factory that produces one generator per evasion
// call. The factory must be safe for concurrent use when the pipeline is.
func WithRandSource(fn func() *rand.Rand) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newRand = fn
		}
	}
}

// New creates a pipeline with the standard codec, a no-op logger and
// entropy-seeded generators unless overridden.
//
// @example
// p := pipeline.New(pipeline.WithLogger(logger))
// out, err := p.ConvertToFormat(buf, "jpeg", 80)
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		codec:   codec.New(),
		logger:  zap.NewNop(),
		newRand: evasion.NewRand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) decode(buf []byte) (*images.Grid, error) {
	g, err := p.codec.Decode(buf)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return g, nil
}

func (p *Pipeline) encode(g *images.Grid, format images.Format, quality int) ([]byte, error) {
	out, err := p.codec.Encode(g, format, quality)
	if err != nil {
		return nil, &EncodeError{Format: format.String(), Err: err}
	}
	return out, nil
}

// convert decodes buf and writes it as target at the advised quality.
func (p *Pipeline) convert(buf []byte, target images.Format, quality int) ([]byte, error) {
	g, err := p.decode(buf)
	if err != nil {
		return nil, err
	}

	advised := images.AdviseQuality(g.Width(), g.Height(), quality)
	out, err := p.encode(g, target, advised)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("converted image",
		zap.Stringer("from", images.Sniff(buf)),
		zap.Stringer("to", target),
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.Int("quality", advised),
		zap.Int("bytes_in", len(buf)),
		zap.Int("bytes_out", len(out)),
	)
	return out, nil
}

// ConvertToFormat re-encodes buf as target. The quality is adjusted for the
// decoded size before encoding.
//
// Arguments:
// - buf: The encoded source image.
// - target: One of jpeg, jpg, png, webp, gif or bmp.
// - quality: The baseline encoder quality.
//
// Returns:
// - The encoded output.
// - *UnsupportedFormatError, *DecodeError or *EncodeError on failure.
func (p *Pipeline) ConvertToFormat(buf []byte, target string, quality int) ([]byte, error) {
	format, ok := images.ParseFormat(target)
	if !ok {
		return nil, &UnsupportedFormatError{Format: target}
	}
	return p.convert(buf, format, quality)
}

// ApplyEvasion decodes buf, runs the evasion transform and writes the result
// as lossless WebP.
//
// Arguments:
// - buf: The encoded source image.
// - noiseIntensity: Noise strength in [0, 1]. Out-of-range values are clamped.
//
// Returns:
// - The WebP output.
// - *DecodeError or *EncodeError on failure.
func (p *Pipeline) ApplyEvasion(buf []byte, noiseIntensity float64) ([]byte, error) {
	g, err := p.decode(buf)
	if err != nil {
		return nil, err
	}
	w, h := g.Width(), g.Height()

	res := evasion.Transform(g, evasion.Options{NoiseIntensity: noiseIntensity}, p.newRand())

	out, err := p.encode(g, EvasionFormat, codec.Lossless)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("applied evasion",
		zap.Stringer("from", images.Sniff(buf)),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("noise_pixels", res.NoisePixels),
		zap.Bool("jittered", res.Jittered),
		zap.Stringer("watermark_corner", res.Watermark.Corner),
		zap.Int("bytes_in", len(buf)),
		zap.Int("bytes_out", len(out)),
	)
	return out, nil
}

// Process is the single entry point combining conversion and evasion.
// A WebP source is first normalised to JPEG. When evasion is requested it
// runs on that JPEG, or directly on any other source. Without evasion the
// buffer is converted to target, and a normalised WebP with a JPEG target is
// returned as is. The target is validated before the WebP branch, so an
// unknown target fails even for a WebP source that would otherwise come
// back as the normalised JPEG.
//
// Arguments:
// - buf: The encoded source image.
// - target: The output format when evasion is off.
// - quality: The baseline encoder quality.
// - applyEvasion: Whether to run the evasion transform.
// - noiseIntensity: Noise strength for the evasion transform.
//
// Returns:
// - The encoded output.
// - A typed pipeline error on failure.
func (p *Pipeline) Process(buf []byte, target string, quality int, applyEvasion bool, noiseIntensity float64) ([]byte, error) {
	var format images.Format
	if !applyEvasion {
		var ok bool
		if format, ok = images.ParseFormat(target); !ok {
			return nil, &UnsupportedFormatError{Format: target}
		}
	}

	if images.Sniff(buf) == images.FormatWebP {
		normalized, err := p.convert(buf, images.FormatJPEG, quality)
		if err != nil {
			return nil, err
		}
		if applyEvasion {
			return p.ApplyEvasion(normalized, noiseIntensity)
		}
		if format == images.FormatJPEG {
			return normalized, nil
		}
		return p.convert(normalized, format, quality)
	}

	if applyEvasion {
		return p.ApplyEvasion(buf, noiseIntensity)
	}
	return p.convert(buf, format, quality)
}

// DimensionsOf decodes buf and returns its size.
func (p *Pipeline) DimensionsOf(buf []byte) (width, height int, err error) {
	g, err := p.decode(buf)
	if err != nil {
		return 0, 0, err
	}
	return g.Width(), g.Height(), nil
}

// WebPToJPEG converts a WebP buffer to JPEG at the advised quality. Other
// inputs go through ConvertToFormat with a JPEG target.
func (p *Pipeline) WebPToJPEG(buf []byte, quality int) ([]byte, error) {
	if images.Sniff(buf) != images.FormatWebP {
		return p.ConvertToFormat(buf, "jpeg", quality)
	}
	return p.convert(buf, images.FormatJPEG, quality)
}

// CompressJPEG re-encodes buf as JPEG. Buffers smaller than skipThreshold
// bytes are returned as an untouched copy. A threshold of 0 never skips.
func (p *Pipeline) CompressJPEG(buf []byte, quality, skipThreshold int) ([]byte, error) {
	if skipThreshold > 0 && len(buf) > 0 && len(buf) < skipThreshold {
		p.logger.Debug("skipped compression",
			zap.Int("bytes", len(buf)),
			zap.Int("threshold", skipThreshold),
		)
		return append([]byte(nil), buf...), nil
	}
	return p.convert(buf, images.FormatJPEG, quality)
}

// Inspect reports the sniffed format and decoded size of buf.
func (p *Pipeline) Inspect(buf []byte) (*images.Image, error) {
	w, h, err := p.DimensionsOf(buf)
	if err != nil {
		return nil, err
	}
	return &images.Image{
		Format: images.Sniff(buf),
		Data:   buf,
		Width:  w,
		Height: h,
	}, nil
}
