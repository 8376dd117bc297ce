package evasion

import (
	"testing"

	"github.com/nvr-ai/go-imgshift/images"
)

func BenchmarkInjectNoise(b *testing.B) {
	rng := newTestRand(7)
	g := solidGrid(1280, 720, images.LayoutRGB, images.Pixel{128, 128, 128, 255})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		InjectNoise(g, 0.5, rng)
	}
}

func BenchmarkCompositeWatermark(b *testing.B) {
	rng := newTestRand(7)
	g := solidGrid(1920, 1080, images.LayoutRGBA, images.Pixel{200, 200, 200, 255})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		CompositeWatermark(g, rng)
	}
}

func BenchmarkTransform(b *testing.B) {
	rng := newTestRand(7)
	src := solidGrid(854, 480, images.LayoutRGB, images.Pixel{10, 120, 240, 255})
	opts := Options{NoiseIntensity: 0.5}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		Transform(src.Clone(), opts, rng)
	}
}
