package pipeline

import (
	"testing"

	"github.com/nvr-ai/go-imgshift/images"
)

// benchResolutions limits the reference table to frames that keep a single
// benchmark iteration under a second.
func benchResolutions(b *testing.B) []images.Resolution {
	b.Helper()

	var out []images.Resolution
	for _, res := range images.StandardResolutions() {
		if res.Width*res.Height <= 1920*1080 {
			out = append(out, res)
		}
	}
	return out
}

func BenchmarkConvertToFormat(b *testing.B) {
	p := New(seeded(1))

	for _, res := range benchResolutions(b) {
		src := redPNG(b, res.Width, res.Height)
		for _, target := range []string{"jpeg", "webp"} {
			b.Run(res.Name+"/"+target, func(b *testing.B) {
				b.SetBytes(int64(len(src)))
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := p.ConvertToFormat(src, target, 85); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkApplyEvasion(b *testing.B) {
	p := New(seeded(1))

	for _, res := range benchResolutions(b) {
		src := redPNG(b, res.Width, res.Height)
		b.Run(res.Name, func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := p.ApplyEvasion(src, 0.5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
