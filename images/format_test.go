package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// pad extends a signature to the 12-byte sniffing minimum.
func pad(prefix []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, prefix)
	return out
}

func webpHeader() []byte {
	b := pad([]byte("RIFF"), 16)
	copy(b[8:], "WEBP")
	return b
}

func TestSniff(t *testing.T) {
	avif := pad(nil, 16)
	copy(avif[4:], "ftypavif")
	avis := pad(nil, 16)
	copy(avis[4:], "ftypavis")
	heic := pad(nil, 16)
	copy(heic[4:], "ftypheic")

	tests := []struct {
		name string
		buf  []byte
		want Format
	}{
		{"nil", nil, FormatUnknown},
		{"empty", []byte{}, FormatUnknown},
		{"webp", webpHeader(), FormatWebP},
		{"png", pad(magicPNG, 12), FormatPNG},
		{"jpeg", pad(magicJPEG, 12), FormatJPEG},
		{"gif87a", pad([]byte("GIF87a"), 12), FormatGIF},
		{"gif89a", pad([]byte("GIF89a"), 12), FormatGIF},
		{"bmp", pad([]byte("BM"), 12), FormatBMP},
		{"avif", avif, FormatAVIF},
		{"avis", avis, FormatAVIF},
		{"heic brand", heic, FormatUnknown},
		{"riff without webp", pad([]byte("RIFFxxxxWAVE"), 12), FormatUnknown},
		{"text", []byte("hello, world!"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.buf))
		})
	}
}

func TestSniffShortBuffersAreUnknown(t *testing.T) {
	signatures := [][]byte{magicPNG, magicJPEG, []byte("GIF89a"), []byte("BM"), webpHeader()}
	for _, sig := range signatures {
		for n := 0; n < sniffLen; n++ {
			buf := pad(sig, n)
			assert.Equal(t, FormatUnknown, Sniff(buf), "len=%d prefix=%q", n, sig)
		}
	}
}

func TestSniffWebPRequiresFormType(t *testing.T) {
	buf := webpHeader()
	assert.Equal(t, FormatWebP, Sniff(buf))

	for _, alt := range []string{"WEBQ", "webp", "AVI ", "\x00\x00\x00\x00"} {
		mutated := append([]byte(nil), buf...)
		copy(mutated[8:12], alt)
		assert.NotEqual(t, FormatWebP, Sniff(mutated), "form type %q", alt)
	}
}

func TestSniffIsDeterministic(t *testing.T) {
	buf := pad(magicPNG, 64)
	first := Sniff(buf)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Sniff(buf))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"jpeg", FormatJPEG, true},
		{"jpg", FormatJPEG, true},
		{"JPG", FormatJPEG, true},
		{" png ", FormatPNG, true},
		{"webp", FormatWebP, true},
		{"gif", FormatGIF, true},
		{"bmp", FormatBMP, true},
		{"avif", FormatUnknown, false},
		{"tiff", FormatUnknown, false},
		{"", FormatUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "jpeg", FormatJPEG.String())
	assert.Equal(t, "image/jpeg", FormatJPEG.MimeType())
	assert.Equal(t, "webp", FormatWebP.Extension())
	assert.Equal(t, "bin", FormatUnknown.Extension())
	assert.Equal(t, "application/octet-stream", FormatUnknown.MimeType())
}
