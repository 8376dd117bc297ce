package images

import (
	"bytes"
	"strings"
)

// Format is the container format of an encoded image, as classified from its
// leading magic bytes.
type Format int

// Format constants.
const (
	// FormatUnknown is returned when no signature matches.
	FormatUnknown Format = iota
	// FormatWebP is a RIFF container with a WEBP form type.
	FormatWebP
	// FormatPNG is the PNG format.
	FormatPNG
	// FormatJPEG is the JPEG/JFIF format.
	FormatJPEG
	// FormatGIF is the GIF87a/GIF89a format.
	FormatGIF
	// FormatBMP is the Windows bitmap format.
	FormatBMP
	// FormatAVIF is an ISO-BMFF container with an avif or avis brand.
	FormatAVIF
)

// sniffLen is the minimum buffer length considered by Sniff.
const sniffLen = 12

var (
	magicRIFF = []byte("RIFF")
	magicWEBP = []byte("WEBP")
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicGIF  = []byte("GIF")
	magicBMP  = []byte("BM")
	magicFTYP = []byte("ftyp")
	brandAVIF = []byte("avif")
	brandAVIS = []byte("avis")
)

// Sniff classifies buf by its magic bytes. It only ever looks at the first
// 16 bytes and never inspects pixel content.
//
// Arguments:
// - buf: The encoded image bytes.
//
// Returns:
// - The detected Format, or FormatUnknown when buf is shorter than 12 bytes
// or matches no known signature.
//
// @example
// f := images.Sniff(data) // FormatPNG
func Sniff(buf []byte) Format {
	if len(buf) < sniffLen {
		return FormatUnknown
	}

	switch {
	case len(buf) >= 12 && bytes.Equal(buf[0:4], magicRIFF) && bytes.Equal(buf[8:12], magicWEBP):
		return FormatWebP
	case len(buf) >= 8 && bytes.Equal(buf[0:8], magicPNG):
		return FormatPNG
	case len(buf) >= 3 && bytes.Equal(buf[0:3], magicJPEG):
		return FormatJPEG
	case len(buf) >= 3 && bytes.Equal(buf[0:3], magicGIF):
		return FormatGIF
	case len(buf) >= 2 && bytes.Equal(buf[0:2], magicBMP):
		return FormatBMP
	case len(buf) >= 12 && bytes.Equal(buf[4:8], magicFTYP) &&
		(bytes.Equal(buf[8:12], brandAVIF) || bytes.Equal(buf[8:12], brandAVIS)):
		return FormatAVIF
	}

	return FormatUnknown
}

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	case FormatAVIF:
		return "avif"
	default:
		return "unknown"
	}
}

// Extension returns the conventional file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatUnknown:
		return "bin"
	default:
		return f.String()
	}
}

// MimeType returns the media type for the format.
func (f Format) MimeType() string {
	switch f {
	case FormatUnknown:
		return "application/octet-stream"
	default:
		return "image/" + f.String()
	}
}

// ParseFormat maps a user-facing format name to a Format. Both "jpeg" and
// "jpg" name JPEG. Only formats the codec can encode are accepted.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "webp":
		return FormatWebP, true
	case "gif":
		return FormatGIF, true
	case "bmp":
		return FormatBMP, true
	default:
		return FormatUnknown, false
	}
}
