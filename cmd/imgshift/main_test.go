package main

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-imgshift/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error", "--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSniffAndDims(t *testing.T) {
	src := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, src, 10, 10)

	out, err := run(t, "sniff", src)
	require.NoError(t, err)
	assert.Equal(t, "png\timage/png\n", out)

	out, err = run(t, "dims", src)
	require.NoError(t, err)
	assert.Contains(t, out, "10x10")
	assert.Contains(t, out, "small")
}

func TestConvertAndEvade(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "red.png")
	writePNG(t, src, 16, 16)

	dst := filepath.Join(dir, "red.jpg")
	_, err := run(t, "convert", src, dst, "--format", "jpeg", "--quality", "70")
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, images.FormatJPEG, images.Sniff(data))

	dst = filepath.Join(dir, "red.webp")
	_, err = run(t, "process", src, dst, "--evade", "--noise", "1")
	require.NoError(t, err)
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, images.FormatWebP, images.Sniff(data))
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "red.png")
	writePNG(t, src, 4, 4)

	_, err := run(t, "convert", src, filepath.Join(dir, "x"), "--format", "tiff")
	assert.EqualError(t, err, "unsupported target format: tiff")

	junk := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))
	_, err = run(t, "dims", junk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image:")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "b.png"), 6, 6)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.jpg"), []byte("broken"), 0o600))

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	out, err := run(t, "batch", dir, "--out", zipPath, "--mode", "convert", "--format", "png")
	require.NoError(t, err)
	assert.Contains(t, out, "2/3 images written")

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.png", "b.png"}, names)

	_, err = run(t, "batch", dir, "--out", zipPath, "--mode", "shred")
	assert.Error(t, err)
}

func TestBadTargetFormatOnlyBreaksEncodingCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "red.png")
	writePNG(t, src, 4, 4)
	t.Setenv("IMGSHIFT_TARGET_FORMAT", "tiff")

	out, err := run(t, "sniff", src)
	require.NoError(t, err)
	assert.Equal(t, "png\timage/png\n", out)

	_, err = run(t, "dims", src)
	require.NoError(t, err)

	_, err = run(t, "convert", src, filepath.Join(dir, "out"))
	assert.EqualError(t, err, "unsupported target format: tiff")
}
