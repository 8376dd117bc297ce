package batch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/nvr-ai/go-imgshift/images"
	"github.com/nvr-ai/go-imgshift/pipeline"
	"github.com/nvr-ai/go-imgshift/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testInputs(t *testing.T) [][]byte {
	return [][]byte{
		solidPNG(t, 8, 8, color.RGBA{R: 255, A: 255}),
		[]byte("not an image"),
		solidPNG(t, 12, 6, color.RGBA{G: 255, A: 255}),
		nil,
		solidPNG(t, 5, 9, color.RGBA{B: 255, A: 255}),
	}
}

func TestConvertAllKeepsIndexAndSiblings(t *testing.T) {
	r := NewRunner(pipeline.New(), WithConcurrency(2))

	results, err := r.ConvertAll(context.Background(), testInputs(t), "jpeg", 80)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
	for _, i := range []int{0, 2, 4} {
		require.True(t, results[i].OK(), "item %d: %v", i, results[i].Err)
		assert.Equal(t, images.FormatJPEG, images.Sniff(results[i].Data))
	}
	for _, i := range []int{1, 3} {
		var de *pipeline.DecodeError
		assert.ErrorAs(t, results[i].Err, &de)
		assert.Nil(t, results[i].Data)
	}
	assert.Len(t, Succeeded(results), 3)

	s, ok := r.Tracker().Stats(string(ModeConvert))
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, int64(2), s.Failures)
	assert.Positive(t, s.BytesOut)
}

func TestEvadeAll(t *testing.T) {
	tr := profiler.NewTracker(0)
	r := NewRunner(pipeline.New(), WithTracker(tr))

	results, err := r.EvadeAll(context.Background(), testInputs(t)[:1], 0.5)
	require.NoError(t, err)
	require.True(t, results[0].OK())
	assert.Equal(t, images.FormatWebP, images.Sniff(results[0].Data))
	assert.Same(t, tr, r.Tracker())
}

func TestRunDispatchesOnMode(t *testing.T) {
	r := NewRunner(pipeline.New())
	in := testInputs(t)[:1]

	tests := []struct {
		mode Mode
		req  Request
		want images.Format
	}{
		{ModeConvert, Request{Target: "png", Quality: 80}, images.FormatPNG},
		{ModeEvade, Request{NoiseIntensity: 1}, images.FormatWebP},
		{ModeProcess, Request{Target: "gif", Quality: 80}, images.FormatGIF},
		{ModeProcess, Request{Target: "png", Evasion: true}, images.FormatWebP},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			results, err := r.Run(context.Background(), tt.mode, in, tt.req)
			require.NoError(t, err)
			require.True(t, results[0].OK(), "%v", results[0].Err)
			assert.Equal(t, tt.want, images.Sniff(results[0].Data))
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(pipeline.New(), WithConcurrency(1))
	results, err := r.ConvertAll(ctx, testInputs(t), "png", 80)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 5)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("evade")
	assert.True(t, ok)
	assert.Equal(t, ModeEvade, m)

	_, ok = ParseMode("shred")
	assert.False(t, ok)
}

func TestWriteArchive(t *testing.T) {
	r := NewRunner(pipeline.New())
	results, err := r.ConvertAll(context.Background(), testInputs(t), "png", 80)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteArchive(&buf, results, []string{"red", "broken"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"red.png", "0002.png", "0004.png"}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, results[0].Data, data)
}

func TestWriteArchiveDisambiguatesNames(t *testing.T) {
	red := solidPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	blue := solidPNG(t, 4, 4, color.RGBA{B: 255, A: 255})
	results := []Result{
		{Index: 0, Data: red},
		{Index: 1, Data: blue},
		{Index: 2, Data: red},
	}

	var buf bytes.Buffer
	n, err := WriteArchive(&buf, results, []string{"cover", "cover", "cover-0001"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"cover.png", "cover-0001.png", "cover-0001-0002.png"}, names)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, blue, data)
}
