package imageprocessor_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"jobboard_backend/internal/imageprocessor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_KeepsSmallImage(t *testing.T) {
	raw := encodePNG(t, 300, 200)

	res, err := imageprocessor.NewProcessor(85, 1000).Normalize(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.False(t, res.Resized)
	assert.Equal(t, raw, res.Content)
	assert.Equal(t, "png", res.Format)
}

func TestNormalize_ShrinksLargeImage(t *testing.T) {
	raw := encodePNG(t, 1200, 600)

	res, err := imageprocessor.NewProcessor(85, 400).Normalize(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.True(t, res.Resized)
	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 200, res.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Content))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 400, cfg.Width)
}

func TestNormalize_JPEGStaysJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 500))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	res, err := imageprocessor.NewProcessor(0, 50).Normalize(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", res.Format)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 50, res.Height)
}

func TestNormalize_RejectsBrokenImage(t *testing.T) {
	p := imageprocessor.NewProcessor(85, 0)

	_, err := p.Normalize(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nnot really")))
	assert.ErrorIs(t, err, imageprocessor.ErrInvalidImage)

	raw := encodePNG(t, 20, 20)
	_, err = p.Normalize(bytes.NewReader(raw[:len(raw)/2]))
	assert.ErrorIs(t, err, imageprocessor.ErrInvalidImage)
}
