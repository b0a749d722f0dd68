package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/id"
	"github.com/secretmenu/secretmenu-server/internal/logger"
)

func setupTestProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(setupTestStorage(t), logger.Discard().Logger)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: 120, B: uint8(y * 255 / h), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestProcessor_SavePhoto_JPEG(t *testing.T) {
	p := setupTestProcessor(t)
	data := encodeJPEG(t, testImage(200, 150))

	saved, err := p.SavePhoto(context.Background(), data)
	require.NoError(t, err)

	assert.True(t, id.IsPhotoFilename(saved.Filename))
	assert.NotEmpty(t, saved.BlurHash)
	assert.Len(t, saved.Hash, 64)

	stored, err := p.Storage().Get(saved.Filename)
	require.NoError(t, err)
	assert.Equal(t, data, stored, "JPEG input is stored unchanged")
}

func TestProcessor_SavePhoto_PNGIsReencoded(t *testing.T) {
	p := setupTestProcessor(t)

	saved, err := p.SavePhoto(context.Background(), encodePNG(t, testImage(40, 40)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(saved.Filename, ".jpg"))

	stored, err := p.Storage().Get(saved.Filename)
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessor_SavePhoto_Invalid(t *testing.T) {
	p := setupTestProcessor(t)
	ctx := context.Background()

	_, err := p.SavePhoto(ctx, nil)
	assert.Error(t, err)

	_, err = p.SavePhoto(ctx, []byte("definitely not an image"))
	assert.Error(t, err)

	_, err = p.SavePhoto(ctx, make([]byte, MaxPhotoBytes+1))
	assert.Error(t, err)
}

func TestProcessor_SavePhoto_CanceledContext(t *testing.T) {
	p := setupTestProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.SavePhoto(ctx, encodeJPEG(t, testImage(10, 10)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessor_DeletePhoto(t *testing.T) {
	p := setupTestProcessor(t)
	saved, err := p.SavePhoto(context.Background(), encodeJPEG(t, testImage(10, 10)))
	require.NoError(t, err)

	p.DeletePhoto(saved.Filename)
	assert.False(t, p.Storage().Exists(saved.Filename))

	// Empty and invalid names are ignored.
	p.DeletePhoto("")
	p.DeletePhoto("../nope")
}

func TestComputeBlurHash(t *testing.T) {
	p := setupTestProcessor(t)
	saved, err := p.SavePhoto(context.Background(), encodeJPEG(t, testImage(300, 100)))
	require.NoError(t, err)

	hash, err := ComputeBlurHash(p.Storage().Path(saved.Filename))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestResizeForBlurHash(t *testing.T) {
	small := testImage(32, 16)
	assert.Equal(t, small, resizeForBlurHash(small))

	wide := resizeForBlurHash(testImage(640, 160))
	assert.Equal(t, 64, wide.Bounds().Dx())
	assert.Equal(t, 16, wide.Bounds().Dy())
}
