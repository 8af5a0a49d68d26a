package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
)

func testImageBytes(t *testing.T) []byte {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(testImageBase64)
	require.NoError(t, err)

	return data
}

func TestCompressRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.images.Compress(testImageBytes(t), "text/plain")

	assert.True(t, apperr.IsConflict(err))
}

func TestCompressRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.images.Compress([]byte("not an image"), "image/png")

	assert.True(t, apperr.IsConflict(err))
}

func TestCompressReencodesAsJPEG(t *testing.T) {
	f := newFixture(t)

	out, err := f.images.Compress(testImageBytes(t), "image/png")
	require.NoError(t, err)

	// JPEG SOI marker.
	require.GreaterOrEqual(t, len(out), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])
}

func TestSaveContentImageEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.images.SaveContentImage(nil, "image/png")

	assert.True(t, apperr.IsBadRequest(err))
}

func TestSaveContentImageOversize(t *testing.T) {
	f := newFixture(t)

	big := make([]byte, testImageConfig().MaxBytes+1)

	_, err := f.images.SaveContentImage(big, "image/png")

	assert.True(t, apperr.IsConflict(err))
}

func TestSaveContentImageReturnsURL(t *testing.T) {
	f := newFixture(t)

	url, err := f.images.SaveContentImage(testImageBytes(t), "image/png")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "http://localhost:3000/articles/image/"))

	id := strings.TrimPrefix(url, "http://localhost:3000/articles/image/")

	images, err := f.images.GetContentImages(id)
	require.NoError(t, err)

	assert.Equal(t, testImageBytes(t), images[id].Image)
}

func TestGetContentImagesMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.images.GetContentImages("no-such-image")

	assert.True(t, apperr.IsNotFound(err))
}

func TestGetContentImagesUsesCache(t *testing.T) {
	f := newFixture(t)

	url, err := f.images.SaveContentImage(testImageBytes(t), "image/png")
	require.NoError(t, err)

	id := strings.TrimPrefix(url, "http://localhost:3000/articles/image/")

	_, err = f.images.GetContentImages(id)
	require.NoError(t, err)

	// Remove the row; the cached copy keeps serving.
	require.NoError(t, f.gdb.Delete(&models.ArticleImage{}, "id = ?", id).Error)

	images, err := f.images.GetContentImages(id)
	require.NoError(t, err)
	assert.NotNil(t, images[id])
}

func TestGetContentImagesSkipsCacheWhenDisabled(t *testing.T) {
	f := newFixture(t)

	err := f.settings.Upsert(&models.AppSettings{
		StorageProvider: models.StorageProviderDatabase,
		UseCache:        false,
	})
	require.NoError(t, err)

	url, err := f.images.SaveContentImage(testImageBytes(t), "image/png")
	require.NoError(t, err)

	id := strings.TrimPrefix(url, "http://localhost:3000/articles/image/")

	_, err = f.images.GetContentImages(id)
	require.NoError(t, err)

	require.NoError(t, f.gdb.Delete(&models.ArticleImage{}, "id = ?", id).Error)

	_, err = f.images.GetContentImages(id)
	assert.True(t, apperr.IsNotFound(err))
}
