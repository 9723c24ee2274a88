package Storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestInlineStoreDataURI(t *testing.T) {
	store := &InlineStore{}
	data := jpegBytes(t, 10, 10)

	url, err := store.Save(context.Background(), data, "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	_, err = imaging.Decode(bytes.NewReader(raw))
	assert.NoError(t, err, "embedded reference must decode back to image bytes")
}

func TestInlineStoreEmptyData(t *testing.T) {
	store := &InlineStore{}
	_, err := store.Save(context.Background(), nil, "image/jpeg")
	var uErr *UploadError
	assert.ErrorAs(t, err, &uErr)
}

func TestDiskStoreSaveAndResolve(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/static/photos/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), jpegBytes(t, 10, 10), "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/static/photos/"), "got %s", url)

	// Reference must resolve to retrievable image bytes
	name := strings.TrimPrefix(url, "/static/photos/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	_, err = imaging.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestDiskStoreDownscalesLargePhotos(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/static/photos")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), jpegBytes(t, maxPhotoWidth*2, 100), "image/jpeg")
	require.NoError(t, err)

	name := strings.TrimPrefix(url, "/static/photos/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), maxPhotoWidth)
}

func TestObjectNamesDoNotCollide(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := objectName("image/jpeg")
		assert.False(t, seen[name], "duplicate object name %s", name)
		seen[name] = true
	}
}

func TestObjectNameExtension(t *testing.T) {
	assert.True(t, strings.HasSuffix(objectName("image/png"), ".png"))
	assert.True(t, strings.HasSuffix(objectName("image/jpeg"), ".jpg"))
	assert.True(t, strings.HasSuffix(objectName(""), ".jpg"))
}

func TestReencodePassesThroughNonImageBytes(t *testing.T) {
	data := []byte("not an image")
	assert.Equal(t, data, reencode(data, "image/jpeg"))
}

func TestNewFromEnvDefaultsToInline(t *testing.T) {
	t.Setenv("PHOTO_STORAGE", "")
	store, err := NewFromEnv(context.Background())
	require.NoError(t, err)
	_, ok := store.(*InlineStore)
	assert.True(t, ok)
}

func TestNewFromEnvDisk(t *testing.T) {
	t.Setenv("PHOTO_STORAGE", "disk")
	t.Setenv("PHOTO_DIR", filepath.Join(t.TempDir(), "photos"))
	store, err := NewFromEnv(context.Background())
	require.NoError(t, err)
	_, ok := store.(*DiskStore)
	assert.True(t, ok)
}
