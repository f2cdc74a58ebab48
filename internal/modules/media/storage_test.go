package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghamazing/quest-core/internal/config"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "2026/03/abc_photo.jpg", strings.NewReader("payload"), "image/jpeg")
	require.NoError(t, err)

	rc, err := store.Open(ctx, "2026/03/abc_photo.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, "2026/03/abc_photo.jpg"))
	_, err = store.Open(ctx, "2026/03/abc_photo.jpg")
	assert.Error(t, err)
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "never/stored.bin"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "/etc/passwd", "a/../../b", "."} {
		err := store.Put(ctx, key, strings.NewReader("x"), "")
		assert.Error(t, err, "key %q must be rejected", key)
	}
}

func TestLocalStoreURL(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/media/2026/03/x.png", store.URL("2026/03/x.png"))
}

func TestNewBlobStoreUnknownBackend(t *testing.T) {
	_, err := NewBlobStore(config.MediaConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNewBlobStoreS3RequiresCredentials(t *testing.T) {
	_, err := NewBlobStore(config.MediaConfig{Backend: "s3"})
	assert.Error(t, err)
}
