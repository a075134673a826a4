package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftfolio/server/internal/config"
	"github.com/craftfolio/server/internal/repositories"
)

func testMediaStore() *repositories.MediaStore {
	return repositories.NewMediaStore(config.StorageConfig{
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Region:          "auto",
		AccountID:       "acc123",
		BucketName:      "media-test",
	})
}

func TestIsObjectKey(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"media/abc/photo.png", true},
		{"photo.png", true},
		{"https://cdn.example.com/photo.png", false},
		{"http://cdn.example.com/photo.png", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, repositories.IsObjectKey(tc.ref), tc.ref)
	}
}

func TestResolveURLPassesThroughAbsoluteURLs(t *testing.T) {
	store := testMediaStore()

	url, err := store.ResolveURL(context.Background(), "https://cdn.example.com/photo.png")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/photo.png", url)
}

func TestResolveURLPresignsObjectKeys(t *testing.T) {
	store := testMediaStore()

	// Presigning only signs the request locally, so no bucket is contacted.
	url, err := store.ResolveURL(context.Background(), "media/abc/photo.png")
	require.NoError(t, err)
	require.Contains(t, url, "acc123.r2.cloudflarestorage.com")
	require.Contains(t, url, "media-test")
	require.Contains(t, url, "media/abc/photo.png")
	require.Contains(t, url, "X-Amz-Signature")
}

func TestPresignGetURLHonorsExpiry(t *testing.T) {
	store := testMediaStore()

	url, err := store.PresignGetURL(context.Background(), "media/abc/photo.png", 15*time.Minute)
	require.NoError(t, err)
	require.Contains(t, url, "X-Amz-Expires=900")
}
