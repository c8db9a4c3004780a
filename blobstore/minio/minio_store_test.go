package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/vecwire/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	store := NewStore(nil, "bucket", "imports/")

	assert.Equal(t, "imports/a/1.json", store.key("a/1.json"))
	assert.Equal(t, "imports", store.key(""))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-vecwire"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte(`{"rows":[{"id":1}]}`)
	require.NoError(t, store.Put(ctx, "batch/1.json", data))

	got, err := store.Get(ctx, "batch/1.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "batch/")
	require.NoError(t, err)
	assert.Equal(t, []string{"batch/1.json"}, names)

	require.NoError(t, store.Delete(ctx, "batch/1.json"))

	_, err = store.Get(ctx, "batch/1.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
