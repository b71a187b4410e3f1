//go:build integration

package integration

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetkit/assetkit/pkg/assetkit"
	s3storage "github.com/assetkit/assetkit/pkg/assetkit/storage/s3"
)

// TestIntegration_S3Backend exercises the S3 backend against a MinIO
// server. Start one with Docker:
//
//	docker run -p 9000:9000 minio/minio server /data
func TestIntegration_S3Backend(t *testing.T) {
	if os.Getenv("MINIO_INTEGRATION_TEST") == "" {
		t.Skip("Skipping MinIO integration test. Set MINIO_INTEGRATION_TEST=1 to run.")
	}

	backend, err := s3storage.New(s3storage.Config{
		Region:                 getenv("S3_REGION", "us-east-1"),
		Bucket:                 "asset-test-" + time.Now().Format("20060102150405"),
		AccessKeyID:            getenv("S3_ACCESS_KEY_ID", "minioadmin"),
		SecretAccessKey:        getenv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		Endpoint:               getenv("S3_ENDPOINT", "http://localhost:9000"),
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	key := "reports_1700000000_Ab3dEf9h.txt"
	content := "hello from the asset store"

	t.Run("absent key maps to not found", func(t *testing.T) {
		exists, err := backend.Exists(ctx, "no-such-key.txt")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = backend.Download(ctx, "no-such-key.txt")
		assert.ErrorIs(t, err, assetkit.ErrBlobNotFound)
		var storageErr *assetkit.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "s3", storageErr.Backend)

		assert.ErrorIs(t, backend.Delete(ctx, "no-such-key.txt"), assetkit.ErrBlobNotFound)
	})

	t.Run("upload download roundtrip", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, key, strings.NewReader(content)))

		exists, err := backend.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		reader, err := backend.Download(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("delete removes the object", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, key))

		exists, err := backend.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, backend.Delete(ctx, key), assetkit.ErrBlobNotFound)
	})
}
