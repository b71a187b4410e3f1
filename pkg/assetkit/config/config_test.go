package config_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetkit/assetkit/pkg/assetkit/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Empty(t, cfg.DB.Host)
}

func TestBuildBlobStore(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	t.Run("memory", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		store, err := cfg.BuildBlobStore()
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("fs", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "fs")
		t.Setenv("STORAGE_FS_BASE_DIR", t.TempDir())

		cfg, err := config.Load()
		require.NoError(t, err)

		store, err := cfg.BuildBlobStore()
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "tape")

		cfg, err := config.Load()
		require.NoError(t, err)

		_, err = cfg.BuildBlobStore()
		assert.Error(t, err)
	})
}

func TestBuildService_MemoryStack(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background(), slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
