// Package memory provides an in-memory blob store backend, primarily for
// tests and development servers.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/assetkit/assetkit/pkg/assetkit"
)

// Backend is an in-memory implementation of the assetkit.BlobStore interface
type Backend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		blobs: make(map[string][]byte),
	}
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.blobs[key]
	return exists, nil
}

func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &assetkit.StorageError{Backend: "memory", Key: key, Op: "upload", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	return nil
}

func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, &assetkit.StorageError{Backend: "memory", Key: key, Op: "download", Err: assetkit.ErrBlobNotFound}
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.blobs[key]; !exists {
		return &assetkit.StorageError{Backend: "memory", Key: key, Op: "delete", Err: assetkit.ErrBlobNotFound}
	}

	delete(b.blobs, key)
	return nil
}
