// Package fs provides a filesystem blob store backend.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/assetkit/assetkit/pkg/assetkit"
)

// Backend is a filesystem implementation of the assetkit.BlobStore interface
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing blobs
}

// New creates a new filesystem storage backend, creating the base
// directory if it does not exist.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.baseDir, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &assetkit.StorageError{Backend: "fs", Key: key, Op: "exists", Err: err}
	}
	return true, nil
}

// Upload writes to a temp file in the same directory and renames it into
// place so a failed write never leaves partial bytes under the key.
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	filePath := filepath.Join(b.baseDir, key)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}
	return nil
}

func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(b.baseDir, key))
	if os.IsNotExist(err) {
		return nil, &assetkit.StorageError{Backend: "fs", Key: key, Op: "download", Err: assetkit.ErrBlobNotFound}
	}
	if err != nil {
		return nil, &assetkit.StorageError{Backend: "fs", Key: key, Op: "download", Err: err}
	}
	return file, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	filePath := filepath.Join(b.baseDir, key)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "delete", Err: assetkit.ErrBlobNotFound}
	}

	if err := os.Remove(filePath); err != nil {
		return &assetkit.StorageError{Backend: "fs", Key: key, Op: "delete", Err: err}
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
