package assetkit

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for content-bytes storage backends.
// Implementations must make each operation atomic from the caller's point
// of view: a failed Upload leaves no partial bytes observable.
type BlobStore interface {
	// Exists reports whether a blob is stored under the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Upload stores the reader's bytes under the given key, overwriting
	// any existing blob
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns the blob's bytes. Returns an error wrapping
	// ErrBlobNotFound when the key is absent.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Returns an error wrapping ErrBlobNotFound
	// when the key is absent.
	Delete(ctx context.Context, key string) error
}

// Repository defines the interface for asset metadata persistence.
type Repository interface {
	// Create persists a new asset record. CreatedAt/UpdatedAt are stamped
	// if the caller left them zero.
	Create(ctx context.Context, asset *Asset) error

	// Get returns the asset with the given id, or an error wrapping
	// ErrAssetNotFound
	Get(ctx context.Context, id uuid.UUID) (*Asset, error)

	// Delete removes the asset record, or returns an error wrapping
	// ErrAssetNotFound
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of assets matching the query plus the total
	// number of matching records before pagination
	List(ctx context.Context, query ListQuery) ([]*Asset, int, error)

	// Random returns a uniformly random asset, or an error wrapping
	// ErrAssetNotFound when the repository is empty
	Random(ctx context.Context) (*Asset, error)
}
