package assetkit

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the asset lifecycle operations: coordinated create and
// delete across the metadata repository and the blob store, plus the read
// paths.
type Service interface {
	// Upload stores the file bytes in the blob store under a freshly
	// generated key, then creates the metadata record. If record creation
	// fails the already-written blob is removed best-effort.
	Upload(ctx context.Context, req UploadRequest) (*Asset, error)

	// Get returns the asset record for the given id after verifying its
	// blob is present. A record whose bytes were lost surfaces as
	// ErrBlobMissing.
	Get(ctx context.Context, id uuid.UUID) (*Asset, error)

	// List returns one page of assets matching the query plus the total
	// number of matching records
	List(ctx context.Context, query ListQuery) ([]*Asset, int, error)

	// Delete removes the blob first, then the record. When the record
	// exists but its blob is absent the delete fails with ErrBlobMissing
	// and the record is left intact.
	Delete(ctx context.Context, id uuid.UUID) error

	// Download returns the asset record together with its blob bytes.
	// An absent blob surfaces as ErrBlobMissing.
	Download(ctx context.Context, id uuid.UUID) (*Asset, io.ReadCloser, error)

	// Random returns a uniformly random asset whose blob is present
	Random(ctx context.Context) (*Asset, error)
}
