package assetkit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrAssetNotFound indicates no asset record exists for the given id
	ErrAssetNotFound = errors.New("asset not found")

	// ErrBlobNotFound indicates a blob store has no object under the given key
	ErrBlobNotFound = errors.New("blob not found")

	// ErrBlobMissing indicates an integrity gap: the asset record exists but
	// its blob is absent from storage. Distinct from ErrAssetNotFound so
	// operators can tell "never existed" apart from "lost its bytes".
	ErrBlobMissing = errors.New("blob missing for existing asset")
)

// AssetError represents an error related to asset lifecycle operations
type AssetError struct {
	AssetID uuid.UUID
	Op      string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for asset %s: %v", e.Op, e.AssetID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents a backend I/O failure in a blob store. Callers
// may retry; the error always carries the backend name and object key.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
