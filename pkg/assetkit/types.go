package assetkit

import (
	"time"

	"github.com/google/uuid"
)

// Asset represents one uploaded file's metadata record. The blob itself
// lives in a BlobStore under Asset.Path.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SortField is the vocabulary of sortable asset columns.
type SortField string

const (
	SortByName      SortField = "name"
	SortBySize      SortField = "size"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// IsValid returns true if the sort field is part of the supported vocabulary.
func (f SortField) IsValid() bool {
	switch f {
	case SortByName, SortBySize, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

// DefaultPerPage is the page size used when a list query does not specify one.
const DefaultPerPage = 15
