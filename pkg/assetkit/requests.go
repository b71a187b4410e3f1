package assetkit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// UploadRequest contains parameters for uploading a new asset.
type UploadRequest struct {
	Reader      io.Reader
	FileName    string
	MimeType    string
	Size        int64
	Description string
}

// ListQuery contains filter, sort and pagination criteria for listing
// assets. All filters are optional and AND-combined.
type ListQuery struct {
	// Exact match on mime type
	MimeType string

	// Case-insensitive substring match on name
	Name string

	// Case-insensitive substring match on description
	Description string

	// Date-only equality on created_at: matches the half-open range
	// [CreatedOn 00:00:00, CreatedOn+24h)
	CreatedOn *time.Time

	// Inclusive range on size, given as "min,max". A malformed value is
	// ignored as a no-op filter.
	SizeRange string

	// Inclusive bounds on created_at
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Sort field, optionally prefixed with "-" for descending. Defaults
	// to "-created_at" when empty.
	Sort string

	// Pagination; Page starts at 1, PerPage defaults to DefaultPerPage
	Page    int
	PerPage int
}

// Validate checks the sort field against the supported vocabulary.
func (q ListQuery) Validate() error {
	field, _ := q.SortSpec()
	if !field.IsValid() {
		return fmt.Errorf("unsupported sort field %q", field)
	}
	return nil
}

// SortSpec resolves the sort expression into a field and direction,
// applying the default of created_at descending.
func (q ListQuery) SortSpec() (field SortField, descending bool) {
	s := q.Sort
	if s == "" {
		return SortByCreatedAt, true
	}
	if strings.HasPrefix(s, "-") {
		return SortField(s[1:]), true
	}
	return SortField(s), false
}

// SizeBounds parses the SizeRange expression. ok is false when the filter
// is absent or malformed; a malformed range is a no-op, never an error.
func (q ListQuery) SizeBounds() (min, max int64, ok bool) {
	if q.SizeRange == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(q.SizeRange, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}

// Normalize fills in pagination defaults and returns the effective page
// and page size.
func (q ListQuery) Normalize() (page, perPage int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	perPage = q.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return page, perPage
}

// Matches reports whether the asset passes every filter in the query.
// Shared by repository implementations that filter in process.
func (q ListQuery) Matches(a *Asset) bool {
	if q.MimeType != "" && a.MimeType != q.MimeType {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Description != "" && !strings.Contains(strings.ToLower(a.Description), strings.ToLower(q.Description)) {
		return false
	}
	if q.CreatedOn != nil {
		dayStart := time.Date(q.CreatedOn.Year(), q.CreatedOn.Month(), q.CreatedOn.Day(), 0, 0, 0, 0, q.CreatedOn.Location())
		dayEnd := dayStart.Add(24 * time.Hour)
		created := a.CreatedAt.In(q.CreatedOn.Location())
		if created.Before(dayStart) || !created.Before(dayEnd) {
			return false
		}
	}
	if min, max, ok := q.SizeBounds(); ok {
		if a.Size < min || a.Size > max {
			return false
		}
	}
	if q.CreatedAfter != nil && a.CreatedAt.Before(*q.CreatedAfter) {
		return false
	}
	if q.CreatedBefore != nil && a.CreatedAt.After(*q.CreatedBefore) {
		return false
	}
	return true
}
