package assetkit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/assetkit/assetkit/pkg/assetkit"
)

func TestListQuery_SortSpec(t *testing.T) {
	tests := []struct {
		name       string
		sort       string
		field      assetkit.SortField
		descending bool
	}{
		{"default is created_at descending", "", assetkit.SortByCreatedAt, true},
		{"ascending name", "name", assetkit.SortByName, false},
		{"descending size", "-size", assetkit.SortBySize, true},
		{"ascending updated_at", "updated_at", assetkit.SortByUpdatedAt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, descending := assetkit.ListQuery{Sort: tt.sort}.SortSpec()
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.descending, descending)
		})
	}
}

func TestListQuery_Validate(t *testing.T) {
	assert.NoError(t, assetkit.ListQuery{}.Validate())
	assert.NoError(t, assetkit.ListQuery{Sort: "-created_at"}.Validate())
	assert.Error(t, assetkit.ListQuery{Sort: "path"}.Validate())
	assert.Error(t, assetkit.ListQuery{Sort: "-mime_type"}.Validate())
}

func TestListQuery_SizeBounds(t *testing.T) {
	tests := []struct {
		name      string
		sizeRange string
		min, max  int64
		ok        bool
	}{
		{"valid range", "100,1000", 100, 1000, true},
		{"spaces tolerated", " 5 , 10 ", 5, 10, true},
		{"absent", "", 0, 0, false},
		{"no comma", "abc", 0, 0, false},
		{"non-numeric min", "a,10", 0, 0, false},
		{"non-numeric max", "10,b", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, ok := assetkit.ListQuery{SizeRange: tt.sizeRange}.SizeBounds()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.min, min)
				assert.Equal(t, tt.max, max)
			}
		})
	}
}

func TestListQuery_Matches_CreatedOn(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	query := assetkit.ListQuery{CreatedOn: &day}

	inDay := &assetkit.Asset{CreatedAt: time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)}
	nextMidnight := &assetkit.Asset{CreatedAt: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)}
	dayBefore := &assetkit.Asset{CreatedAt: time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)}

	assert.True(t, query.Matches(inDay))
	assert.False(t, query.Matches(nextMidnight), "range is half-open")
	assert.False(t, query.Matches(dayBefore))
}

func TestListQuery_Matches_CombinedFilters(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	query := assetkit.ListQuery{
		MimeType:     "text/plain",
		Name:         "report",
		SizeRange:    "100,1000",
		CreatedAfter: &after,
	}

	match := &assetkit.Asset{
		Name:      "Annual REPORT.txt",
		MimeType:  "text/plain",
		Size:      500,
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, query.Matches(match))

	wrongMime := *match
	wrongMime.MimeType = "text/html"
	assert.False(t, query.Matches(&wrongMime))

	tooBig := *match
	tooBig.Size = 1001
	assert.False(t, query.Matches(&tooBig))

	tooOld := *match
	tooOld.CreatedAt = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.False(t, query.Matches(&tooOld))
}

func TestListQuery_Normalize(t *testing.T) {
	page, perPage := assetkit.ListQuery{}.Normalize()
	assert.Equal(t, 1, page)
	assert.Equal(t, assetkit.DefaultPerPage, perPage)

	page, perPage = assetkit.ListQuery{Page: 3, PerPage: 5}.Normalize()
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, perPage)
}
