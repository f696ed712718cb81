package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchSort_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   SearchSort
		want SearchSort
	}{
		{"valid name asc", SearchSort{Field: SortName, Direction: SortAsc}, SearchSort{Field: SortName, Direction: SortAsc}},
		{"valid popularity desc", SearchSort{Field: SortPopularity, Direction: SortDesc}, SearchSort{Field: SortPopularity, Direction: SortDesc}},
		{"unknown field falls back to default", SearchSort{Field: "rating", Direction: SortAsc}, DefaultSort()},
		{"empty falls back to default", SearchSort{}, DefaultSort()},
		{"bad direction becomes desc", SearchSort{Field: SortPrice, Direction: "sideways"}, SearchSort{Field: SortPrice, Direction: SortDesc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSearchRequest_Normalize(t *testing.T) {
	req := &SearchRequest{Page: -3, PerPage: 0}
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPerPage, req.PerPage)
	assert.Equal(t, DefaultSort(), req.Sort)

	req = &SearchRequest{Page: 2, PerPage: 500}
	req.Normalize()
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, MaxPerPage, req.PerPage)
}

func TestNewSearchResult_TotalPages(t *testing.T) {
	tests := []struct {
		total   int
		perPage int
		want    int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}

	for _, tt := range tests {
		r := NewSearchResult(nil, tt.total, 1, tt.perPage)
		assert.Equal(t, tt.want, r.TotalPages, "total=%d perPage=%d", tt.total, tt.perPage)
		assert.NotNil(t, r.Entries)
	}
}

func TestPriceBands(t *testing.T) {
	bands := PriceBands()
	assert.Len(t, bands, 5)
	assert.Equal(t, 0.0, bands[0].From)
	assert.Nil(t, bands[len(bands)-1].To, "top band is open-ended")

	// Bands are contiguous.
	for i := 1; i < len(bands); i++ {
		assert.Equal(t, *bands[i-1].To, bands[i].From)
	}
}
