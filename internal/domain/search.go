package domain

import (
	"time"
)

// CatalogEntry represents a catalog document as seen by the read path: the
// shape stored in the search index and returned by search results. The
// relational store remains the system of record.
type CatalogEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	SKU          string    `json:"sku"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Stock        int       `json:"stock"`
	Popularity   int       `json:"popularity"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sortable fields for search results.
const (
	SortName       = "name"
	SortPrice      = "price"
	SortCreatedAt  = "created_at"
	SortPopularity = "popularity"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchSort holds the requested result ordering.
type SearchSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// DefaultSort is the documented fallback ordering applied when the requested
// field is not recognized.
func DefaultSort() SearchSort {
	return SearchSort{Field: SortCreatedAt, Direction: SortDesc}
}

// Normalize maps an unrecognized sort field or direction to the default
// rather than erroring.
func (s SearchSort) Normalize() SearchSort {
	switch s.Field {
	case SortName, SortPrice, SortCreatedAt, SortPopularity:
	default:
		return DefaultSort()
	}
	if s.Direction != SortAsc && s.Direction != SortDesc {
		s.Direction = SortDesc
	}
	return s
}

// SearchFilters holds the optional constraints of a search request.
// An inverted price range (min > max) is treated as empty-result-producing,
// not as an error.
type SearchFilters struct {
	Query      string   `json:"query"`
	CategoryID *string  `json:"category_id,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	InStock    bool     `json:"in_stock"`
}

// Pagination defaults and bounds.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// SearchRequest is a fully-specified search call.
type SearchRequest struct {
	Filters       SearchFilters `json:"filters"`
	Sort          SearchSort    `json:"sort"`
	Page          int           `json:"page"`
	PerPage       int           `json:"per_page"`
	IncludeFacets bool          `json:"include_facets"`
}

// Normalize clamps pagination and sort to valid values.
func (r *SearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	r.Sort = r.Sort.Normalize()
}

// CategoryFacet is a per-category match count. The search engine only carries
// the bucket key, so ID and Name hold the same raw value.
type CategoryFacet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PriceRangeFacet is a match count for one fixed price band. To is nil for
// the open-ended top band.
type PriceRangeFacet struct {
	From  float64  `json:"from"`
	To    *float64 `json:"to,omitempty"`
	Count int      `json:"count"`
}

// FacetSummary carries the aggregation breakdown of a search response.
// Only populated in engine mode when facets were requested.
type FacetSummary struct {
	Categories  []CategoryFacet   `json:"categories"`
	PriceRanges []PriceRangeFacet `json:"price_ranges"`
}

// PriceBand is one fixed aggregation band.
type PriceBand struct {
	From float64
	To   *float64
}

// PriceBands returns the fixed price-range breakpoints used for faceting:
// 0-25, 25-50, 50-100, 100-250, 250+.
func PriceBands() []PriceBand {
	f := func(v float64) *float64 { return &v }
	return []PriceBand{
		{From: 0, To: f(25)},
		{From: 25, To: f(50)},
		{From: 50, To: f(100)},
		{From: 100, To: f(250)},
		{From: 250, To: nil},
	}
}

// SearchResult holds the paginated search response. Suggestions and Facets
// are omitted when not requested or not available.
type SearchResult struct {
	Entries     []CatalogEntry `json:"entries"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
	TotalPages  int            `json:"total_pages"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Facets      *FacetSummary  `json:"facets,omitempty"`
}

// NewSearchResult constructs a result, deriving TotalPages as
// ceil(total/perPage).
func NewSearchResult(entries []CatalogEntry, total, page, perPage int) *SearchResult {
	if entries == nil {
		entries = []CatalogEntry{}
	}
	totalPages := 0
	if perPage > 0 {
		totalPages = total / perPage
		if total%perPage > 0 {
			totalPages++
		}
	}
	return &SearchResult{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
