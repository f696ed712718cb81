package elastic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-readpath/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestBuildSearchQuery_FreeTextUsesWeightedMultiMatch(t *testing.T) {
	req := &domain.SearchRequest{
		Filters: domain.SearchFilters{Query: "wireles mouse"},
		Sort:    domain.DefaultSort(),
		Page:    1,
		PerPage: 20,
	}

	q := buildSearchQuery(req)

	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "wireles mouse", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.Equal(t, []string{"name^4", "description^2", "category_name", "sku"}, mm["fields"])
}

func TestBuildSearchQuery_EmptyQueryUsesMatchAll(t *testing.T) {
	req := &domain.SearchRequest{Sort: domain.DefaultSort(), Page: 1, PerPage: 20}

	q := buildSearchQuery(req)

	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0].(map[string]interface{}), "match_all")
}

func TestBuildSearchQuery_Pagination(t *testing.T) {
	req := &domain.SearchRequest{Sort: domain.DefaultSort(), Page: 3, PerPage: 25}

	q := buildSearchQuery(req)

	assert.Equal(t, 50, q["from"])
	assert.Equal(t, 25, q["size"])
}

func TestBuildSearchQuery_AggregationsOnlyWhenRequested(t *testing.T) {
	req := &domain.SearchRequest{Sort: domain.DefaultSort(), Page: 1, PerPage: 20}

	q := buildSearchQuery(req)
	assert.NotContains(t, q, "aggs")

	req.IncludeFacets = true
	q = buildSearchQuery(req)
	require.Contains(t, q, "aggs")

	aggs := q["aggs"].(map[string]interface{})
	assert.Contains(t, aggs, "categories")
	assert.Contains(t, aggs, "price_ranges")

	ranges := aggs["price_ranges"].(map[string]interface{})["range"].(map[string]interface{})["ranges"].([]interface{})
	assert.Len(t, ranges, 5)

	// Top band is open-ended.
	top := ranges[4].(map[string]interface{})
	assert.Equal(t, 250.0, top["from"])
	assert.NotContains(t, top, "to")
}

func TestBuildFilters_AlwaysConstrainsToActive(t *testing.T) {
	filters := buildFilters(&domain.SearchFilters{})

	require.Len(t, filters, 1)
	term := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, true, term["active"])
}

func TestBuildFilters_Category(t *testing.T) {
	filters := buildFilters(&domain.SearchFilters{CategoryID: strPtr("cat-1")})

	require.Len(t, filters, 2)
	term := filters[1].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "cat-1", term["category_id"])
}

func TestBuildFilters_PriceRangeOnlyPresentBounds(t *testing.T) {
	tests := []struct {
		name    string
		filters domain.SearchFilters
		wantGte interface{}
		wantLte interface{}
	}{
		{"both bounds", domain.SearchFilters{MinPrice: floatPtr(10), MaxPrice: floatPtr(50)}, 10.0, 50.0},
		{"min only", domain.SearchFilters{MinPrice: floatPtr(10)}, 10.0, nil},
		{"max only", domain.SearchFilters{MaxPrice: floatPtr(50)}, nil, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := buildFilters(&tt.filters)
			require.Len(t, filters, 2)

			rangeFilter := filters[1].(map[string]interface{})["range"].(map[string]interface{})["price"].(map[string]interface{})
			if tt.wantGte != nil {
				assert.Equal(t, tt.wantGte, rangeFilter["gte"])
			} else {
				assert.NotContains(t, rangeFilter, "gte")
			}
			if tt.wantLte != nil {
				assert.Equal(t, tt.wantLte, rangeFilter["lte"])
			} else {
				assert.NotContains(t, rangeFilter, "lte")
			}
		})
	}
}

func TestBuildFilters_InStock(t *testing.T) {
	filters := buildFilters(&domain.SearchFilters{InStock: true})

	require.Len(t, filters, 2)
	rangeFilter := filters[1].(map[string]interface{})["range"].(map[string]interface{})["stock"].(map[string]interface{})
	assert.Equal(t, 0, rangeFilter["gt"])

	// Absent or false imposes no constraint.
	filters = buildFilters(&domain.SearchFilters{InStock: false})
	assert.Len(t, filters, 1)
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name      string
		sort      domain.SearchSort
		wantField string
		wantDir   interface{}
	}{
		{"name maps to keyword variant", domain.SearchSort{Field: domain.SortName, Direction: domain.SortAsc}, "name.keyword", "asc"},
		{"price used directly", domain.SearchSort{Field: domain.SortPrice, Direction: domain.SortDesc}, "price", "desc"},
		{"created_at used directly", domain.DefaultSort(), "created_at", "desc"},
		{"popularity used directly", domain.SearchSort{Field: domain.SortPopularity, Direction: domain.SortDesc}, "popularity", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses := buildSort(tt.sort)
			require.Len(t, clauses, 2)

			primary := clauses[0].(map[string]interface{})
			assert.Equal(t, tt.wantDir, primary[tt.wantField])

			// Relevance score is always the secondary tie-break.
			secondary := clauses[1].(map[string]interface{})
			assert.Equal(t, "desc", secondary["_score"])
		})
	}
}
