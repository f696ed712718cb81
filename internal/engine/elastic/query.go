package elastic

import (
	"github.com/utafrali/catalog-readpath/internal/domain"
)

// buildSearchQuery translates a normalized search request into the
// Elasticsearch query DSL.
func buildSearchQuery(req *domain.SearchRequest) map[string]interface{} {
	var mustClause interface{}
	if req.Filters.Query != "" {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":         req.Filters.Query,
				"fields":        []string{"name^4", "description^2", "category_name", "sku"},
				"type":          "best_fields",
				"fuzziness":     "AUTO",
				"prefix_length": 1,
			},
		}
	} else {
		mustClause = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	boolQuery := map[string]interface{}{
		"must":   []interface{}{mustClause},
		"filter": buildFilters(&req.Filters),
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"from":             (req.Page - 1) * req.PerPage,
		"size":             req.PerPage,
		"track_total_hits": true,
		"sort":             buildSort(req.Sort),
	}

	if req.IncludeFacets {
		esQuery["aggs"] = buildAggregations()
	}

	return esQuery
}

// buildFilters constructs the filter clauses. Every query is constrained to
// active entries; the remaining clauses apply only when present.
func buildFilters(f *domain.SearchFilters) []interface{} {
	filters := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{
				"active": true,
			},
		},
	}

	if f.CategoryID != nil {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"category_id": *f.CategoryID,
			},
		})
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		rangeFilter := map[string]interface{}{}
		if f.MinPrice != nil {
			rangeFilter["gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rangeFilter["lte"] = *f.MaxPrice
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"price": rangeFilter,
			},
		})
	}

	if f.InStock {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"stock": map[string]interface{}{"gt": 0},
			},
		})
	}

	return filters
}

// buildSort maps the logical sort field to its engine-native counterpart.
// Name sorts on the non-analyzed keyword variant. Relevance score is always
// appended as a secondary tie-break so equal keys order deterministically.
func buildSort(s domain.SearchSort) []interface{} {
	field := s.Field
	if field == domain.SortName {
		field = "name.keyword"
	}

	return []interface{}{
		map[string]interface{}{field: s.Direction},
		map[string]interface{}{"_score": "desc"},
	}
}

// buildAggregations requests the category and fixed price-band buckets
// alongside the main query in the same round trip.
func buildAggregations() map[string]interface{} {
	ranges := make([]interface{}, 0, 5)
	for _, band := range domain.PriceBands() {
		r := map[string]interface{}{"from": band.From}
		if band.To != nil {
			r["to"] = *band.To
		}
		ranges = append(ranges, r)
	}

	return map[string]interface{}{
		"categories": map[string]interface{}{
			"terms": map[string]interface{}{
				"field": "category_id",
				"size":  50,
			},
		},
		"price_ranges": map[string]interface{}{
			"range": map[string]interface{}{
				"field":  "price",
				"ranges": ranges,
			},
		},
	}
}
