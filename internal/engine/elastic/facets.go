package elastic

import (
	"encoding/json"
	"fmt"

	"github.com/utafrali/catalog-readpath/internal/domain"
)

// esAggregations is the structure used to decode the aggregation section of
// an Elasticsearch search response.
type esAggregations struct {
	Categories struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int    `json:"doc_count"`
		} `json:"buckets"`
	} `json:"categories"`
	PriceRanges struct {
		Buckets []struct {
			From     *float64 `json:"from"`
			To       *float64 `json:"to"`
			DocCount int      `json:"doc_count"`
		} `json:"buckets"`
	} `json:"price_ranges"`
}

// parseFacets decodes the aggregation payload into a FacetSummary. The engine
// only carries the raw bucket key, so category facets use it for both ID and
// display name.
func parseFacets(raw json.RawMessage) (*domain.FacetSummary, error) {
	if len(raw) == 0 {
		return &domain.FacetSummary{
			Categories:  []domain.CategoryFacet{},
			PriceRanges: []domain.PriceRangeFacet{},
		}, nil
	}

	var aggs esAggregations
	if err := json.Unmarshal(raw, &aggs); err != nil {
		return nil, fmt.Errorf("decode aggregations: %w", err)
	}

	summary := &domain.FacetSummary{
		Categories:  make([]domain.CategoryFacet, 0, len(aggs.Categories.Buckets)),
		PriceRanges: make([]domain.PriceRangeFacet, 0, len(aggs.PriceRanges.Buckets)),
	}

	for _, b := range aggs.Categories.Buckets {
		summary.Categories = append(summary.Categories, domain.CategoryFacet{
			ID:    b.Key,
			Name:  b.Key,
			Count: b.DocCount,
		})
	}

	for _, b := range aggs.PriceRanges.Buckets {
		from := 0.0
		if b.From != nil {
			from = *b.From
		}
		summary.PriceRanges = append(summary.PriceRanges, domain.PriceRangeFacet{
			From:  from,
			To:    b.To,
			Count: b.DocCount,
		})
	}

	return summary, nil
}
