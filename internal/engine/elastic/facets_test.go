package elastic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFacets(t *testing.T) {
	raw := json.RawMessage(`{
		"categories": {
			"buckets": [
				{"key": "cat-electronics", "doc_count": 12},
				{"key": "cat-books", "doc_count": 3}
			]
		},
		"price_ranges": {
			"buckets": [
				{"to": 25.0, "doc_count": 5},
				{"from": 25.0, "to": 50.0, "doc_count": 4},
				{"from": 250.0, "doc_count": 6}
			]
		}
	}`)

	summary, err := parseFacets(raw)
	require.NoError(t, err)

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "cat-electronics", summary.Categories[0].ID)
	// Bucket key doubles as the display name.
	assert.Equal(t, "cat-electronics", summary.Categories[0].Name)
	assert.Equal(t, 12, summary.Categories[0].Count)

	require.Len(t, summary.PriceRanges, 3)
	assert.Equal(t, 0.0, summary.PriceRanges[0].From)
	require.NotNil(t, summary.PriceRanges[0].To)
	assert.Equal(t, 25.0, *summary.PriceRanges[0].To)
	assert.Nil(t, summary.PriceRanges[2].To, "open-ended top band")
	assert.Equal(t, 6, summary.PriceRanges[2].Count)
}

func TestParseFacets_EmptyPayload(t *testing.T) {
	summary, err := parseFacets(nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.PriceRanges)
	assert.NotNil(t, summary.Categories)
	assert.NotNil(t, summary.PriceRanges)
}

func TestParseFacets_MalformedPayloadReturnsError(t *testing.T) {
	_, err := parseFacets(json.RawMessage(`{"categories": "not-an-object"`))
	assert.Error(t, err)
}
