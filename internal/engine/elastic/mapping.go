package elastic

// DefaultIndexName is the default Elasticsearch index used for catalog entries.
const DefaultIndexName = "catalog_entries"

// buildIndexMapping returns the full JSON mapping for the catalog index,
// including the edge_ngram analyzer that backs prefix suggestions.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":            { "type": "keyword" },
      "name":          { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "slug":          { "type": "keyword" },
      "description":   { "type": "text" },
      "sku":           { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "category_id":   { "type": "keyword" },
      "category_name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "price":         { "type": "double" },
      "currency":      { "type": "keyword" },
      "stock":         { "type": "integer" },
      "popularity":    { "type": "integer" },
      "active":        { "type": "boolean" },
      "created_at":    { "type": "date" },
      "updated_at":    { "type": "date" }
    }
  }
}`
}
