package engine

import (
	"context"

	"github.com/utafrali/catalog-readpath/internal/domain"
)

// Backend answers search and suggestion queries against one derived view.
// Implementations translate the normalized request into their own query
// language; exactly one backend serves any given call.
type Backend interface {
	// Search executes a search request and returns matching catalog entries.
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error)

	// Suggest returns up to size name completions for the given prefix.
	Suggest(ctx context.Context, prefix string, size int) ([]string, error)
}

// Indexer maintains a derived search index. The relational fallback backend
// has no index to maintain and does not implement it.
type Indexer interface {
	// Index adds or updates a single entry in the search index.
	Index(ctx context.Context, entry *domain.CatalogEntry) error

	// Remove deletes an entry from the search index by its ID.
	Remove(ctx context.Context, id string) error

	// BulkIndex adds or updates multiple entries in the search index.
	BulkIndex(ctx context.Context, entries []domain.CatalogEntry) error
}

// Pinger reports whether a backend's underlying store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EntrySource pages catalog entries out of the system of record. Used to
// rebuild the search index from scratch.
type EntrySource interface {
	// ListActive returns one page of active entries plus the total count.
	ListActive(ctx context.Context, page, perPage int) ([]domain.CatalogEntry, int, error)
}
