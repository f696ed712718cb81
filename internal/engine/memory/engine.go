package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/utafrali/catalog-readpath/internal/domain"
)

// Engine is an in-memory search backend used for development and tests. It
// mirrors the engine-mode contract (facets, suggestions, index maintenance)
// with simple substring matching in place of fuzzy relevance.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu      sync.RWMutex
	entries map[string]domain.CatalogEntry
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		entries: make(map[string]domain.CatalogEntry),
	}
}

// Ping always succeeds; the in-memory engine has no remote dependency.
func (e *Engine) Ping(_ context.Context) error {
	return nil
}

// Index adds or updates a single entry.
func (e *Engine) Index(_ context.Context, entry *domain.CatalogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.entries[entry.ID] = *entry
	return nil
}

// Remove deletes an entry by its ID.
func (e *Engine) Remove(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.entries, id)
	return nil
}

// BulkIndex adds or updates multiple entries.
func (e *Engine) BulkIndex(_ context.Context, entries []domain.CatalogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range entries {
		e.entries[entries[i].ID] = entries[i]
	}
	return nil
}

// Search executes a search request against the in-memory index.
func (e *Engine) Search(_ context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(req.Filters.Query)

	matched := make([]domain.CatalogEntry, 0)
	for _, entry := range e.entries {
		if matches(entry, &req.Filters, queryLower) {
			matched = append(matched, entry)
		}
	}

	sortEntries(matched, req.Sort)

	total := len(matched)

	offset := (req.Page - 1) * req.PerPage
	if offset > total {
		offset = total
	}
	end := offset + req.PerPage
	if end > total {
		end = total
	}

	result := domain.NewSearchResult(matched[offset:end], total, req.Page, req.PerPage)

	if req.IncludeFacets {
		result.Facets = buildFacets(matched)
	}

	return result, nil
}

// Suggest returns up to size active entry names starting with the prefix,
// in name order.
func (e *Engine) Suggest(_ context.Context, prefix string, size int) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	prefixLower := strings.ToLower(prefix)

	seen := make(map[string]struct{})
	names := make([]string, 0, size)
	for _, entry := range e.entries {
		if !entry.Active {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(entry.Name), prefixLower) {
			continue
		}
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}

	sort.Strings(names)
	if len(names) > size {
		names = names[:size]
	}

	return names, nil
}

// matches checks whether an entry satisfies the request filters. Inactive
// entries never match.
func matches(entry domain.CatalogEntry, f *domain.SearchFilters, queryLower string) bool {
	if !entry.Active {
		return false
	}

	if queryLower != "" {
		nameLower := strings.ToLower(entry.Name)
		descLower := strings.ToLower(entry.Description)
		if !strings.Contains(nameLower, queryLower) && !strings.Contains(descLower, queryLower) {
			return false
		}
	}

	if f.CategoryID != nil && entry.CategoryID != *f.CategoryID {
		return false
	}

	if f.MinPrice != nil && entry.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && entry.Price > *f.MaxPrice {
		return false
	}

	if f.InStock && entry.Stock <= 0 {
		return false
	}

	return true
}

// sortEntries orders the matched entries, breaking ties on ID so a fixed
// dataset always produces the same ordering.
func sortEntries(entries []domain.CatalogEntry, s domain.SearchSort) {
	asc := s.Direction == domain.SortAsc

	less := func(i, j int) bool {
		var cmp int
		switch s.Field {
		case domain.SortName:
			cmp = strings.Compare(entries[i].Name, entries[j].Name)
		case domain.SortPrice:
			switch {
			case entries[i].Price < entries[j].Price:
				cmp = -1
			case entries[i].Price > entries[j].Price:
				cmp = 1
			}
		case domain.SortPopularity:
			cmp = entries[i].Popularity - entries[j].Popularity
		default:
			cmp = entries[i].CreatedAt.Compare(entries[j].CreatedAt)
		}

		if cmp == 0 {
			return entries[i].ID < entries[j].ID
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	}

	sort.SliceStable(entries, less)
}

// buildFacets computes category and fixed price-band counts over the full
// match set (not just the returned page).
func buildFacets(matched []domain.CatalogEntry) *domain.FacetSummary {
	categoryCounts := make(map[string]int)
	for _, entry := range matched {
		if entry.CategoryID != "" {
			categoryCounts[entry.CategoryID]++
		}
	}

	categoryIDs := make([]string, 0, len(categoryCounts))
	for id := range categoryCounts {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Strings(categoryIDs)

	summary := &domain.FacetSummary{
		Categories:  make([]domain.CategoryFacet, 0, len(categoryIDs)),
		PriceRanges: make([]domain.PriceRangeFacet, 0, 5),
	}

	for _, id := range categoryIDs {
		summary.Categories = append(summary.Categories, domain.CategoryFacet{
			ID:    id,
			Name:  id,
			Count: categoryCounts[id],
		})
	}

	for _, band := range domain.PriceBands() {
		count := 0
		for _, entry := range matched {
			if entry.Price < band.From {
				continue
			}
			if band.To != nil && entry.Price >= *band.To {
				continue
			}
			count++
		}
		summary.PriceRanges = append(summary.PriceRanges, domain.PriceRangeFacet{
			From:  band.From,
			To:    band.To,
			Count: count,
		})
	}

	return summary
}
