package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog-readpath/internal/domain"
	"github.com/utafrali/catalog-readpath/pkg/database"
)

// Engine is the relational fallback search backend. It serves the degraded
// search path directly from the system of record and doubles as the entry
// source for full reindexing.
type Engine struct {
	pool   database.DBTX
	logger *slog.Logger
}

// New creates a new PostgreSQL-backed fallback engine.
func New(pool database.DBTX, logger *slog.Logger) *Engine {
	return &Engine{
		pool:   pool,
		logger: logger,
	}
}

// Ping checks database connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Search executes the search request against the relational store.
func (e *Engine) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	query, args := buildSearchSQL(req)

	entries, total, err := e.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}

	return domain.NewSearchResult(entries, total, req.Page, req.PerPage), nil
}

// Suggest returns up to size active entry names starting with the given
// prefix.
func (e *Engine) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	rows, err := e.pool.Query(ctx, buildSuggestSQL(), prefix+"%", size)
	if err != nil {
		return nil, fmt.Errorf("fallback suggest: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, size)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("fallback suggest: scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fallback suggest: iterate rows: %w", err)
	}

	return names, nil
}

// ListActive returns one page of active entries with the total active count.
func (e *Engine) ListActive(ctx context.Context, page, perPage int) ([]domain.CatalogEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = domain.DefaultPerPage
	}

	entries, total, err := e.queryEntries(ctx, buildListActiveSQL(), perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list active entries: %w", err)
	}

	return entries, total, nil
}

// queryEntries runs an entry query carrying a trailing count(*) OVER() column
// and scans the result set.
func (e *Engine) queryEntries(ctx context.Context, query string, args ...any) ([]domain.CatalogEntry, int, error) {
	rows, err := e.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var (
		entries    []domain.CatalogEntry
		totalCount int
	)

	for rows.Next() {
		var entry domain.CatalogEntry
		if err := scanEntry(rows, &entry, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entry rows: %w", err)
	}

	if entries == nil {
		entries = []domain.CatalogEntry{}
	}

	return entries, totalCount, nil
}

func scanEntry(row pgx.Row, entry *domain.CatalogEntry, totalCount *int) error {
	return row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Slug,
		&entry.Description,
		&entry.SKU,
		&entry.CategoryID,
		&entry.CategoryName,
		&entry.Price,
		&entry.Currency,
		&entry.Stock,
		&entry.Popularity,
		&entry.Active,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		totalCount,
	)
}
