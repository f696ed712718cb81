package search

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/catalog-readpath/internal/domain"
	"github.com/utafrali/catalog-readpath/internal/engine"
	apperrors "github.com/utafrali/catalog-readpath/pkg/errors"
)

// Mode identifies which backend class is serving queries.
type Mode string

const (
	// ModeEngine means the search engine backend answers queries.
	ModeEngine Mode = "engine"
	// ModeFallback means the relational backend answers queries directly.
	ModeFallback Mode = "fallback"
)

// Suggestion sizing.
const (
	DefaultSuggestSize = 5
	MaxSuggestSize     = 20
)

const probeTimeout = 5 * time.Second

// reindexPageSize is how many entries are pulled from the system of record
// per batch during a rebuild.
const reindexPageSize = 500

// EngineBackend is the full contract of the search engine: query answering
// plus index maintenance and reachability.
type EngineBackend interface {
	engine.Backend
	engine.Indexer
	engine.Pinger
}

// Service routes read queries to the search engine, or to the relational
// fallback when the engine was unreachable at startup. The choice is made
// once at construction and holds for the lifetime of the process.
type Service struct {
	primary  EngineBackend
	fallback engine.Backend
	source   engine.EntrySource
	mode     Mode
	logger   *slog.Logger
}

// NewService probes the engine backend once and fixes the serving mode. A
// nil primary, or a failed probe, selects the fallback permanently.
func NewService(ctx context.Context, primary EngineBackend, fallback engine.Backend, source engine.EntrySource, logger *slog.Logger) *Service {
	s := &Service{
		primary:  primary,
		fallback: fallback,
		source:   source,
		mode:     ModeFallback,
		logger:   logger,
	}

	if primary == nil {
		logger.Warn("search engine not configured, serving from relational fallback")
		return s
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := primary.Ping(probeCtx); err != nil {
		logger.Warn("search engine unreachable, serving from relational fallback", "error", err)
		return s
	}

	s.mode = ModeEngine
	logger.Info("search engine reachable, serving in engine mode")
	return s
}

// Mode reports which backend class is serving queries.
func (s *Service) Mode() Mode {
	return s.mode
}

// Search runs a catalog search against the active backend. The request is
// normalized in place; facets are only available in engine mode and are
// silently absent otherwise.
func (s *Service) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	req.Normalize()

	searchRequestsTotal.WithLabelValues(string(s.mode), "search").Inc()

	result, err := s.backend().Search(ctx, req)
	if err != nil {
		s.logger.Error("search query failed", "backend", string(s.mode), "error", err)
		return nil, degraded()
	}
	return result, nil
}

// Suggest returns name completions for a prefix. Size zero or negative takes
// the default; oversized requests are capped.
func (s *Service) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	if size <= 0 {
		size = DefaultSuggestSize
	}
	if size > MaxSuggestSize {
		size = MaxSuggestSize
	}

	searchRequestsTotal.WithLabelValues(string(s.mode), "suggest").Inc()

	suggestions, err := s.backend().Suggest(ctx, prefix, size)
	if err != nil {
		s.logger.Error("suggest query failed", "backend", string(s.mode), "error", err)
		return nil, degraded()
	}
	return suggestions, nil
}

// degraded is the caller-facing error for a failed query execution. The
// underlying cause is logged, not exposed.
func degraded() *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "SEARCH_DEGRADED",
		Message: "search is temporarily degraded, please retry",
		Status:  http.StatusServiceUnavailable,
		Err:     apperrors.ErrServiceUnavail,
	}
}

// IndexEntry upserts an entry into the search index. Failures are absorbed:
// the system of record has already committed, so the caller must not be
// failed over a stale derived view. Errors surface through logs and the
// failure counter instead. No-op in fallback mode.
func (s *Service) IndexEntry(ctx context.Context, entry *domain.CatalogEntry) {
	if s.mode != ModeEngine {
		return
	}
	if err := s.primary.Index(ctx, entry); err != nil {
		indexFailuresTotal.WithLabelValues("index").Inc()
		s.logger.Error("failed to index catalog entry", "entry_id", entry.ID, "error", err)
	}
}

// RemoveEntry deletes an entry from the search index, with the same absorbed
// failure contract as IndexEntry.
func (s *Service) RemoveEntry(ctx context.Context, id string) {
	if s.mode != ModeEngine {
		return
	}
	if err := s.primary.Remove(ctx, id); err != nil {
		indexFailuresTotal.WithLabelValues("remove").Inc()
		s.logger.Error("failed to remove catalog entry from index", "entry_id", id, "error", err)
	}
}

// BulkIndexEntries upserts a batch of entries with the same absorbed failure
// contract as IndexEntry.
func (s *Service) BulkIndexEntries(ctx context.Context, entries []domain.CatalogEntry) {
	if s.mode != ModeEngine || len(entries) == 0 {
		return
	}
	if err := s.primary.BulkIndex(ctx, entries); err != nil {
		indexFailuresTotal.WithLabelValues("bulk").Inc()
		s.logger.Error("failed to bulk index catalog entries", "count", len(entries), "error", err)
	}
}

// ReindexAll rebuilds the search index from the system of record, paging
// through active entries and bulk-indexing each batch. Returns the number of
// entries indexed. Unavailable in fallback mode.
func (s *Service) ReindexAll(ctx context.Context) (int, error) {
	if s.mode != ModeEngine {
		return 0, apperrors.Unavailable("search engine unavailable, cannot rebuild index")
	}

	indexed := 0
	for page := 1; ; page++ {
		entries, total, err := s.source.ListActive(ctx, page, reindexPageSize)
		if err != nil {
			return indexed, apperrors.Wrap(err, "failed to list entries for reindex")
		}
		if len(entries) == 0 {
			break
		}

		if err := s.primary.BulkIndex(ctx, entries); err != nil {
			return indexed, apperrors.Wrap(err, "failed to bulk index entries")
		}
		indexed += len(entries)

		if indexed >= total {
			break
		}
	}

	s.logger.Info("search index rebuilt", "entries", indexed)
	return indexed, nil
}

func (s *Service) backend() engine.Backend {
	if s.mode == ModeEngine {
		return s.primary
	}
	return s.fallback
}
