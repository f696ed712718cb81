package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog-readpath/internal/domain"
	"github.com/utafrali/catalog-readpath/internal/search"
	apperrors "github.com/utafrali/catalog-readpath/pkg/errors"
	"github.com/utafrali/catalog-readpath/pkg/httputil"
	"github.com/utafrali/catalog-readpath/pkg/validator"
)

// reindexTimeout bounds a full background rebuild.
const reindexTimeout = 10 * time.Minute

// SearchHandler serves the search read path and its index write hooks.
type SearchHandler struct {
	service *search.Service
	logger  *slog.Logger
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(service *search.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// Search handles GET /api/v1/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Suggest handles GET /api/v1/search/suggest.
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter 'q' is required"), h.logger)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("parameter 'size' must be an integer"), h.logger)
			return
		}
		size = parsed
	}

	suggestions, err := h.service.Suggest(r.Context(), prefix, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"suggestions": suggestions},
	})
}

type indexEntryRequest struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price" validate:"gte=0"`
	Currency     string  `json:"currency"`
	Stock        int     `json:"stock" validate:"gte=0"`
	Popularity   int     `json:"popularity"`
	Active       bool    `json:"active"`
}

func (req *indexEntryRequest) toEntry() domain.CatalogEntry {
	now := time.Now().UTC()
	return domain.CatalogEntry{
		ID:           req.ID,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		SKU:          req.SKU,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Price:        req.Price,
		Currency:     req.Currency,
		Stock:        req.Stock,
		Popularity:   req.Popularity,
		Active:       req.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Index handles POST /api/v1/search/index. The write is acknowledged once
// accepted; index failures are absorbed downstream.
func (h *SearchHandler) Index(w http.ResponseWriter, r *http.Request) {
	var req indexEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	entry := req.toEntry()
	h.service.IndexEntry(r.Context(), &entry)

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]string{"id": entry.ID, "status": "accepted"},
	})
}

type bulkIndexRequest struct {
	Entries []indexEntryRequest `json:"entries" validate:"required,min=1,max=1000,dive"`
}

// BulkIndex handles POST /api/v1/search/bulk.
func (h *SearchHandler) BulkIndex(w http.ResponseWriter, r *http.Request) {
	var req bulkIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	if err := validator.Validate(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	entries := make([]domain.CatalogEntry, 0, len(req.Entries))
	for i := range req.Entries {
		entries = append(entries, req.Entries[i].toEntry())
	}
	h.service.BulkIndexEntries(r.Context(), entries)

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]any{"count": len(entries), "status": "accepted"},
	})
}

// Remove handles DELETE /api/v1/search/{id}.
func (h *SearchHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("entry id is required"), h.logger)
		return
	}

	h.service.RemoveEntry(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Reindex handles POST /api/v1/search/reindex. The rebuild runs in the
// background; the request context would be gone long before it finishes.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	if h.service.Mode() != search.ModeEngine {
		httputil.WriteError(w, r, apperrors.Unavailable("search engine unavailable, cannot rebuild index"), h.logger)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
		defer cancel()

		count, err := h.service.ReindexAll(ctx)
		if err != nil {
			h.logger.Error("background reindex failed", "indexed", count, "error", err)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]string{"status": "accepted"},
	})
}

// parseSearchRequest maps query parameters onto a search request. Range
// bounds are only bound when present; an inverted range is passed through and
// simply matches nothing.
func parseSearchRequest(r *http.Request) (*domain.SearchRequest, error) {
	q := r.URL.Query()

	req := &domain.SearchRequest{
		Filters: domain.SearchFilters{Query: q.Get("q")},
		Sort: domain.SearchSort{
			Field:     q.Get("sort"),
			Direction: q.Get("dir"),
		},
		IncludeFacets: q.Get("facets") == "true",
	}

	if category := q.Get("category"); category != "" {
		req.Filters.CategoryID = &category
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperrors.InvalidInput("parameter 'min_price' must be a non-negative number")
		}
		req.Filters.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperrors.InvalidInput("parameter 'max_price' must be a non-negative number")
		}
		req.Filters.MaxPrice = &v
	}

	if raw := q.Get("in_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperrors.InvalidInput("parameter 'in_stock' must be a boolean")
		}
		req.Filters.InStock = v
	}

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.InvalidInput("parameter 'page' must be an integer")
		}
		req.Page = v
	}
	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.InvalidInput("parameter 'per_page' must be an integer")
		}
		req.PerPage = v
	}

	return req, nil
}
