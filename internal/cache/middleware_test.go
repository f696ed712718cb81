package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-readpath/pkg/middleware"
)

// fakeStore is an in-memory Store with switchable failure modes.
type fakeStore struct {
	mu       sync.Mutex
	data     map[string]*CachedResponse
	ttls     map[string]time.Duration
	getErr   error
	setErr   error
	patterns []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[string]*CachedResponse),
		ttls: make(map[string]time.Duration),
	}
}

func (s *fakeStore) Get(_ context.Context, key string) (*CachedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[key], nil
}

func (s *fakeStore) Set(_ context.Context, key string, resp *CachedResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = resp
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) DeletePattern(_ context.Context, pattern string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, pattern)
	return len(s.data), nil
}

func (s *fakeStore) recordedPatterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.patterns...)
}

func cachedHandler(store Store, downstream http.HandlerFunc) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mw := ResponseCache(store, time.Minute, Key, logger)
	return mw(downstream)
}

func TestResponseCacheMissThenHit(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, `{"ok":true}`, first.Body.String())
	require.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, `{"ok":true}`, second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))

	// Replay never reaches the downstream handler.
	assert.Equal(t, 1, calls)
}

func TestResponseCacheSkipsNonGET(t *testing.T) {
	store := newFakeStore()
	h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/entries", nil))

	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, store.data)
}

func TestResponseCacheNeverStoresErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		store := newFakeStore()
		h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Empty(t, store.data, "status %d must not be cached", status)
	}
}

func TestResponseCacheBypassesOnStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")

	h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("live"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseCacheSurvivesWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("readonly replica")

	h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("live"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live", rec.Body.String())
}

func TestResponseCacheHitCarriesFreshCorrelationID(t *testing.T) {
	store := newFakeStore()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := middleware.RequestLogging(logger)(cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("payload"))
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	first.Header.Set("X-Correlation-ID", "corr-req-1")
	h.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	second.Header.Set("X-Correlation-ID", "corr-req-2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, second)

	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	// Only the current request's correlation ID, never the one from the
	// request that populated the cache.
	assert.Equal(t, []string{"corr-req-2"}, rec.Header().Values("X-Correlation-Id"))
}

func TestResponseCacheStoredEntryReportsHitOnReplay(t *testing.T) {
	store := newFakeStore()
	h := cachedHandler(store, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("payload"))
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	// The stored header set must not carry the MISS marker.
	for _, resp := range store.data {
		assert.Empty(t, resp.Header.Get("X-Cache"))
	}
}
