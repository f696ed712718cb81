package cache

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/catalog-readpath/pkg/middleware"
)

func newTestCoordinator(store Store) *Coordinator {
	return NewCoordinator(store, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestCoordinatorCatalogFamilyPurgesPublicAndSearchKeys(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	c.Invalidate(FamilyCatalog, "")
	c.Close()

	assert.Equal(t, []string{"cache:public:*", "cache:*:search:*"}, store.recordedPatterns())
}

func TestCoordinatorUserFamilyPurgesOneNamespace(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	c.Invalidate(FamilyUser, "u-42")
	c.Close()

	assert.Equal(t, []string{"cache:user:u-42:*"}, store.recordedPatterns())
}

func TestCoordinatorOrderFamilyPurgesOrderKeysOnly(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	c.Invalidate(FamilyOrder, "u-42")
	c.Close()

	assert.Equal(t, []string{"cache:user:u-42:/api/v1/orders*"}, store.recordedPatterns())
}

func TestCoordinatorDrainsQueueOnClose(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	for i := 0; i < 20; i++ {
		c.Invalidate(FamilyCatalog, "")
	}
	c.Close()

	assert.Len(t, store.recordedPatterns(), 40)
}

func invalidatingHandler(c *Coordinator, family Family, status int) http.Handler {
	mw := Invalidation(c, family)
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	return middleware.Identity()(mw(inner))
}

func TestInvalidationMiddlewareEnqueuesOnSuccessfulWrite(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	h := invalidatingHandler(c, FamilyCatalog, http.StatusCreated)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/search/index", nil))
	c.Close()

	assert.NotEmpty(t, store.recordedPatterns())
}

func TestInvalidationMiddlewareIgnoresFailedWrites(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	h := invalidatingHandler(c, FamilyCatalog, http.StatusBadRequest)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/search/index", nil))
	c.Close()

	assert.Empty(t, store.recordedPatterns())
}

func TestInvalidationMiddlewareIgnoresReads(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	h := invalidatingHandler(c, FamilyCatalog, http.StatusOK)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))
	c.Close()

	assert.Empty(t, store.recordedPatterns())
}

func TestInvalidationMiddlewareRoutesCallerIdentity(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)

	h := invalidatingHandler(c, FamilyUser, http.StatusOK)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", nil)
	req.Header.Set(middleware.CallerIDHeader, "u-7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	c.Close()

	assert.Equal(t, []string{"cache:user:u-7:*"}, store.recordedPatterns())
}
