package cache

import (
	"context"
	"net/http"
	"time"
)

// CachedResponse is the stored form of an HTTP response. Content type rides
// in the header map like every other header.
type CachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Store is the persistence contract for cached responses. Implementations
// must treat a missing key as (nil, nil), not an error.
type Store interface {
	// Get returns the cached response for key, or nil when absent.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Set stores a response under key with the given TTL.
	Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error

	// DeletePattern removes every key matching a glob-style pattern and
	// returns the number of keys removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}
