package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"
)

// KeyFunc derives the cache key for a request.
type KeyFunc func(*http.Request) string

// cacheHeader reports the cache outcome to callers.
const cacheHeader = "X-Cache"

// ResponseCache returns middleware that serves GET responses from the store
// when possible. Successful (2xx) downstream responses are persisted with the
// given TTL. A failing store downgrades to a plain proxy for the request; the
// caller never sees a cache error.
func ResponseCache(store Store, ttl time.Duration, keyFn KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFn(r)

			cached, err := store.Get(r.Context(), key)
			if err != nil {
				cacheRequestsTotal.WithLabelValues("bypass").Inc()
				logger.Debug("cache read failed, bypassing", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				cacheRequestsTotal.WithLabelValues("hit").Inc()
				replay(w, cached)
				return
			}

			cacheRequestsTotal.WithLabelValues("miss").Inc()

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set(cacheHeader, "MISS")
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}

			resp := &CachedResponse{
				Status: rec.status,
				Header: storableHeader(rec.Header()),
				Body:   rec.body.Bytes(),
			}
			if err := store.Set(r.Context(), key, resp, ttl); err != nil {
				logger.Debug("cache write failed", "key", key, "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for name, values := range cached.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set(cacheHeader, "HIT")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

// perRequestHeaders are set fresh by outer middleware for every request and
// must never be replayed from the snapshot of whichever request populated the
// cache.
var perRequestHeaders = []string{cacheHeader, "X-Correlation-Id"}

// storableHeader copies a header map, dropping per-request values so a replay
// carries only the response's own headers.
func storableHeader(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range perRequestHeaders {
		out.Del(name)
	}
	return out
}

// recordingWriter tees the downstream response into a buffer so it can be
// persisted after serving.
type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}
