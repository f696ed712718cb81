package cache

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/utafrali/catalog-readpath/pkg/middleware"
)

// Family groups cached responses that share an invalidation trigger.
type Family string

const (
	// FamilyCatalog covers public catalog responses and search results in
	// every namespace. Catalog data is shared, so a single mutation stales
	// user-scoped search results too.
	FamilyCatalog Family = "catalog"
	// FamilyUser covers everything in one caller's namespace.
	FamilyUser Family = "user"
	// FamilyOrder covers one caller's order responses.
	FamilyOrder Family = "order"
)

const defaultQueueSize = 256

const taskTimeout = 10 * time.Second

type task struct {
	family   Family
	callerID string
}

// Coordinator applies cache invalidations asynchronously. Writers enqueue and
// move on; a single worker drains the queue against the store. A full queue
// drops the task rather than stalling the response path.
type Coordinator struct {
	store     Store
	tasks     chan task
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewCoordinator creates a coordinator and starts its worker.
func NewCoordinator(store Store, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		store:  store,
		tasks:  make(chan task, defaultQueueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Invalidate enqueues a purge for the family. Never blocks.
func (c *Coordinator) Invalidate(family Family, callerID string) {
	select {
	case c.tasks <- task{family: family, callerID: callerID}:
	default:
		invalidationDroppedTotal.Inc()
		c.logger.Warn("invalidation queue full, dropping task", "family", string(family))
	}
}

// Close stops accepting tasks and waits for queued work to drain. Safe to
// call more than once.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.tasks)
	})
	<-c.done
}

func (c *Coordinator) run() {
	defer close(c.done)
	for t := range c.tasks {
		c.process(t)
	}
}

func (c *Coordinator) process(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	deleted := 0
	for _, pattern := range patternsFor(t) {
		n, err := c.store.DeletePattern(ctx, pattern)
		deleted += n
		if err != nil {
			invalidationFailuresTotal.Inc()
			c.logger.Error("cache invalidation failed", "family", string(t.family), "pattern", pattern, "error", err)
			return
		}
	}

	invalidationsTotal.WithLabelValues(string(t.family)).Inc()
	c.logger.Debug("cache invalidated", "family", string(t.family), "keys", deleted)
}

func patternsFor(t task) []string {
	switch t.family {
	case FamilyCatalog:
		return []string{
			NamespacePattern("public"),
			AllSearchPattern(),
		}
	case FamilyUser:
		return []string{NamespacePattern("user:" + t.callerID)}
	case FamilyOrder:
		return []string{PathPattern("user:"+t.callerID, "/api/v1/orders")}
	default:
		return nil
	}
}

// Invalidation returns middleware that watches write methods on a route group
// and enqueues a purge for the family when the write succeeds. Reads and
// failed writes leave the cache alone.
func Invalidation(c *Coordinator, family Family) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if sw.status >= 200 && sw.status < 300 {
				c.Invalidate(family, middleware.CallerIDFromContext(r.Context()))
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
