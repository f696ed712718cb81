package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyType string

const callerIDKey contextKeyType = "caller_id"

// CallerIDHeader is the header the edge gateway sets after authenticating a
// request. The value is an opaque caller identity; this layer never inspects
// or validates it beyond presence.
const CallerIDHeader = "X-User-ID"

// Identity extracts the caller identity propagated by the gateway and stores
// it in the request context. Anonymous requests pass through with no identity.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(CallerIDHeader))
			if id != "" {
				ctx := context.WithValue(r.Context(), callerIDKey, id)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerIDFromContext extracts the caller identity from the request context.
// Returns the empty string for anonymous requests.
func CallerIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(callerIDKey).(string); ok {
		return id
	}
	return ""
}
