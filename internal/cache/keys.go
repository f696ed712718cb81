package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/utafrali/catalog-readpath/pkg/middleware"
)

const keyPrefix = "cache"

// hashedKeyWidth bounds the width of digest-based keys.
const hashedKeyWidth = 32

// Namespace returns the identity scope for a request: "public" for anonymous
// callers, "user:<id>" otherwise. User-scoped responses never share keys with
// public ones.
func Namespace(r *http.Request) string {
	if id := middleware.CallerIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	return "public"
}

// Key builds the default cache key for a request from its namespace, path and
// raw query. The same request under the same identity always yields the same
// key.
func Key(r *http.Request) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, Namespace(r), requestTarget(r))
}

// SearchKey builds a digest-based key for search requests, whose query
// strings are long and high-cardinality.
func SearchKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(requestTarget(r)))
	digest := hex.EncodeToString(sum[:])[:hashedKeyWidth]
	return fmt.Sprintf("%s:%s:search:%s", keyPrefix, Namespace(r), digest)
}

// NamespacePattern matches every key in one identity scope.
func NamespacePattern(namespace string) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, namespace)
}

// PathPattern matches keys in a namespace whose path starts with the prefix.
func PathPattern(namespace, pathPrefix string) string {
	return fmt.Sprintf("%s:%s:%s*", keyPrefix, namespace, pathPrefix)
}

// SearchPattern matches all digest-based search keys in a namespace.
func SearchPattern(namespace string) string {
	return fmt.Sprintf("%s:%s:search:*", keyPrefix, namespace)
}

// AllSearchPattern matches digest-based search keys in every namespace.
func AllSearchPattern() string {
	return keyPrefix + ":*:search:*"
}

func requestTarget(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}
