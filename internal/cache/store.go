// Package cache holds rendered dashboard views keyed by the page scope that
// displays them, so that a mutation can drop every stale view at once.
package cache

import (
	"context"
	"strings"
	"time"
)

// Scopes named after the dashboard pages whose data they back.
const (
	ScopeDashboard = "/dashboard"
	ScopeInvoices  = "/dashboard/invoices"
	ScopeCustomers = "/dashboard/customers"
)

// Store is a scoped key/value cache.
type Store interface {
	// Get returns the value for key. ok is false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key and records its membership in scope.
	Set(ctx context.Context, scope, key string, value []byte, ttl time.Duration) error
	// Put stores value under key outside any scope. Only expiry removes it.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every entry stored under scope or a nested scope.
	Invalidate(ctx context.Context, scope string) error
	Close() error
}

// Key builds a cache key inside scope.
func Key(scope string, parts ...string) string {
	return scope + "?" + strings.Join(parts, "&")
}

// covers reports whether invalidating scope must also drop entries of other.
func covers(scope, other string) bool {
	if scope == other {
		return true
	}
	return strings.HasPrefix(other, strings.TrimSuffix(scope, "/")+"/")
}
