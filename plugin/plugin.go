// Package plugin defines the plugin system for the field authorization
// engine. Plugins are notified of censoring, authorization, query and cache
// events and can react: logging, metrics, tracing, distributed cache
// invalidation.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about. Event payloads use plain strings to avoid
// import cycles with the packages that emit them.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// CensorEvent describes one censor invocation.
type CensorEvent struct {
	Kind      string
	Requested []string
	Granted   []string
}

// AuthorizeEvent describes one authorization decision.
type AuthorizeEvent struct {
	// Check is "permission", "owned" or "affiliated".
	Check       string
	Kind        string
	Permissions []string
	Allowed     bool
}

// QueryEvent describes one store round trip issued by the query layer.
type QueryEvent struct {
	Kind string
	// Operation is "find" or "count".
	Operation string
	Rows      int64
	Elapsed   time.Duration
	Err       error
}

// ──────────────────────────────────────────────────
// Pipeline hooks
// ──────────────────────────────────────────────────

// AfterCensor is called after a censor has filtered a field list.
type AfterCensor interface {
	OnAfterCensor(ctx context.Context, ev CensorEvent) error
}

// AfterAuthorize is called after an authorization check completes.
type AfterAuthorize interface {
	OnAfterAuthorize(ctx context.Context, ev AuthorizeEvent) error
}

// AfterQuery is called after the query layer hits the store.
type AfterQuery interface {
	OnAfterQuery(ctx context.Context, ev QueryEvent) error
}

// CacheLookup is called on every resolver or requirement cache read.
type CacheLookup interface {
	OnCacheLookup(ctx context.Context, cache string, hit bool) error
}

// ──────────────────────────────────────────────────
// Invalidation and shutdown hooks
// ──────────────────────────────────────────────────

// OwnershipChanged is called after a user's cached ownership and
// affiliation data has been dropped.
type OwnershipChanged interface {
	OnOwnershipChanged(ctx context.Context, userID string) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
