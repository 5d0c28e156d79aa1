package plugin

import (
	"context"
	"log/slog"
)

// Named entry types pair a hook with the plugin name for logging.

type afterCensorEntry struct {
	name string
	hook AfterCensor
}
type afterAuthorizeEntry struct {
	name string
	hook AfterAuthorize
}
type afterQueryEntry struct {
	name string
	hook AfterQuery
}
type cacheLookupEntry struct {
	name string
	hook CacheLookup
}
type ownershipChangedEntry struct {
	name string
	hook OwnershipChanged
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook. A nil *Registry
// drops every event.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	afterCensor      []afterCensorEntry
	afterAuthorize   []afterAuthorizeEntry
	afterQuery       []afterQueryEntry
	cacheLookup      []cacheLookupEntry
	ownershipChanged []ownershipChangedEntry
	shutdown         []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(AfterCensor); ok {
		r.afterCensor = append(r.afterCensor, afterCensorEntry{name, h})
	}
	if h, ok := p.(AfterAuthorize); ok {
		r.afterAuthorize = append(r.afterAuthorize, afterAuthorizeEntry{name, h})
	}
	if h, ok := p.(AfterQuery); ok {
		r.afterQuery = append(r.afterQuery, afterQueryEntry{name, h})
	}
	if h, ok := p.(CacheLookup); ok {
		r.cacheLookup = append(r.cacheLookup, cacheLookupEntry{name, h})
	}
	if h, ok := p.(OwnershipChanged); ok {
		r.ownershipChanged = append(r.ownershipChanged, ownershipChangedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Event emitters
// ──────────────────────────────────────────────────

// EmitAfterCensor notifies all plugins that implement AfterCensor.
func (r *Registry) EmitAfterCensor(ctx context.Context, ev CensorEvent) {
	if r == nil {
		return
	}
	for _, e := range r.afterCensor {
		if err := e.hook.OnAfterCensor(ctx, ev); err != nil {
			r.logHookError("OnAfterCensor", e.name, err)
		}
	}
}

// EmitAfterAuthorize notifies all plugins that implement AfterAuthorize.
func (r *Registry) EmitAfterAuthorize(ctx context.Context, ev AuthorizeEvent) {
	if r == nil {
		return
	}
	for _, e := range r.afterAuthorize {
		if err := e.hook.OnAfterAuthorize(ctx, ev); err != nil {
			r.logHookError("OnAfterAuthorize", e.name, err)
		}
	}
}

// EmitAfterQuery notifies all plugins that implement AfterQuery.
func (r *Registry) EmitAfterQuery(ctx context.Context, ev QueryEvent) {
	if r == nil {
		return
	}
	for _, e := range r.afterQuery {
		if err := e.hook.OnAfterQuery(ctx, ev); err != nil {
			r.logHookError("OnAfterQuery", e.name, err)
		}
	}
}

// EmitCacheLookup notifies all plugins that implement CacheLookup. Its
// signature matches cache.Observer.
func (r *Registry) EmitCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}
	for _, e := range r.cacheLookup {
		if err := e.hook.OnCacheLookup(context.Background(), cache, hit); err != nil {
			r.logHookError("OnCacheLookup", e.name, err)
		}
	}
}

// EmitOwnershipChanged notifies all plugins that implement OwnershipChanged.
func (r *Registry) EmitOwnershipChanged(ctx context.Context, userID string) {
	if r == nil {
		return
	}
	for _, e := range r.ownershipChanged {
		if err := e.hook.OnOwnershipChanged(ctx, userID); err != nil {
			r.logHookError("OnOwnershipChanged", e.name, err)
		}
	}
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	if r == nil {
		return
	}
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
