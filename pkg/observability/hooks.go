// Package observability lets embedders watch routeboard at work without the
// core depending on any metrics or tracing backend.
//
// There are four hook families: route searches, store calls, cache lookups
// and served HTTP requests. Each has a no-op default and a setter. The graph
// packages (arena, planar, spatial, route) never emit events; the layers that
// drive them do (the pipeline runner, the store wrapper, the cache helpers
// and the HTTP server).
//
// Register hooks once at startup:
//
//	observability.SetRouteHooks(&routeMetrics{})
//	observability.SetStoreHooks(&storeMetrics{})
//
// and emit around the measured work:
//
//	observability.Route().OnRouteStart(ctx, g.NodeCount(), g.EdgeCount())
//	r, err := route.ShortestPath(g, src, dst)
//	observability.Route().OnRouteComplete(ctx, r.Hops(), r.Reachable(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Route Hooks
// =============================================================================

// RouteHooks receives events from shortest-path searches.
type RouteHooks interface {
	OnRouteStart(ctx context.Context, nodeCount, edgeCount int)
	OnRouteComplete(ctx context.Context, hops int, reachable bool, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from graph document stores.
type StoreHooks interface {
	// OnStoreOp records one store call. op is "get", "put", "delete" or
	// "list"; name is empty for list.
	OnStoreOp(ctx context.Context, backend, op, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is KeyTypeRoute or KeyTypeRender from package cache.
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	// OnCacheSet reports the size in bytes of the value written.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires after the handler returns, with the status written.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// Noop hooks discard every event. Embed one to implement only the events
// you care about.
type NoopRouteHooks struct{}

func (NoopRouteHooks) OnRouteStart(context.Context, int, int)                           {}
func (NoopRouteHooks) OnRouteComplete(context.Context, int, bool, time.Duration, error) {}

type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// registry holds the hooks of one family. Setting nil keeps the current hooks.
type registry[H any] struct {
	mu   sync.RWMutex
	cur  H
	noop H
}

func newRegistry[H any](noop H) *registry[H] {
	return &registry[H]{cur: noop, noop: noop}
}

func (r *registry[H]) set(h H) {
	if any(h) == nil {
		return
	}
	r.mu.Lock()
	r.cur = h
	r.mu.Unlock()
}

func (r *registry[H]) get() H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

func (r *registry[H]) reset() {
	r.mu.Lock()
	r.cur = r.noop
	r.mu.Unlock()
}

var (
	routeHooks = newRegistry[RouteHooks](NoopRouteHooks{})
	storeHooks = newRegistry[StoreHooks](NoopStoreHooks{})
	cacheHooks = newRegistry[CacheHooks](NoopCacheHooks{})
	httpHooks  = newRegistry[HTTPHooks](NoopHTTPHooks{})
)

// SetRouteHooks registers route hooks. Call it before serving traffic.
func SetRouteHooks(h RouteHooks) { routeHooks.set(h) }

func SetStoreHooks(h StoreHooks) { storeHooks.set(h) }
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }
func SetHTTPHooks(h HTTPHooks)   { httpHooks.set(h) }

// Route returns the registered route hooks, or no-ops.
func Route() RouteHooks { return routeHooks.get() }

func Store() StoreHooks { return storeHooks.get() }
func Cache() CacheHooks { return cacheHooks.get() }
func HTTP() HTTPHooks   { return httpHooks.get() }

// Reset restores every family to its no-op default. Tests call it in cleanup.
func Reset() {
	routeHooks.reset()
	storeHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
