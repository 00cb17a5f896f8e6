package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routeboard/pkg/observability"
)

// logHooks reports observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.RouteHooks = logHooks{}
	_ observability.StoreHooks = logHooks{}
	_ observability.CacheHooks = logHooks{}
	_ observability.HTTPHooks  = logHooks{}
)

// installLogHooks routes every observability hook to l.
func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetRouteHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnRouteStart(_ context.Context, nodes, edges int) {
	h.logger.Debug("route search", "nodes", nodes, "edges", edges)
}

func (h logHooks) OnRouteComplete(_ context.Context, hops int, reachable bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("route search failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("route search done", "hops", hops, "reachable", reachable, "duration", d)
}

func (h logHooks) OnStoreOp(_ context.Context, backend, op, name string, d time.Duration, err error) {
	kv := []any{"backend", backend, "op", op, "duration", d}
	if name != "" {
		kv = append(kv, "name", name)
	}
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.logger.Debug("store", kv...)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("http request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d)
}
