package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routeboard/pkg/cache"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/observability"
	"github.com/matzehuels/routeboard/pkg/planar"
)

// Runner encapsulates route and render execution with caching.
// Both CLI and server use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner, but callers must serialize access to
// each *planar.Graph themselves.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	RouteTTL  time.Duration
	RenderTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		RouteTTL:  DefaultRouteTTL,
		RenderTTL: DefaultRenderTTL,
	}
}

// Route finds the shortest route between two document node indices of g,
// using the cache when possible. Route hooks fire only when the search
// actually runs.
func (r *Runner) Route(ctx context.Context, g *planar.Graph, opts RouteOptions) (RouteResult, error) {
	if err := opts.Validate(); err != nil {
		return RouteResult{}, err
	}
	start := time.Now()
	doc, ix := graph.FromPlanar(g)
	opts, err := opts.resolve(ix)
	if err != nil {
		return RouteResult{}, err
	}
	hash := cache.GraphHash(doc)
	key := r.Keyer.RouteKey(hash, opts.From, opts.To)

	if !opts.Refresh {
		cached, hit, err := cache.GetJSON[graph.Route](ctx, r.Cache, cache.KeyTypeRoute, key)
		if err != nil {
			r.Logger.Warn("route cache read failed", "err", err)
		} else if hit {
			r.Logger.Debug("route cache hit", "route", opts)
			return RouteResult{Route: cached, GraphHash: hash, CacheHit: true, Duration: time.Since(start), Document: doc, Index: ix}, nil
		}
	}

	hooks := observability.Route()
	hooks.OnRouteStart(ctx, g.NodeCount(), g.EdgeCount())
	searchStart := time.Now()
	rt, err := graph.ShortestRoute(g, ix, opts.From, opts.To)
	hooks.OnRouteComplete(ctx, len(rt.Edges), rt.Reachable, time.Since(searchStart), err)
	if err != nil {
		return RouteResult{}, err
	}

	if err := cache.SetJSON(ctx, r.Cache, cache.KeyTypeRoute, key, rt, r.RouteTTL); err != nil {
		r.Logger.Warn("route cache write failed", "err", err)
	}
	r.Logger.Debug("computed route",
		"route", opts,
		"hops", len(rt.Edges),
		"reachable", rt.Reachable,
		"duration", time.Since(searchStart))

	return RouteResult{Route: rt, GraphHash: hash, Duration: time.Since(start), Document: doc, Index: ix}, nil
}

// RenderWithCacheInfo renders doc in every requested format and reports
// whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc graph.Document, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash := cache.GraphHash(doc)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(hash, opts.KeyOpts(format)))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KeyTypeRender)
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeRender)
			return artifacts, true, nil
		}
	}

	start := time.Now()
	rendered, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		if err := r.Cache.Set(ctx, r.Keyer.RenderKey(hash, opts.KeyOpts(format)), data, r.RenderTTL); err != nil {
			r.Logger.Warn("render cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeRender, len(data))
	}
	r.Logger.Debug("rendered board", "formats", opts.Formats, "duration", time.Since(start))
	return rendered, false, nil
}

// RenderBoard is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) RenderBoard(ctx context.Context, doc graph.Document, opts RenderOptions) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
