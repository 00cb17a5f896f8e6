// Package cache stores computed results (routes, rendered boards) keyed by
// the content of the graph they were computed from.
//
// Keys are derived from a hash of the graph document, so any edit to the
// graph produces new keys and stale entries simply age out; nothing is
// invalidated explicitly.
//
// Backends:
//   - [FileCache]: files under a directory (CLI default)
//   - [RedisCache]: Redis strings with TTL (shared server cache)
//   - [NullCache]: never stores anything (caching disabled)
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/routeboard/pkg/observability"
)

// Cache is a byte-oriented key/value cache with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Key types reported to observability hooks.
const (
	KeyTypeRoute  = "route"
	KeyTypeRender = "render"
)

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// RouteKey is the key of the shortest route between two node indices
	// of the graph with the given hash.
	RouteKey(graphHash string, from, to int) string

	// RenderKey is the key of a rendered board.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds every render option that changes the output.
type RenderKeyOpts struct {
	Format     string  `json:"format"`
	Route      []int   `json:"route,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	HideLabels bool    `json:"hide_labels,omitempty"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RouteKey implements Keyer.
func (DefaultKeyer) RouteKey(graphHash string, from, to int) string {
	return fmt.Sprintf("route:%s:%d:%d", graphHash, from, to)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// =============================================================================
// Typed Helpers
// =============================================================================

// GetJSON reads and decodes a cached value, reporting a hit or miss to the
// cache hooks. Undecodable entries count as misses.
func GetJSON[T any](ctx context.Context, c Cache, keyType, key string) (T, bool, error) {
	var v T
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return v, false, err
	}
	if !ok || json.Unmarshal(data, &v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		var zero T
		return zero, false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return v, true, nil
}

// SetJSON encodes and stores a value, reporting the write to the cache
// hooks.
func SetJSON(ctx context.Context, c Cache, keyType, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
