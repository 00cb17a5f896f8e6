// Package pipeline runs the board computations shared by the CLI and the
// HTTP server: shortest routes and rendering, both memoized in a
// [cache.Cache].
//
// Cache keys are derived from the board's document hash, so any edit to the
// board produces new keys and nothing needs explicit invalidation.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Route(ctx, g, pipeline.RouteOptions{From: 0, To: 2})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Route.Nodes)
//
//	artifacts, err := runner.Render(ctx, doc, pipeline.RenderOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	    Route:   &res.Route,
//	})
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/routeboard/pkg/cache"
	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/planar"
	"github.com/matzehuels/routeboard/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the default board-units-to-points factor.
	DefaultScale = 1.0

	// DefaultPNGScale is the zoom applied when rasterizing to PNG.
	DefaultPNGScale = 2.0

	// DefaultRouteTTL is how long route results are cached.
	DefaultRouteTTL = 24 * time.Hour

	// DefaultRenderTTL is how long rendered artifacts are cached.
	DefaultRenderTTL = 7 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatDOT  = render.FormatDOT
	FormatPDF  = render.FormatPDF
	FormatPNG  = render.FormatPNG
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// RouteOptions selects a route between two document node indices.
type RouteOptions struct {
	From int `json:"from"`
	To   int `json:"to"`

	// FromKey and ToKey, when non-nil, select an endpoint by live node key
	// instead of by index. A stale key fails with UNKNOWN_NODE.
	FromKey planar.NodeKey `json:"-"`
	ToKey   planar.NodeKey `json:"-"`

	// Refresh skips the cache lookup (the result is still stored).
	Refresh bool `json:"refresh,omitempty"`
}

// RenderOptions configures rendering.
type RenderOptions struct {
	Formats    []string     `json:"formats,omitempty"`
	Route      *graph.Route `json:"route,omitempty"`
	Scale      float64      `json:"scale,omitempty"`
	HideLabels bool         `json:"hide_labels,omitempty"`
	Refresh    bool         `json:"refresh,omitempty"`
}

// RouteResult is the outcome of [Runner.Route].
type RouteResult struct {
	Route     graph.Route
	GraphHash string
	CacheHit  bool
	Duration  time.Duration

	// Document and Index are the snapshot of the graph the route was
	// resolved against. Index maps Route's node indices back to keys.
	Document graph.Document
	Index    *graph.Index
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeUnsupported,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset render options.
func (o *RenderOptions) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
}

// ValidateAndSetDefaults applies defaults and checks the formats.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return ValidateFormats(o.Formats)
}

// KeyOpts returns cache key options for one rendered format.
func (o *RenderOptions) KeyOpts(format string) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		Format:     format,
		Scale:      o.Scale,
		HideLabels: o.HideLabels,
	}
	if o.Route != nil && o.Route.Reachable {
		k.Route = o.Route.Nodes
	}
	return k
}

// Validate checks that both indices are non-negative. Range checks against
// a concrete board happen in [Runner.Route].
func (o RouteOptions) Validate() error {
	if o.From < 0 || o.To < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "node indices must be non-negative (got %d, %d)", o.From, o.To)
	}
	return nil
}

// resolve replaces FromKey and ToKey with their positions in ix.
func (o RouteOptions) resolve(ix *graph.Index) (RouteOptions, error) {
	for _, end := range []struct {
		key planar.NodeKey
		dst *int
	}{{o.FromKey, &o.From}, {o.ToKey, &o.To}} {
		if end.key.IsNil() {
			continue
		}
		i, ok := ix.Of(end.key)
		if !ok {
			return o, fmt.Errorf("route endpoint %s: %w", end.key, planar.ErrUnknownNode)
		}
		*end.dst = i
	}
	o.FromKey, o.ToKey = planar.NodeKey{}, planar.NodeKey{}
	return o, nil
}

// String formats the options for logs.
func (o RouteOptions) String() string {
	return fmt.Sprintf("%d→%d", o.From, o.To)
}
