package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/render"
	"github.com/matzehuels/routeboard/pkg/render/nodelink"
)

// Export is the JSON artifact: the board plus the highlighted route, if any.
type Export struct {
	graph.Document
	Route *graph.Route `json:"route,omitempty"`
}

// Render generates output artifacts in the requested formats without
// consulting any cache.
func Render(ctx context.Context, doc graph.Document, opts RenderOptions) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(doc, nodelink.Options{
		Route:      opts.Route,
		Scale:      opts.Scale,
		HideLabels: opts.HideLabels,
	})

	var svg []byte
	if slices.ContainsFunc(opts.Formats, needsSVG) {
		var err error
		if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
	}

	// PDF and PNG each run an external converter, so formats are produced
	// concurrently.
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				data []byte
				err  error
			)
			switch format {
			case FormatDOT:
				data = []byte(dot)
			case FormatSVG:
				data = svg
			case FormatPDF:
				data, err = render.ToPDF(svg)
			case FormatPNG:
				data, err = render.ToPNG(svg, DefaultPNGScale)
			case FormatJSON:
				data, err = json.MarshalIndent(Export{Document: doc, Route: opts.Route}, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func needsSVG(format string) bool {
	return format == FormatSVG || format == FormatPDF || format == FormatPNG
}
