package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/routeboard/pkg/graph"
)

// Options configures board rendering.
type Options struct {
	// Route, when set and reachable, is drawn on top of the board: its
	// nodes are filled and its edges thickened.
	Route *graph.Route

	// Scale converts board units to points. Zero means 1.
	Scale float64

	// HideLabels omits node index labels.
	HideLabels bool
}

// Colors used for highlighting.
const (
	colorStart  = "#2e7d32"
	colorFinish = "#c62828"
	colorRoute  = "#f9a825"
	colorEdge   = "#546e7a"
)

// ToDOT converts a board to Graphviz DOT with every node pinned at its
// position. Board coordinates grow downwards like screen coordinates, so y
// is negated for Graphviz. Render the result with [RenderSVG], which uses
// the neato engine so that the pinned positions are honoured.
func ToDOT(doc graph.Document, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	onRoute, routeEdges := routeSets(opts.Route)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, width=0.3, fontsize=10];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.6];\n", colorEdge)
	buf.WriteString("\n")

	for i, n := range doc.Nodes {
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(float64(n.X)*scale), fmtFloat(-float64(n.Y)*scale)),
		}
		if opts.HideLabels {
			attrs = append(attrs, `label=""`)
		} else {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(i)))
		}
		if fill, ok := nodeFill(i, opts.Route, onRoute); ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		if routeEdges[e] {
			fmt.Fprintf(&buf, "  n%d -> n%d [color=%q, penwidth=3];\n", e.From, e.To, colorRoute)
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func routeSets(r *graph.Route) (map[int]bool, map[graph.Edge]bool) {
	nodes := make(map[int]bool)
	edges := make(map[graph.Edge]bool)
	if r == nil || !r.Reachable {
		return nodes, edges
	}
	for _, i := range r.Nodes {
		nodes[i] = true
	}
	for _, e := range r.Edges {
		edges[e] = true
	}
	return nodes, edges
}

func nodeFill(i int, r *graph.Route, onRoute map[int]bool) (string, bool) {
	switch {
	case r == nil:
		return "", false
	case i == r.From:
		return colorStart, true
	case i == r.To:
		return colorFinish, true
	case onRoute[i]:
		return colorRoute, true
	default:
		return "", false
	}
}

func fmtFloat(f float64) string {
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT produced by [ToDOT] to SVG using Graphviz's neato
// engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose width and
// height match the viewBox, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
