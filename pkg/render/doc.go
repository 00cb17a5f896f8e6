// Package render turns boards into images.
//
// The [nodelink] subpackage produces Graphviz DOT with every node pinned at
// its board position and renders it to SVG in-process. This package holds
// the format conversion shared by renderers: [ToPDF] and [ToPNG] convert an
// SVG with the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Requires librsvg for PDF and PNG: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package render
