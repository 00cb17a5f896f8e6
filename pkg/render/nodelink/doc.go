// Package nodelink draws boards as node-link diagrams with Graphviz.
//
// # Overview
//
// Unlike a layered layout, a board already has positions: every node sits
// where the user placed it. [ToDOT] therefore pins each node with
// pos="x,y!" and [RenderSVG] lays the graph out with neato, which keeps
// pinned nodes in place and draws straight edges between them.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Route: &r})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG with pkg/render.
//
// # Route Highlighting
//
// When [Options.Route] holds a reachable route, the start node is drawn
// green, the finish node red, intermediate route nodes amber, and route
// edges thick amber. An unreachable route still colours its start and
// finish nodes.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
