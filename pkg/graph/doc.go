// Package graph provides the serialization format for planar graphs and
// shortest-path results.
//
// This package defines the canonical wire format for routeboard's graph
// data, used for graph files, HTTP payloads, and every store backend.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// graph store and external formats:
//
//   - [Document], [Route]: serialization types (this package)
//   - pkg/planar.Graph: key-stable in-memory graph
//   - pkg/planar/route.Result: key-based shortest-path result
//
// Use [FromPlanar]/[ToPlanar] to convert between them. Both return an
// [Index] that maps document positions to node keys.
//
// # Graph Serialization
//
// Graphs use a node-link format in which edges refer to nodes by position:
//
//	{
//	  "nodes": [{"x": 0, "y": 0}, {"x": 3, "y": 0}],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// The TOML form uses [[nodes]] and [[edges]] tables. File helpers choose
// the format from the extension (.json or .toml):
//
//	g, ix, _ := graph.ReadGraphFile("board.toml")  // File → Graph
//	graph.WriteGraphFile(g, "board.json")          // Graph → File
//
// Loading never trusts stored adjacency: [ToPlanar] inserts every edge
// through the graph store, so tails and heads are re-derived and duplicate
// edges collapse. Out-of-range indices, self-loops, and non-finite
// positions are rejected with INVALID_FORMAT.
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct graphs. Converting
// a graph reads all of it; callers sharing a graph must serialize access.
package graph
