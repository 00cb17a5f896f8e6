// Package pkg provides the core libraries for routeboard, an editable planar
// directed graph with spatial queries and shortest routes.
//
// # Overview
//
// A board is a set of nodes at 2D positions joined by directed edges whose
// weight is their Euclidean length. The pkg directory is organized into
// three areas:
//
//  1. Domain logic ([planar], [planar/route], [planar/spatial], [geom], [arena])
//  2. Serialization and presentation ([graph], [render], [render/nodelink])
//  3. Infrastructure ([pipeline], [cache], [store], [observability], [errors])
//
// # Architecture
//
// The typical data flow:
//
//	.json / .toml document  or  store.Get
//	         ↓
//	    [graph] package (Document ↔ planar.Graph, index ↔ key)
//	         ↓
//	    [planar] package (mutation, keys, invariants)
//	         ↓
//	    [planar/spatial] picking  ·  [planar/route] Dijkstra
//	         ↓
//	    [pipeline] (cached routes and renders)
//	         ↓
//	    SVG/DOT/PDF/PNG/JSON output
//
// # Quick Start
//
//	g, ix, _ := graph.ReadGraphFile("board.json")
//	rt, _ := graph.ShortestRoute(g, ix, 0, 2)
//	fmt.Println(rt.Nodes, *rt.Distance)
//
//	sel := spatial.Pick(g, geom.V(2, 1), spatial.DefaultOptions())
//	fmt.Println(sel.Kind)
//
// # Main Packages
//
// [arena] - Generational slot arena. Keys carry a generation so a key to a
// removed entry never resolves to whatever reuses its slot.
//
// [planar] - The graph itself. Nodes own their incident edge sets, edges
// cache their endpoint positions, and every mutation keeps both in sync.
//
// [planar/route] - Shortest directed path over Euclidean edge lengths.
//
// [planar/spatial] - Hit testing of points against nodes and edges, nearest
// node and annulus queries.
//
// [graph] - Index-addressed document form used by files, the store, the
// HTTP API and the cache.
//
// [render/nodelink] - Graphviz DOT output with pinned positions and route
// highlighting. [render] converts SVG to PDF and PNG.
//
// [pipeline] - Route and render orchestration shared by the CLI and the
// HTTP server, with content-hash caching through [cache].
//
// [store] - Named document storage: file, memory, Redis and MongoDB.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/planar/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB tests run only when ROUTEBOARD_TEST_REDIS_ADDR or
// ROUTEBOARD_TEST_MONGO_URI is set.
package pkg
