// Package planar provides the graph data engine behind routeboard: a
// key-stable store of positioned nodes and directed edges that keeps its
// adjacency consistent under every insertion and removal.
//
// # Overview
//
// A [Graph] owns two generational arenas, one for nodes and one for edges.
// Entities are addressed by [NodeKey] and [EdgeKey]. Keys stay valid for as
// long as the entity lives and become permanently stale once it is removed,
// even when the underlying slot is reused. Passing a stale key to any
// operation fails with [ErrUnknownNode] or [ErrUnknownEdge] instead of
// silently touching a different entity.
//
// # Basic Usage
//
//	g := planar.New()
//	a := g.AddNode(geom.V(0, 0))
//	b := g.AddNode(geom.V(3, 0))
//	e, _ := g.AddEdge(a, b)
//	_ = g.SetNodePosition(b, geom.V(3, 4)) // e's cached p2 follows
//
// # Adjacency
//
// Every node records the edges it is the source of (its tails) and the edges
// it is the destination of (its heads). [Graph.AddEdge] wires both sets in one
// step, [Graph.RemoveEdge] unwires both, and [Graph.RemoveNode] removes every
// edge touching the node before the node itself. No caller ever observes a
// partially wired entity.
//
// At most one edge exists per ordered (from, to) pair: adding the same pair
// twice returns the existing key. Reciprocal pairs (a→b and b→a) are two
// distinct edges. Self-loops are rejected with [ErrInvariantViolation].
//
// # Cached Endpoints
//
// Each edge caches copies of its endpoint positions (P1 for the source, P2
// for the destination) so that drawing and hit-testing never need a node
// lookup. [Graph.SetNodePosition] is the only way to move an attached node
// and it refreshes every cached endpoint in O(degree).
//
// # Detached Entities
//
// [NewNode] and [NewEdge] create free-floating entities used as drag
// previews. Their positions may be set directly until they are attached to
// a graph, after which direct mutation fails with [ErrInvariantViolation].
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. All mutations and all
// multi-step queries (such as a shortest-path search) must be serialized by
// the caller, typically with one lock per graph, because the intermediate
// states of a cascading removal are not a valid external view.
//
// # Related Packages
//
// The [spatial] subpackage answers nearest-node, radius and hit-test
// queries. The [route] subpackage computes shortest paths.
//
// [spatial]: github.com/matzehuels/routeboard/pkg/planar/spatial
// [route]: github.com/matzehuels/routeboard/pkg/planar/route
package planar
