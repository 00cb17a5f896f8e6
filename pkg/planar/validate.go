package planar

import (
	"fmt"

	"github.com/matzehuels/routeboard/pkg/arena"
)

// Validate checks every structural invariant and returns nil if the graph
// is consistent. It verifies that:
//
//  1. Every node's stored key matches its slot and every tail/head refers to
//     a live edge whose From/To is that node
//  2. Every edge's endpoints are live, it is registered in its source's
//     tails and its destination's heads, and its cached P1/P2 equal the
//     endpoint positions
//  3. The de-duplication index holds exactly one entry per edge
//
// The first failure is reported wrapped in ErrInvariantViolation. Validate
// runs in O(V + E) and is meant for tests and for checking graphs rebuilt
// from untrusted input.
func (g *Graph) Validate() error {
	if err := g.validateNodes(); err != nil {
		return err
	}
	if err := g.validateEdges(); err != nil {
		return err
	}
	if len(g.pairs) != g.edges.Len() {
		return violation("pair index holds %d entries for %d edges", len(g.pairs), g.edges.Len())
	}
	return nil
}

func (g *Graph) validateNodes() error {
	for k, n := range g.Nodes() {
		if !n.attached || n.key != k {
			return violation("node %s carries key %s (attached=%v)", k, n.key, n.attached)
		}
		for _, ek := range n.tails.keys {
			e, ok := g.edges.Get(arena.Key(ek))
			if !ok {
				return violation("node %s tail %s is not a live edge", k, ek)
			}
			if e.from != k {
				return violation("node %s tail %s starts at %s", k, ek, e.from)
			}
		}
		for _, ek := range n.heads.keys {
			e, ok := g.edges.Get(arena.Key(ek))
			if !ok {
				return violation("node %s head %s is not a live edge", k, ek)
			}
			if e.to != k {
				return violation("node %s head %s ends at %s", k, ek, e.to)
			}
		}
	}
	return nil
}

func (g *Graph) validateEdges() error {
	for k, e := range g.Edges() {
		if !e.attached || e.key != k {
			return violation("edge %s carries key %s (attached=%v)", k, e.key, e.attached)
		}
		src, ok := g.Node(e.from)
		if !ok {
			return violation("edge %s source %s is not a live node", k, e.from)
		}
		dst, ok := g.Node(e.to)
		if !ok {
			return violation("edge %s target %s is not a live node", k, e.to)
		}
		if !src.tails.has(k) {
			return violation("edge %s missing from tails of %s", k, e.from)
		}
		if !dst.heads.has(k) {
			return violation("edge %s missing from heads of %s", k, e.to)
		}
		if e.p1 != src.pos || e.p2 != dst.pos {
			return violation("edge %s cached endpoints %v,%v differ from nodes %v,%v", k, e.p1, e.p2, src.pos, dst.pos)
		}
		if pk, ok := g.pairs[edgePair{e.from, e.to}]; !ok || pk != k {
			return violation("edge %s not indexed under %s→%s", k, e.from, e.to)
		}
	}
	return nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvariantViolation)
}
