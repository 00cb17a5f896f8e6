package planar

import (
	"fmt"

	"github.com/matzehuels/routeboard/pkg/geom"
)

// Edge is a directed connection from one node to another.
//
// P1 and P2 cache the positions of the source and destination nodes. For an
// attached edge they always equal the current endpoint positions.
type Edge struct {
	p1, p2   geom.Vec2
	key      EdgeKey
	from, to NodeKey
	attached bool
}

// NewEdge creates a detached edge between two free points, typically the
// rubber-band preview drawn while the user drags out a new connection.
func NewEdge(p1, p2 geom.Vec2) *Edge {
	return &Edge{p1: p1, p2: p2}
}

// P1 returns the cached source position.
func (e *Edge) P1() geom.Vec2 { return e.p1 }

// P2 returns the cached destination position.
func (e *Edge) P2() geom.Vec2 { return e.p2 }

// Endpoints returns both cached positions.
func (e *Edge) Endpoints() (p1, p2 geom.Vec2) { return e.p1, e.p2 }

// SetEndpoints moves a detached edge. It fails with ErrInvariantViolation
// once the edge is attached, since attached edges follow their nodes, and
// when either point is not finite.
func (e *Edge) SetEndpoints(p1, p2 geom.Vec2) error {
	if e.attached {
		return fmt.Errorf("set endpoints of attached edge %s: %w", e.key, ErrInvariantViolation)
	}
	if !p1.IsFinite() || !p2.IsFinite() {
		return fmt.Errorf("set endpoints to %v, %v: position not finite: %w", p1, p2, ErrInvariantViolation)
	}
	e.p1, e.p2 = p1, p2
	return nil
}

// From returns the source node key (zero for detached edges).
func (e *Edge) From() NodeKey { return e.from }

// To returns the destination node key (zero for detached edges).
func (e *Edge) To() NodeKey { return e.to }

// Key returns the edge's key and true when the edge is attached.
func (e *Edge) Key() (EdgeKey, bool) { return e.key, e.attached }

// Attached reports whether the edge belongs to a graph.
func (e *Edge) Attached() bool { return e.attached }

// Length returns the Euclidean distance between the cached endpoints.
// It is the edge's weight for shortest-path search.
func (e *Edge) Length() float32 { return geom.Dist(e.p1, e.p2) }
