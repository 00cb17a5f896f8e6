package planar

import (
	"fmt"
	"iter"

	"github.com/matzehuels/routeboard/pkg/arena"
	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/geom"
)

var (
	// ErrUnknownNode is returned when a NodeKey does not resolve to a live
	// node of the graph: it was removed, or it was issued by another graph.
	// Callers driving a UI should treat it as "the selection went stale"
	// and drop the key.
	ErrUnknownNode = apperrors.New(apperrors.ErrCodeUnknownNode, "unknown node")

	// ErrUnknownEdge is returned when an EdgeKey does not resolve to a live
	// edge of the graph.
	ErrUnknownEdge = apperrors.New(apperrors.ErrCodeUnknownEdge, "unknown edge")

	// ErrInvariantViolation is returned when an operation would break a
	// structural invariant: attaching an already-attached entity, directly
	// moving an attached one, placing anything at a non-finite position, or
	// creating a self-loop. [Graph.Validate] also
	// reports corruption with this error.
	ErrInvariantViolation = apperrors.New(apperrors.ErrCodeInvariantViolation, "invariant violation")
)

// edgePair is the ordered endpoint pair used for edge de-duplication.
type edgePair struct{ from, to NodeKey }

// Graph is a planar directed graph with generational node and edge keys.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes *arena.Arena[*Node]
	edges *arena.Arena[*Edge]
	pairs map[edgePair]EdgeKey
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: arena.New[*Node](0),
		edges: arena.New[*Edge](0),
		pairs: make(map[edgePair]EdgeKey),
	}
}

// =============================================================================
// Mutation
// =============================================================================

// AddNode inserts a node at p with no edges and returns its key.
//
// p must be finite. AddNode panics otherwise; callers holding untrusted
// coordinates use AttachNode(NewNode(p)), which reports the error.
func (g *Graph) AddNode(p geom.Vec2) NodeKey {
	k, err := g.AttachNode(NewNode(p))
	if err != nil {
		panic(err)
	}
	return k
}

// AttachNode inserts a detached node, typically a drag preview created with
// NewNode, and returns its key. It fails with ErrInvariantViolation if n is
// already attached to a graph or its position is not finite.
func (g *Graph) AttachNode(n *Node) (NodeKey, error) {
	if n == nil {
		return NodeKey{}, fmt.Errorf("attach nil node: %w", ErrInvariantViolation)
	}
	if n.attached {
		return NodeKey{}, fmt.Errorf("attach node %s: already attached: %w", n.key, ErrInvariantViolation)
	}
	if !n.pos.IsFinite() {
		return NodeKey{}, fmt.Errorf("attach node at %v: position not finite: %w", n.pos, ErrInvariantViolation)
	}
	k := g.nodes.InsertWithKey(func(ak arena.Key) *Node {
		n.key = NodeKey(ak)
		n.attached = true
		n.tails.reset()
		n.heads.reset()
		return n
	})
	return NodeKey(k), nil
}

// AddEdge connects from to to and returns the edge's key.
//
// If an edge from→to already exists its key is returned and nothing is
// inserted. Otherwise a new edge is created with cached endpoints copied
// from both nodes and registered in from's tails and to's heads.
//
// Returns ErrUnknownNode if either key is stale, or ErrInvariantViolation
// if from == to.
func (g *Graph) AddEdge(from, to NodeKey) (EdgeKey, error) {
	src, ok := g.nodes.Get(arena.Key(from))
	if !ok {
		return EdgeKey{}, fmt.Errorf("add edge: source %s: %w", from, ErrUnknownNode)
	}
	dst, ok := g.nodes.Get(arena.Key(to))
	if !ok {
		return EdgeKey{}, fmt.Errorf("add edge: target %s: %w", to, ErrUnknownNode)
	}
	if from == to {
		return EdgeKey{}, fmt.Errorf("add edge %s→%s: self-loop: %w", from, to, ErrInvariantViolation)
	}

	pair := edgePair{from, to}
	if existing, ok := g.pairs[pair]; ok {
		return existing, nil
	}

	ak := g.edges.InsertWithKey(func(ak arena.Key) *Edge {
		return &Edge{
			p1:       src.pos,
			p2:       dst.pos,
			key:      EdgeKey(ak),
			from:     from,
			to:       to,
			attached: true,
		}
	})
	k := EdgeKey(ak)
	src.tails.add(k)
	dst.heads.add(k)
	g.pairs[pair] = k
	return k, nil
}

// RemoveNode removes the node and every edge that touches it. Each removed
// edge is also unregistered from its other endpoint. Returns ErrUnknownNode
// if k is stale.
//
// The removed Node value becomes detached and may be attached again.
func (g *Graph) RemoveNode(k NodeKey) error {
	n, ok := g.nodes.Get(arena.Key(k))
	if !ok {
		return fmt.Errorf("remove node %s: %w", k, ErrUnknownNode)
	}
	for _, e := range n.tails.clone() {
		g.unlinkEdge(e)
	}
	for _, e := range n.heads.clone() {
		g.unlinkEdge(e)
	}
	g.nodes.Remove(arena.Key(k))
	n.detach()
	return nil
}

// RemoveEdge removes the edge and unregisters it from both endpoints.
// Returns ErrUnknownEdge if k is stale.
func (g *Graph) RemoveEdge(k EdgeKey) error {
	if !g.unlinkEdge(k) {
		return fmt.Errorf("remove edge %s: %w", k, ErrUnknownEdge)
	}
	return nil
}

func (g *Graph) unlinkEdge(k EdgeKey) bool {
	e, ok := g.edges.Remove(arena.Key(k))
	if !ok {
		return false
	}
	if src, ok := g.nodes.Get(arena.Key(e.from)); ok {
		src.tails.remove(k)
	}
	if dst, ok := g.nodes.Get(arena.Key(e.to)); ok {
		dst.heads.remove(k)
	}
	delete(g.pairs, edgePair{e.from, e.to})
	e.attached = false
	e.key = EdgeKey{}
	return true
}

// SetNodePosition moves an attached node to p and refreshes the cached
// endpoints of all edges touching it: P2 of every incoming edge and P1 of
// every outgoing edge. Runs in O(degree). Returns ErrUnknownNode if k is
// stale and ErrInvariantViolation if p is not finite.
func (g *Graph) SetNodePosition(k NodeKey, p geom.Vec2) error {
	n, ok := g.nodes.Get(arena.Key(k))
	if !ok {
		return fmt.Errorf("set position of %s: %w", k, ErrUnknownNode)
	}
	if !p.IsFinite() {
		return fmt.Errorf("set position of %s to %v: position not finite: %w", k, p, ErrInvariantViolation)
	}
	n.pos = p
	for _, ek := range n.heads.keys {
		if e, ok := g.edges.Get(arena.Key(ek)); ok {
			e.p2 = p
		}
	}
	for _, ek := range n.tails.keys {
		if e, ok := g.edges.Get(arena.Key(ek)); ok {
			e.p1 = p
		}
	}
	return nil
}

// Clear removes every node and edge. All previously issued keys become
// stale.
func (g *Graph) Clear() {
	for _, e := range g.edges.All() {
		e.attached = false
		e.key = EdgeKey{}
	}
	for _, n := range g.nodes.All() {
		n.detach()
	}
	g.edges.Clear()
	g.nodes.Clear()
	clear(g.pairs)
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node stored under k and true, or nil and false if k is
// stale. The returned node is a read view; move it with SetNodePosition.
func (g *Graph) Node(k NodeKey) (*Node, bool) {
	return g.nodes.Get(arena.Key(k))
}

// Edge returns the edge stored under k and true, or nil and false if k is
// stale.
func (g *Graph) Edge(k EdgeKey) (*Edge, bool) {
	return g.edges.Get(arena.Key(k))
}

// LookupNode is like Node but reports a stale key as ErrUnknownNode.
func (g *Graph) LookupNode(k NodeKey) (*Node, error) {
	n, ok := g.Node(k)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", k, ErrUnknownNode)
	}
	return n, nil
}

// LookupEdge is like Edge but reports a stale key as ErrUnknownEdge.
func (g *Graph) LookupEdge(k EdgeKey) (*Edge, error) {
	e, ok := g.Edge(k)
	if !ok {
		return nil, fmt.Errorf("edge %s: %w", k, ErrUnknownEdge)
	}
	return e, nil
}

// HasNode reports whether k refers to a live node.
func (g *Graph) HasNode(k NodeKey) bool { return g.nodes.Contains(arena.Key(k)) }

// HasEdge reports whether k refers to a live edge.
func (g *Graph) HasEdge(k EdgeKey) bool { return g.edges.Contains(arena.Key(k)) }

// EdgeBetween returns the key of the edge from→to, if any.
func (g *Graph) EdgeBetween(from, to NodeKey) (EdgeKey, bool) {
	k, ok := g.pairs[edgePair{from, to}]
	return k, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.nodes.Len() }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges.Len() }

// Nodes iterates over all nodes in arena order. The order is stable until a
// removal frees a slot that a later insertion reuses.
func (g *Graph) Nodes() iter.Seq2[NodeKey, *Node] {
	return func(yield func(NodeKey, *Node) bool) {
		for k, n := range g.nodes.All() {
			if !yield(NodeKey(k), n) {
				return
			}
		}
	}
}

// Edges iterates over all edges in arena order.
func (g *Graph) Edges() iter.Seq2[EdgeKey, *Edge] {
	return func(yield func(EdgeKey, *Edge) bool) {
		for k, e := range g.edges.All() {
			if !yield(EdgeKey(k), e) {
				return
			}
		}
	}
}

// NodeKeys returns the keys of all nodes in arena order.
func (g *Graph) NodeKeys() []NodeKey {
	keys := make([]NodeKey, 0, g.nodes.Len())
	for k := range g.nodes.Keys() {
		keys = append(keys, NodeKey(k))
	}
	return keys
}

// EdgeKeys returns the keys of all edges in arena order.
func (g *Graph) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, g.edges.Len())
	for k := range g.edges.Keys() {
		keys = append(keys, EdgeKey(k))
	}
	return keys
}

// Tails returns the keys of k's outgoing edges, or ErrUnknownNode.
func (g *Graph) Tails(k NodeKey) ([]EdgeKey, error) {
	n, err := g.LookupNode(k)
	if err != nil {
		return nil, err
	}
	return n.Tails(), nil
}

// Heads returns the keys of k's incoming edges, or ErrUnknownNode.
func (g *Graph) Heads(k NodeKey) ([]EdgeKey, error) {
	n, err := g.LookupNode(k)
	if err != nil {
		return nil, err
	}
	return n.Heads(), nil
}

// ForEachTail calls fn for every outgoing edge of k, in the order of k's
// tails, stopping early when fn returns false. It allocates nothing and is
// the adjacency walk used by shortest-path search.
func (g *Graph) ForEachTail(k NodeKey, fn func(EdgeKey, *Edge) bool) {
	n, ok := g.Node(k)
	if !ok {
		return
	}
	for _, ek := range n.tails.keys {
		e, ok := g.Edge(ek)
		if !ok {
			continue
		}
		if !fn(ek, e) {
			return
		}
	}
}
