package graph

import (
	"fmt"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/planar"
)

// =============================================================================
// Document - Graph Serialization
// =============================================================================

// Document is the canonical serialization format for planar graphs.
// Used for graph files, API payloads, and every store backend.
//
// Edges refer to nodes by their position in Nodes. Adjacency is never
// stored: it is re-derived from Edges when a Document is loaded.
type Document struct {
	Nodes []Node `json:"nodes" toml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" toml:"edges" bson:"edges"`
}

// Node is a node position.
type Node struct {
	X float32 `json:"x" toml:"x" bson:"x"`
	Y float32 `json:"y" toml:"y" bson:"y"`
}

// Position returns the node position as a vector.
func (n Node) Position() geom.Vec2 { return geom.V(n.X, n.Y) }

// Edge is a directed edge between two node indices.
type Edge struct {
	From int `json:"from" toml:"from" bson:"from"`
	To   int `json:"to" toml:"to" bson:"to"`
}

// Validate checks that every edge refers to an existing node, that no edge
// is a self-loop, and that every position is finite. Duplicate edges are
// allowed; they collapse on load.
func (d Document) Validate() error {
	for i, n := range d.Nodes {
		if !n.Position().IsFinite() {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "node %d: position (%v, %v) is not finite", i, n.X, n.Y)
		}
	}
	for i, e := range d.Edges {
		if e.From < 0 || e.From >= len(d.Nodes) || e.To < 0 || e.To >= len(d.Nodes) {
			return apperrors.New(apperrors.ErrCodeInvalidFormat,
				"edge %d: %d→%d out of range for %d nodes", i, e.From, e.To, len(d.Nodes))
		}
		if e.From == e.To {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "edge %d: self-loop on node %d", i, e.From)
		}
	}
	return nil
}

// =============================================================================
// Index - Document Positions ↔ Node Keys
// =============================================================================

// Index maps document node positions to live node keys and back.
// It describes the graph at the moment of conversion; keys added or
// removed afterwards are not tracked.
type Index struct {
	keys []planar.NodeKey
	pos  map[planar.NodeKey]int
}

func newIndex(n int) *Index {
	return &Index{keys: make([]planar.NodeKey, 0, n), pos: make(map[planar.NodeKey]int, n)}
}

func (ix *Index) add(k planar.NodeKey) {
	ix.pos[k] = len(ix.keys)
	ix.keys = append(ix.keys, k)
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.keys) }

// Key returns the node key at document position i.
func (ix *Index) Key(i int) (planar.NodeKey, bool) {
	if i < 0 || i >= len(ix.keys) {
		return planar.NodeKey{}, false
	}
	return ix.keys[i], true
}

// Of returns the document position of k.
func (ix *Index) Of(k planar.NodeKey) (int, bool) {
	i, ok := ix.pos[k]
	return i, ok
}

// Keys returns the indexed keys in document order.
func (ix *Index) Keys() []planar.NodeKey {
	out := make([]planar.NodeKey, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// MustKey is like Key but returns an UNKNOWN_NODE error for a bad position.
func (ix *Index) MustKey(i int) (planar.NodeKey, error) {
	k, ok := ix.Key(i)
	if !ok {
		return planar.NodeKey{}, fmt.Errorf("node index %d of %d: %w", i, ix.Len(), planar.ErrUnknownNode)
	}
	return k, nil
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromPlanar converts a graph to its serialization format. Nodes and edges
// are emitted in arena order, so repeated conversions of an unchanged graph
// produce identical documents.
func FromPlanar(g *planar.Graph) (Document, *Index) {
	ix := newIndex(g.NodeCount())
	doc := Document{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for k, n := range g.Nodes() {
		ix.add(k)
		p := n.Position()
		doc.Nodes = append(doc.Nodes, Node{X: p.X, Y: p.Y})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{From: ix.pos[e.From()], To: ix.pos[e.To()]})
	}
	return doc, ix
}

// ToPlanar rebuilds a graph from a document. Adjacency is re-derived by
// inserting every edge through the graph store, never trusted from input;
// duplicate edges collapse into one. Returns an INVALID_FORMAT error if the
// document fails Validate.
func ToPlanar(doc Document) (*planar.Graph, *Index, error) {
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	g := planar.New()
	ix := newIndex(len(doc.Nodes))
	for _, n := range doc.Nodes {
		ix.add(g.AddNode(n.Position()))
	}
	for i, e := range doc.Edges {
		if _, err := g.AddEdge(ix.keys[e.From], ix.keys[e.To]); err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "edge %d", i)
		}
	}
	return g, ix, nil
}
