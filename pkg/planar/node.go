package planar

import (
	"fmt"

	"github.com/matzehuels/routeboard/pkg/geom"
)

// Node is a positioned vertex.
//
// A Node obtained from a Graph is a read view: its position can only be
// changed through [Graph.SetNodePosition]. A Node created with [NewNode]
// is detached and may be moved freely until it is attached.
type Node struct {
	pos      geom.Vec2
	key      NodeKey
	attached bool
	tails    edgeSet // outgoing: edges whose From is this node
	heads    edgeSet // incoming: edges whose To is this node
}

// NewNode creates a detached node at p.
func NewNode(p geom.Vec2) *Node {
	return &Node{pos: p}
}

// Position returns the node's position.
func (n *Node) Position() geom.Vec2 { return n.pos }

// SetPosition moves a detached node. It fails with ErrInvariantViolation
// once the node is attached to a graph or when p is not finite.
func (n *Node) SetPosition(p geom.Vec2) error {
	if n.attached {
		return fmt.Errorf("set position of attached node %s: %w", n.key, ErrInvariantViolation)
	}
	if !p.IsFinite() {
		return fmt.Errorf("set position to %v: position not finite: %w", p, ErrInvariantViolation)
	}
	n.pos = p
	return nil
}

// Key returns the node's key and true when the node is attached.
func (n *Node) Key() (NodeKey, bool) { return n.key, n.attached }

// Attached reports whether the node belongs to a graph.
func (n *Node) Attached() bool { return n.attached }

// Tails returns a copy of the keys of the node's outgoing edges.
func (n *Node) Tails() []EdgeKey { return n.tails.clone() }

// Heads returns a copy of the keys of the node's incoming edges.
func (n *Node) Heads() []EdgeKey { return n.heads.clone() }

// OutDegree returns the number of outgoing edges.
func (n *Node) OutDegree() int { return n.tails.len() }

// InDegree returns the number of incoming edges.
func (n *Node) InDegree() int { return n.heads.len() }

// HasTail reports whether e is one of the node's outgoing edges.
func (n *Node) HasTail(e EdgeKey) bool { return n.tails.has(e) }

// HasHead reports whether e is one of the node's incoming edges.
func (n *Node) HasHead(e EdgeKey) bool { return n.heads.has(e) }

func (n *Node) detach() {
	n.key = NodeKey{}
	n.attached = false
	n.tails.reset()
	n.heads.reset()
}
