package spatial

import (
	"fmt"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/planar"
)

// Default pick thresholds, in the same units as node positions.
const (
	DefaultNodeRadius     = 10
	DefaultEdgeThickness  = 5
	DefaultNodeWinsRadius = 5
)

// Options configures the pick thresholds. Zero fields take the defaults.
type Options struct {
	// NodeRadius is the selection radius around a node's center.
	NodeRadius float32
	// EdgeThickness is the maximum perpendicular distance from an edge's
	// line at which the edge is still selected.
	EdgeThickness float32
	// NodeWinsRadius is the distance under which a node beats any edge
	// candidate in Pick.
	NodeWinsRadius float32
}

// DefaultOptions returns the default pick thresholds.
func DefaultOptions() Options {
	return Options{
		NodeRadius:     DefaultNodeRadius,
		EdgeThickness:  DefaultEdgeThickness,
		NodeWinsRadius: DefaultNodeWinsRadius,
	}
}

func (o Options) withDefaults() Options {
	if o.NodeRadius <= 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	if o.EdgeThickness <= 0 {
		o.EdgeThickness = DefaultEdgeThickness
	}
	if o.NodeWinsRadius <= 0 {
		o.NodeWinsRadius = DefaultNodeWinsRadius
	}
	return o
}

// Validate rejects negative thresholds and a node-wins radius larger than
// the node radius, which would make it unreachable.
func (o Options) Validate() error {
	if o.NodeRadius < 0 || o.EdgeThickness < 0 || o.NodeWinsRadius < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "pick thresholds must not be negative")
	}
	d := o.withDefaults()
	if d.NodeWinsRadius > d.NodeRadius {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"node-wins radius %v exceeds node radius %v", d.NodeWinsRadius, d.NodeRadius)
	}
	return nil
}

// =============================================================================
// Neighbourhood Queries
// =============================================================================

// NearestNode returns the node closest to from, excluding from itself. Ties
// go to the first node in arena order. The zero key is returned when from
// is the only node. Returns planar.ErrUnknownNode if from is stale.
func NearestNode(g *planar.Graph, from planar.NodeKey) (planar.NodeKey, error) {
	origin, ok := g.Node(from)
	if !ok {
		return planar.NodeKey{}, fmt.Errorf("nearest to %s: %w", from, planar.ErrUnknownNode)
	}
	p := origin.Position()

	var (
		best  planar.NodeKey
		bestD float32
		found bool
	)
	for k, n := range g.Nodes() {
		if k == from {
			continue
		}
		d := geom.Dist2(p, n.Position())
		if !found || d < bestD {
			best, bestD, found = k, d, true
		}
	}
	return best, nil
}

// NodesInAnnulus returns every node other than center whose distance to
// center lies strictly between minR and maxR, in arena order. Nodes
// coincident with center are never returned, even when minR is zero.
// Returns planar.ErrUnknownNode if center is stale.
func NodesInAnnulus(g *planar.Graph, center planar.NodeKey, minR, maxR float32) ([]planar.NodeKey, error) {
	origin, ok := g.Node(center)
	if !ok {
		return nil, fmt.Errorf("annulus around %s: %w", center, planar.ErrUnknownNode)
	}
	p := origin.Position()
	min2, max2 := minR*minR, maxR*maxR

	var out []planar.NodeKey
	for k, n := range g.Nodes() {
		if k == center {
			continue
		}
		d := geom.Dist2(p, n.Position())
		if d == 0 {
			continue
		}
		if d > min2 && d < max2 {
			out = append(out, k)
		}
	}
	return out, nil
}

// =============================================================================
// Picking
// =============================================================================

// SelectionKind tells what a Selection refers to.
type SelectionKind int

const (
	// SelectNone means the point hit nothing.
	SelectNone SelectionKind = iota
	// SelectNode means the point hit Selection.Node.
	SelectNode
	// SelectEdge means the point hit Selection.Edge.
	SelectEdge
)

func (k SelectionKind) String() string {
	switch k {
	case SelectNode:
		return "node"
	case SelectEdge:
		return "edge"
	default:
		return "none"
	}
}

// Selection is the result of Pick.
type Selection struct {
	Kind SelectionKind
	Node planar.NodeKey // set when Kind == SelectNode
	Edge planar.EdgeKey // set when Kind == SelectEdge
}

// IsNone reports whether nothing was selected.
func (s Selection) IsNone() bool { return s.Kind == SelectNone }

// PickNode returns the node closest to p among those whose center lies
// strictly within opts.NodeRadius of p.
func PickNode(g *planar.Graph, p geom.Vec2, opts Options) (planar.NodeKey, bool) {
	k, _, ok := pickNode(g, p, opts.withDefaults())
	return k, ok
}

// PickEdge returns the edge with the smallest perpendicular offset from p
// among those within opts.EdgeThickness of p whose segment p projects onto.
func PickEdge(g *planar.Graph, p geom.Vec2, opts Options) (planar.EdgeKey, bool) {
	k, _, ok := pickEdge(g, p, opts.withDefaults())
	return k, ok
}

// Pick resolves p to a node, an edge, or nothing. See the package
// documentation for the tie-break between a node and an edge.
func Pick(g *planar.Graph, p geom.Vec2, opts Options) Selection {
	opts = opts.withDefaults()
	nk, nodeDist, nodeOK := pickNode(g, p, opts)
	ek, edgeOffset, edgeOK := pickEdge(g, p, opts)

	switch {
	case nodeOK && edgeOK:
		if nodeDist < edgeOffset || nodeDist < opts.NodeWinsRadius {
			return Selection{Kind: SelectNode, Node: nk}
		}
		return Selection{Kind: SelectEdge, Edge: ek}
	case nodeOK:
		return Selection{Kind: SelectNode, Node: nk}
	case edgeOK:
		return Selection{Kind: SelectEdge, Edge: ek}
	default:
		return Selection{}
	}
}

// pickNode returns the winning node and its distance to p.
func pickNode(g *planar.Graph, p geom.Vec2, opts Options) (planar.NodeKey, float32, bool) {
	r2 := opts.NodeRadius * opts.NodeRadius
	var (
		best    planar.NodeKey
		bestD   float32
		bestPos geom.Vec2
		found   bool
	)
	for k, n := range g.Nodes() {
		d := geom.Dist2(p, n.Position())
		if d >= r2 {
			continue
		}
		if !found || d < bestD {
			best, bestD, bestPos, found = k, d, n.Position(), true
		}
	}
	if !found {
		return planar.NodeKey{}, 0, false
	}
	return best, geom.Dist(p, bestPos), true
}

// pickEdge returns the winning edge and the magnitude of its perpendicular
// offset from p.
func pickEdge(g *planar.Graph, p geom.Vec2, opts Options) (planar.EdgeKey, float32, bool) {
	var (
		best  planar.EdgeKey
		bestO float32
		found bool
	)
	for k, e := range g.Edges() {
		s := geom.ProjectOnSegment(p, e.P1(), e.P2())
		if !s.OnSegment() {
			continue
		}
		off := abs(s.Offset)
		if off > opts.EdgeThickness {
			continue
		}
		if !found || off < bestO {
			best, bestO, found = k, off, true
		}
	}
	return best, bestO, found
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
