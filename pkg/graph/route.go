package graph

import (
	"fmt"

	"github.com/matzehuels/routeboard/pkg/planar"
	"github.com/matzehuels/routeboard/pkg/planar/route"
)

// Route is the serialization format for a shortest-path result.
// Nodes and edge endpoints are document node indices.
//
// Distance is omitted when the target is unreachable, since JSON has no
// representation for infinity.
type Route struct {
	From      int      `json:"from" toml:"from" bson:"from"`
	To        int      `json:"to" toml:"to" bson:"to"`
	Nodes     []int    `json:"nodes" toml:"nodes" bson:"nodes"`
	Edges     []Edge   `json:"edges" toml:"edges" bson:"edges"`
	Distance  *float32 `json:"distance,omitempty" toml:"distance,omitempty" bson:"distance,omitempty"`
	Reachable bool     `json:"reachable" toml:"reachable" bson:"reachable"`
}

// NewRoute converts a shortest-path result between the nodes at document
// positions from and to into its serialization format.
func NewRoute(g *planar.Graph, ix *Index, from, to int, r route.Result) (Route, error) {
	out := Route{
		From:  from,
		To:    to,
		Nodes: make([]int, 0, len(r.Nodes)),
		Edges: make([]Edge, 0, len(r.Edges)),
	}
	if !r.Reachable() {
		return out, nil
	}
	for _, k := range r.Nodes {
		i, ok := ix.Of(k)
		if !ok {
			return Route{}, fmt.Errorf("route node %s: %w", k, planar.ErrUnknownNode)
		}
		out.Nodes = append(out.Nodes, i)
	}
	for _, k := range r.Edges {
		e, err := g.LookupEdge(k)
		if err != nil {
			return Route{}, err
		}
		fi, fok := ix.Of(e.From())
		ti, tok := ix.Of(e.To())
		if !fok || !tok {
			return Route{}, fmt.Errorf("route edge %s: %w", k, planar.ErrUnknownNode)
		}
		out.Edges = append(out.Edges, Edge{From: fi, To: ti})
	}
	d := r.Distance
	out.Distance = &d
	out.Reachable = true
	return out, nil
}

// ShortestRoute resolves two document positions, runs the shortest-path
// search and returns its serialization format.
func ShortestRoute(g *planar.Graph, ix *Index, from, to int) (Route, error) {
	src, err := ix.MustKey(from)
	if err != nil {
		return Route{}, err
	}
	dst, err := ix.MustKey(to)
	if err != nil {
		return Route{}, err
	}
	r, err := route.ShortestPath(g, src, dst)
	if err != nil {
		return Route{}, err
	}
	return NewRoute(g, ix, from, to, r)
}
