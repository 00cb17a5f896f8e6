package route

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/planar"
)

type square struct {
	g          *planar.Graph
	a, b, c, d planar.NodeKey
	ab, bc     planar.EdgeKey
	ad, dc     planar.EdgeKey
}

// newSquare builds A(0,0) B(3,0) C(3,4) D(0,4) with A→B→C and A→D→C.
func newSquare(t *testing.T) square {
	t.Helper()
	s := square{g: planar.New()}
	s.a = s.g.AddNode(geom.V(0, 0))
	s.b = s.g.AddNode(geom.V(3, 0))
	s.c = s.g.AddNode(geom.V(3, 4))
	s.d = s.g.AddNode(geom.V(0, 4))
	s.ab = mustEdge(t, s.g, s.a, s.b)
	s.bc = mustEdge(t, s.g, s.b, s.c)
	s.ad = mustEdge(t, s.g, s.a, s.d)
	s.dc = mustEdge(t, s.g, s.d, s.c)
	return s
}

func mustEdge(t *testing.T, g *planar.Graph, from, to planar.NodeKey) planar.EdgeKey {
	t.Helper()
	k, err := g.AddEdge(from, to)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return k
}

// checkConnected verifies that r is a chain of live edges from source to
// target whose lengths sum to r.Distance.
func checkConnected(t *testing.T, g *planar.Graph, r Result, source, target planar.NodeKey) {
	t.Helper()
	if len(r.Nodes) == 0 {
		t.Fatal("empty route")
	}
	if r.Nodes[0] != source || r.Nodes[len(r.Nodes)-1] != target {
		t.Fatalf("route runs %s..%s, want %s..%s", r.Nodes[0], r.Nodes[len(r.Nodes)-1], source, target)
	}
	if len(r.Edges) != len(r.Nodes)-1 {
		t.Fatalf("%d edges for %d nodes", len(r.Edges), len(r.Nodes))
	}
	var sum float32
	for i, ek := range r.Edges {
		e, ok := g.Edge(ek)
		if !ok {
			t.Fatalf("edge %s not in graph", ek)
		}
		if e.From() != r.Nodes[i] || e.To() != r.Nodes[i+1] {
			t.Errorf("edge %d runs %s→%s, want %s→%s", i, e.From(), e.To(), r.Nodes[i], r.Nodes[i+1])
		}
		sum += e.Length()
	}
	if !approx(sum, r.Distance) {
		t.Errorf("edge lengths sum to %v, Distance = %v", sum, r.Distance)
	}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestShortestPathSquare(t *testing.T) {
	s := newSquare(t)

	r, err := ShortestPath(s.g, s.a, s.c)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !r.Reachable() {
		t.Fatal("C should be reachable from A")
	}
	// Both routes are 3+4 and 4+3; either tie choice is valid.
	if !approx(r.Distance, 7) {
		t.Errorf("Distance = %v, want 7", r.Distance)
	}
	if r.Hops() != 2 {
		t.Errorf("Hops = %d, want 2", r.Hops())
	}
	checkConnected(t, s.g, r, s.a, s.c)
}

func TestShortestPathUnreachable(t *testing.T) {
	s := newSquare(t)
	if err := s.g.RemoveEdge(s.ab); err != nil {
		t.Fatal(err)
	}
	if err := s.g.RemoveEdge(s.dc); err != nil {
		t.Fatal(err)
	}

	r, err := ShortestPath(s.g, s.a, s.c)
	if err != nil {
		t.Fatalf("unreachable target must not be an error: %v", err)
	}
	if r.Reachable() || len(r.Nodes) != 0 || len(r.Edges) != 0 {
		t.Errorf("got route %v / %v, want empty", r.Nodes, r.Edges)
	}
	if !math.IsInf(float64(r.Distance), 1) {
		t.Errorf("Distance = %v, want +Inf", r.Distance)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	s := newSquare(t)

	r, err := ShortestPath(s.g, s.b, s.b)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !slices.Equal(r.Nodes, []planar.NodeKey{s.b}) {
		t.Errorf("Nodes = %v, want [%s]", r.Nodes, s.b)
	}
	if len(r.Edges) != 0 || r.Distance != 0 {
		t.Errorf("Edges = %v, Distance = %v; want none, 0", r.Edges, r.Distance)
	}
}

func TestShortestPathRespectsDirection(t *testing.T) {
	s := newSquare(t)

	r, err := ShortestPath(s.g, s.c, s.a)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if r.Reachable() {
		t.Errorf("C→A followed edges backwards: %v", r.Nodes)
	}

	// A reciprocal edge opens the way back.
	ca := mustEdge(t, s.g, s.c, s.a)
	r, err = ShortestPath(s.g, s.c, s.a)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !slices.Equal(r.Edges, []planar.EdgeKey{ca}) || !approx(r.Distance, 5) {
		t.Errorf("got %v at %v, want [%s] at 5", r.Edges, r.Distance, ca)
	}
}

func TestShortestPathPicksShorterBranch(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	near := g.AddNode(geom.V(5, 1))
	far := g.AddNode(geom.V(5, 8))
	c := g.AddNode(geom.V(10, 0))
	mustEdge(t, g, a, far)
	mustEdge(t, g, far, c)
	mustEdge(t, g, a, near)
	mustEdge(t, g, near, c)

	r, err := ShortestPath(g, a, c)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if want := []planar.NodeKey{a, near, c}; !slices.Equal(r.Nodes, want) {
		t.Errorf("Nodes = %v, want %v", r.Nodes, want)
	}
	checkConnected(t, g, r, a, c)

	// Dragging the near node away flips the choice.
	if err := g.SetNodePosition(near, geom.V(5, -20)); err != nil {
		t.Fatal(err)
	}
	r, err = ShortestPath(g, a, c)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if want := []planar.NodeKey{a, far, c}; !slices.Equal(r.Nodes, want) {
		t.Errorf("after move Nodes = %v, want %v", r.Nodes, want)
	}
	checkConnected(t, g, r, a, c)
}

func TestShortestPathLongChain(t *testing.T) {
	g := planar.New()
	keys := make([]planar.NodeKey, 50)
	for i := range keys {
		keys[i] = g.AddNode(geom.V(float32(i), 0))
		if i > 0 {
			mustEdge(t, g, keys[i-1], keys[i])
		}
	}

	r, err := ShortestPath(g, keys[0], keys[len(keys)-1])
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !slices.Equal(r.Nodes, keys) {
		t.Error("chain route does not visit every node in order")
	}
	if !approx(r.Distance, 49) {
		t.Errorf("Distance = %v, want 49", r.Distance)
	}
}

func TestShortestPathUnknownNode(t *testing.T) {
	s := newSquare(t)
	stale := s.d
	if err := s.g.RemoveNode(stale); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		source, target planar.NodeKey
	}{
		{"stale source", stale, s.c},
		{"stale target", s.a, stale},
		{"nil key", planar.NodeKey{}, s.a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ShortestPath(s.g, tt.source, tt.target)
			if !errors.Is(err, planar.ErrUnknownNode) {
				t.Errorf("err = %v, want ErrUnknownNode", err)
			}
		})
	}
}
