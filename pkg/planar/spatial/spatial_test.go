package spatial

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/planar"
)

func TestNearestNode(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	g.AddNode(geom.V(5, 0))
	c := g.AddNode(geom.V(1, 1))

	got, err := NearestNode(g, a)
	if err != nil {
		t.Fatalf("NearestNode: %v", err)
	}
	if got != c {
		t.Errorf("NearestNode(a) = %s, want %s", got, c)
	}
}

func TestNearestNodeTieGoesToArenaOrder(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(1, 0))
	g.AddNode(geom.V(-1, 0))

	got, err := NearestNode(g, a)
	if err != nil {
		t.Fatalf("NearestNode: %v", err)
	}
	if got != b {
		t.Errorf("NearestNode(a) = %s, want %s", got, b)
	}
}

func TestNearestNodeAlone(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))

	got, err := NearestNode(g, a)
	if err != nil {
		t.Fatalf("NearestNode: %v", err)
	}
	if !got.IsNil() {
		t.Errorf("NearestNode on single node = %s, want nil key", got)
	}
}

func TestNearestNodeStale(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	g.AddNode(geom.V(1, 0))
	if err := g.RemoveNode(a); err != nil {
		t.Fatal(err)
	}

	if _, err := NearestNode(g, a); !errors.Is(err, planar.ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestNodesInAnnulus(t *testing.T) {
	g := planar.New()
	center := g.AddNode(geom.V(0, 0))
	d1 := g.AddNode(geom.V(1, 0))
	d3 := g.AddNode(geom.V(3, 0))
	d5 := g.AddNode(geom.V(0, 5))
	g.AddNode(geom.V(0, 0)) // coincident

	tests := []struct {
		name       string
		minR, maxR float32
		want       []planar.NodeKey
	}{
		{"bounds are exclusive", 1, 5, []planar.NodeKey{d3}},
		{"zero inner radius skips coincident", 0, 10, []planar.NodeKey{d1, d3, d5}},
		{"empty ring", 3, 3, nil},
		{"nothing far enough", 6, 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NodesInAnnulus(g, center, tt.minR, tt.maxR)
			if err != nil {
				t.Fatalf("NodesInAnnulus: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodesInAnnulusStale(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	g.Clear()
	if _, err := NodesInAnnulus(g, a, 0, 1); !errors.Is(err, planar.ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestPickNode(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(12, 0))
	opts := DefaultOptions()

	tests := []struct {
		name   string
		p      geom.Vec2
		want   planar.NodeKey
		wantOK bool
	}{
		{"center", geom.V(0, 0), a, true},
		{"inside radius", geom.V(-9, 0), a, true},
		{"radius is exclusive", geom.V(-10, 0), planar.NodeKey{}, false},
		{"closest wins", geom.V(7, 0), b, true},
		{"far away", geom.V(100, 100), planar.NodeKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickNode(g, tt.p, opts)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PickNode(%v) = %s, %v; want %s, %v", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPickEdge(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(100, 0))
	c := g.AddNode(geom.V(0, 10))
	d := g.AddNode(geom.V(100, 10))
	low, _ := g.AddEdge(a, b)
	high, _ := g.AddEdge(c, d)
	opts := DefaultOptions()

	tests := []struct {
		name   string
		p      geom.Vec2
		want   planar.EdgeKey
		wantOK bool
	}{
		{"on the line", geom.V(50, 0), low, true},
		{"within thickness", geom.V(50, -3), low, true},
		{"smallest offset wins", geom.V(50, 6), high, true},
		{"before the segment", geom.V(-2, 0), planar.EdgeKey{}, false},
		{"past the segment", geom.V(101, 0), planar.EdgeKey{}, false},
		{"too far from both", geom.V(50, 30), planar.EdgeKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickEdge(g, tt.p, opts)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PickEdge(%v) = %s, %v; want %s, %v", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPick(t *testing.T) {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(100, 0))
	e, _ := g.AddEdge(a, b)
	opts := DefaultOptions()

	tests := []struct {
		name string
		p    geom.Vec2
		want Selection
	}{
		{"node center beats edge", geom.V(0, 0), Selection{Kind: SelectNode, Node: a}},
		{"inside node-wins radius", geom.V(2, 0), Selection{Kind: SelectNode, Node: a}},
		{"edge closer than node", geom.V(8, 1), Selection{Kind: SelectEdge, Edge: e}},
		{"node only", geom.V(7, 7), Selection{Kind: SelectNode, Node: a}},
		{"edge only", geom.V(50, 2), Selection{Kind: SelectEdge, Edge: e}},
		{"nothing", geom.V(50, 50), Selection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(g, tt.p, opts)
			if got != tt.want {
				t.Errorf("Pick(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPickEmptyGraph(t *testing.T) {
	if s := Pick(planar.New(), geom.V(0, 0), Options{}); !s.IsNone() {
		t.Errorf("Pick on empty graph = %v, want none", s.Kind)
	}
}

func TestOptions(t *testing.T) {
	if got := (Options{}).withDefaults(); got != DefaultOptions() {
		t.Errorf("zero Options defaults to %+v, want %+v", got, DefaultOptions())
	}
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"zero", Options{}, false},
		{"negative", Options{EdgeThickness: -1}, true},
		{"wins radius too large", Options{NodeRadius: 4, NodeWinsRadius: 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelectionKindString(t *testing.T) {
	for k, want := range map[SelectionKind]string{SelectNone: "none", SelectNode: "node", SelectEdge: "edge"} {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
