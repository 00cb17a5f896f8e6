package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/routeboard/pkg/graph"
)

func board() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 40}},
		Edges: []graph.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 0, To: 2}},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(board(), Options{})

	for _, want := range []string{
		"digraph G",
		`n0 [pos="0,0!", label="0"]`,
		`n2 [pos="30,-40!", label="2"]`,
		"n0 -> n1;",
		"n1 -> n2;",
		"n0 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Scale(t *testing.T) {
	dot := ToDOT(board(), Options{Scale: 0.5, HideLabels: true})
	if !strings.Contains(dot, `n2 [pos="15,-20!", label=""]`) {
		t.Errorf("scaled output wrong:\n%s", dot)
	}
}

func TestToDOT_Route(t *testing.T) {
	d := float32(70)
	r := &graph.Route{
		From: 0, To: 2,
		Nodes:     []int{0, 1, 2},
		Edges:     []graph.Edge{{From: 0, To: 1}, {From: 1, To: 2}},
		Distance:  &d,
		Reachable: true,
	}
	dot := ToDOT(board(), Options{Route: r})

	for _, want := range []string{
		`fillcolor="` + colorStart + `"`,
		`fillcolor="` + colorFinish + `"`,
		`fillcolor="` + colorRoute + `"`,
		`n0 -> n1 [color="` + colorRoute + `", penwidth=3];`,
		`n1 -> n2 [color="` + colorRoute + `", penwidth=3];`,
		"n0 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() route output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_UnreachableRoute(t *testing.T) {
	r := &graph.Route{From: 2, To: 0}
	dot := ToDOT(board(), Options{Route: r})
	if strings.Contains(dot, "penwidth") {
		t.Error("unreachable route should not highlight edges")
	}
	if !strings.Contains(dot, `n2 [pos="30,-40!", label="2", fillcolor="`+colorStart+`"]`) {
		t.Errorf("start node not coloured:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="10" height="20"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
