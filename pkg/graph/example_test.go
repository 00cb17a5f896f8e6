package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/planar"
)

func ExampleWriteGraph() {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(3, 4))
	_, _ = g.AddEdge(a, b)

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "x": 0,
	//       "y": 0
	//     },
	//     {
	//       "x": 3,
	//       "y": 4
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": 0,
	//       "to": 1
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	input := `{
		"nodes": [{"x": 0, "y": 0}, {"x": 3, "y": 0}, {"x": 3, "y": 4}],
		"edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2}, {"from": 0, "to": 1}]
	}`

	g, ix, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())

	r, _ := graph.ShortestRoute(g, ix, 0, 2)
	fmt.Println("Route:", r.Nodes, *r.Distance)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Route: [0 1 2] 7
}
