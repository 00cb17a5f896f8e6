package route_test

import (
	"fmt"

	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/planar"
	"github.com/matzehuels/routeboard/pkg/planar/route"
)

func ExampleShortestPath() {
	g := planar.New()
	a := g.AddNode(geom.V(0, 0))
	b := g.AddNode(geom.V(3, 0))
	c := g.AddNode(geom.V(3, 4))
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	r, _ := route.ShortestPath(g, a, c)
	fmt.Println("Hops:", r.Hops())
	fmt.Println("Distance:", r.Distance)

	r, _ = route.ShortestPath(g, c, a)
	fmt.Println("Reachable:", r.Reachable())
	// Output:
	// Hops: 2
	// Distance: 7
	// Reachable: false
}
