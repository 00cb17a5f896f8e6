package route

import (
	"container/heap"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/routeboard/pkg/planar"
)

// Unreachable is the distance reported when no route exists.
var Unreachable = float32(math.Inf(1))

// Result is a shortest route between two nodes.
//
// For a reachable target, Nodes runs from source to target and Edges holds
// the len(Nodes)-1 edges between consecutive nodes. A route from a node to
// itself has one node, no edges and zero distance.
type Result struct {
	Nodes    []planar.NodeKey
	Edges    []planar.EdgeKey
	Distance float32
}

// Reachable reports whether the result describes an actual route.
func (r Result) Reachable() bool { return len(r.Nodes) > 0 }

// Hops returns the number of edges in the route.
func (r Result) Hops() int { return len(r.Edges) }

// ShortestPath returns the minimum-length route from source to target.
// Returns planar.ErrUnknownNode if either key is stale.
func ShortestPath(g *planar.Graph, source, target planar.NodeKey) (Result, error) {
	if !g.HasNode(source) {
		return Result{}, fmt.Errorf("route source %s: %w", source, planar.ErrUnknownNode)
	}
	if !g.HasNode(target) {
		return Result{}, fmt.Errorf("route target %s: %w", target, planar.ErrUnknownNode)
	}
	if source == target {
		return Result{Nodes: []planar.NodeKey{source}}, nil
	}

	dist := map[planar.NodeKey]float32{source: 0}
	prev := make(map[planar.NodeKey]step)
	done := make(map[planar.NodeKey]bool)

	pq := &queue{{node: source}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if done[cur.node] {
			continue
		}
		done[cur.node] = true
		if cur.node == target {
			break
		}
		g.ForEachTail(cur.node, func(ek planar.EdgeKey, e *planar.Edge) bool {
			next := e.To()
			if done[next] {
				return true
			}
			d := cur.dist + e.Length()
			if old, seen := dist[next]; !seen || d < old {
				dist[next] = d
				prev[next] = step{from: cur.node, edge: ek}
				heap.Push(pq, item{node: next, dist: d})
			}
			return true
		})
	}

	if !done[target] {
		return Result{Distance: Unreachable}, nil
	}
	return backtrack(prev, source, target, dist[target]), nil
}

type step struct {
	from planar.NodeKey
	edge planar.EdgeKey
}

func backtrack(prev map[planar.NodeKey]step, source, target planar.NodeKey, d float32) Result {
	nodes := []planar.NodeKey{target}
	var edges []planar.EdgeKey
	for cur := target; cur != source; {
		s := prev[cur]
		edges = append(edges, s.edge)
		nodes = append(nodes, s.from)
		cur = s.from
	}
	slices.Reverse(nodes)
	slices.Reverse(edges)
	return Result{Nodes: nodes, Edges: edges, Distance: d}
}

// ===== priority queue =====

type item struct {
	node planar.NodeKey
	dist float32
}

type queue []item

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
