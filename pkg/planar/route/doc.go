// Package route computes weighted shortest paths over a [planar.Graph].
//
// Edge weights are the Euclidean lengths of the edge segments, so the
// distance of a route is the sum of the lengths of the edges it traverses.
// Edges are followed only in their stored direction, from a node along its
// outgoing (tail) edges.
//
// [ShortestPath] runs Dijkstra's algorithm with a binary heap and returns a
// [Result] holding both the node sequence and the edge sequence of the
// route. When the target cannot be reached the result has empty sequences
// and an infinite distance; see [Result.Reachable].
package route
