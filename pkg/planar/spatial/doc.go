// Package spatial answers geometric questions about a [planar.Graph]:
// which node is nearest to another, which nodes lie inside a ring around a
// node, and which node or edge a 2-D point (typically the mouse cursor)
// selects.
//
// # Picking
//
// [PickNode] selects the closest node whose center lies strictly within
// [Options.NodeRadius] of the point. [PickEdge] selects, among edges whose
// perpendicular distance to the point is at most [Options.EdgeThickness]
// and whose segment the point projects onto (not past either endpoint), the
// one with the smallest perpendicular offset.
//
// [Pick] combines both. When a node and an edge both qualify, the node wins
// if it is closer to the point than the edge's line is, or if it lies within
// [Options.NodeWinsRadius] regardless of the edge. Clicking on a node that
// terminates an edge therefore selects the node, not the edge.
//
// # Complexity
//
// All queries scan the whole graph: O(V) for node queries and O(E) for edge
// queries. They allocate only their result slices.
package spatial
