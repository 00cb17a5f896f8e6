// Package geom provides the small amount of 2-D vector math used by the
// planar graph engine.
//
// All coordinates are float32, matching the precision of the screen-space
// positions produced by the interactive editor that drives the engine.
package geom

import "math"

// Vec2 is a point or displacement in the plane.
type Vec2 struct {
	X float32 `json:"x" toml:"x" bson:"x"`
	Y float32 `json:"y" toml:"y" bson:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float32 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z component of the 3-D cross product of v and w.
// Its sign tells on which side of v the vector w lies.
func (v Vec2) Cross(w Vec2) float32 { return v.X*w.Y - v.Y*w.X }

// Len2 returns the squared length of v.
func (v Vec2) Len2() float32 { return v.Dot(v) }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 { return float32(math.Sqrt(float64(v.Len2()))) }

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	x, y := float64(v.X), float64(v.Y)
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// Dist2 returns the squared Euclidean distance between a and b.
func Dist2(a, b Vec2) float32 { return b.Sub(a).Len2() }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float32 { return b.Sub(a).Len() }

// SegmentOffset describes where p lies relative to the segment a→b.
//
// Along is the signed distance of p's projection from a, measured along
// the segment direction; the projection lies on the segment when
// 0 <= Along <= Length. Offset is the signed perpendicular distance of p
// from the infinite line through a and b (positive to the left of a→b).
// For a degenerate segment (a == b) Length is zero, Along is zero and
// Offset is the plain distance from a.
type SegmentOffset struct {
	Along  float32
	Offset float32
	Length float32
}

// OnSegment reports whether the projection of the point falls within the
// segment, endpoints included.
func (s SegmentOffset) OnSegment() bool {
	return s.Along >= 0 && s.Along <= s.Length
}

// ProjectOnSegment computes the SegmentOffset of p relative to a→b.
func ProjectOnSegment(p, a, b Vec2) SegmentOffset {
	d := b.Sub(a)
	length := d.Len()
	if length == 0 {
		return SegmentOffset{Offset: Dist(a, p)}
	}
	dir := d.Scale(1 / length)
	ap := p.Sub(a)
	return SegmentOffset{
		Along:  ap.Dot(dir),
		Offset: dir.Cross(ap),
		Length: length,
	}
}
