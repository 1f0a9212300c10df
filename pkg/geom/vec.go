package geom

import "math"

// Eps is the absolute tolerance for coordinate comparisons, in drawing units.
const Eps = 1e-9

// Vec2 is a point or offset in the drawing plane.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }
func (v Vec2) Near(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// Lerp interpolates linearly from v (t=0) to o (t=1).
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Vec3 is a point or offset in model space. Z is the stacking axis.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Mul(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) IsZero() bool { return v == Vec3{} }

// Box is an axis-aligned rectangle. Boxes are closed: points on the edge
// are inside.
type Box struct {
	Min, Max Vec2
}

func (b Box) Width() float64 { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Encloses reports whether o lies entirely within b.
func (b Box) Encloses(o Box) bool {
	return o.Min.X >= b.Min.X-Eps && o.Max.X <= b.Max.X+Eps &&
		o.Min.Y >= b.Min.Y-Eps && o.Max.Y <= b.Max.Y+Eps
}

func (b Box) Union(o Box) Box {
	return Box{
		Min: Vec2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Intersect returns the overlap of two boxes. ok is false when they are
// disjoint.
func (b Box) Intersect(o Box) (r Box, ok bool) {
	r = Box{
		Min: Vec2{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y)},
	}
	return r, r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

func (b Box) Translate(d Vec2) Box { return Box{b.Min.Add(d), b.Max.Add(d)} }
func (b Box) Scale(f float64) Box { return Box{b.Min.Mul(f), b.Max.Mul(f)} }
