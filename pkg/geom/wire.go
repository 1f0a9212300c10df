package geom

import (
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/layerstack/pkg/errors"
)

// Wire is a closed planar outline. The closing edge from the last point back
// to the first is implicit.
type Wire struct {
	Points []Vec2
}

// NewWire builds a wire from a point loop, dropping repeated consecutive
// points and an explicit closing point.
func NewWire(pts ...Vec2) Wire {
	out := make([]Vec2, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Near(p, Eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Near(out[0], Eps) {
		out = out[:len(out)-1]
	}
	return Wire{Points: out}
}

// Rect returns an axis-aligned rectangle of size w×h centered on (cx, cy),
// wound counter-clockwise.
func Rect(cx, cy, w, h float64) Wire {
	hw, hh := w/2, h/2
	return Wire{Points: []Vec2{
		{cx - hw, cy - hh},
		{cx + hw, cy - hh},
		{cx + hw, cy + hh},
		{cx - hw, cy + hh},
	}}
}

// Circle approximates a circle by a regular polygon with n vertices.
func Circle(c Vec2, r float64, n int) Wire {
	if n < 3 {
		n = 3
	}
	pts := make([]Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec2{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return Wire{Points: pts}
}

func (w Wire) Len() int { return len(w.Points) }

// Validate reports whether the wire encloses a region.
func (w Wire) Validate() error {
	if len(w.Points) < 3 {
		return errors.New(errors.ErrCodeGeometry, "wire has %d points, need at least 3", len(w.Points))
	}
	if w.Area() <= Eps*Eps {
		return errors.New(errors.ErrCodeGeometry, "wire encloses no area")
	}
	return nil
}

// SignedArea is positive for counter-clockwise wires.
func (w Wire) SignedArea() float64 {
	var a float64
	n := len(w.Points)
	for i := range n {
		p, q := w.Points[i], w.Points[(i+1)%n]
		a += p.Cross(q)
	}
	return a / 2
}

func (w Wire) Area() float64 { return math.Abs(w.SignedArea()) }

func (w Wire) Bounds() Box {
	if len(w.Points) == 0 {
		return Box{}
	}
	b := Box{Min: w.Points[0], Max: w.Points[0]}
	for _, p := range w.Points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Contains reports whether p lies inside the wire by the even-odd rule.
// Edges count as crossed when exactly one endpoint lies strictly above p,
// so a point on a shared edge belongs to exactly one of two abutting faces.
func (w Wire) Contains(p Vec2) bool {
	in := false
	n := len(w.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := w.Points[i], w.Points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

func (w Wire) Translate(d Vec2) Wire {
	return w.mapPoints(func(p Vec2) Vec2 { return p.Add(d) })
}

func (w Wire) Scale(f float64) Wire {
	return w.mapPoints(func(p Vec2) Vec2 { return p.Mul(f) })
}

// Reverse flips the winding direction.
func (w Wire) Reverse() Wire {
	pts := make([]Vec2, len(w.Points))
	for i, p := range w.Points {
		pts[len(pts)-1-i] = p
	}
	return Wire{Points: pts}
}

// Lerp interpolates every vertex from w (t=0) to o (t=1). Both wires must
// have the same vertex count.
func (w Wire) Lerp(o Wire, t float64) Wire {
	pts := make([]Vec2, len(w.Points))
	for i := range pts {
		pts[i] = w.Points[i].Lerp(o.Points[i], t)
	}
	return Wire{Points: pts}
}

func (w Wire) mapPoints(f func(Vec2) Vec2) Wire {
	pts := make([]Vec2, len(w.Points))
	for i, p := range w.Points {
		pts[i] = f(p)
	}
	return Wire{Points: pts}
}

func (w Wire) appendSegments(dst []Segment) []Segment {
	n := len(w.Points)
	for i := range n {
		dst = append(dst, Segment{w.Points[i], w.Points[(i+1)%n]})
	}
	return dst
}

func (w Wire) digest(out io.Writer) {
	fmt.Fprint(out, "[")
	for _, p := range w.Points {
		fmt.Fprintf(out, "%v,%v;", p.X, p.Y)
	}
	fmt.Fprint(out, "]")
}

// Segment is a straight edge from A to B.
type Segment struct {
	A, B Vec2
}

func (s Segment) minX() float64 { return math.Min(s.A.X, s.B.X) }
func (s Segment) maxX() float64 { return math.Max(s.A.X, s.B.X) }

func (s Segment) vertical() bool { return math.Abs(s.B.X-s.A.X) <= Eps }

// yAt evaluates the supporting line of a non-vertical segment at x.
func (s Segment) yAt(x float64) float64 {
	t := (x - s.A.X) / (s.B.X - s.A.X)
	return s.A.Y + t*(s.B.Y-s.A.Y)
}

// crossX returns the x coordinate where two segments cross, if they do.
// Parallel segments report no crossing; their overlaps begin and end at
// vertices, which are already strip boundaries.
func crossX(s, o Segment) (float64, bool) {
	r := s.B.Sub(s.A)
	q := o.B.Sub(o.A)
	den := r.Cross(q)
	if math.Abs(den) <= Eps*Eps {
		return 0, false
	}
	d := o.A.Sub(s.A)
	t := d.Cross(q) / den
	u := d.Cross(r) / den
	if t < -Eps || t > 1+Eps || u < -Eps || u > 1+Eps {
		return 0, false
	}
	return s.A.X + t*r.X, true
}
