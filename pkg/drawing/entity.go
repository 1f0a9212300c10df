package drawing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/layerstack/pkg/geom"
)

type entity struct {
	kind     string
	layer    string
	seq      int
	pairs    []pair
	vertices [][]pair
}

func supported(kind string) bool {
	switch kind {
	case "LWPOLYLINE", "POLYLINE", "LINE", "ARC", "CIRCLE", "ELLIPSE", "SPLINE":
		return true
	}
	return false
}

// num returns the first value with the given group code.
func (e entity) num(code int, def float64) (float64, error) {
	return lookup(e.pairs, code, def)
}

func lookup(pairs []pair, code int, def float64) (float64, error) {
	for _, p := range pairs {
		if p.code == code {
			v, err := strconv.ParseFloat(p.value, 64)
			if err != nil {
				return 0, fmt.Errorf("group %d: bad number %q", code, p.value)
			}
			return v, nil
		}
	}
	return def, nil
}

// flatten converts the entity to a point sequence and reports whether
// the sequence is already a closed loop.
func (e entity) flatten(tol float64) ([]geom.Vec2, bool, error) {
	switch e.kind {
	case "LWPOLYLINE":
		flags, err := e.num(70, 0)
		if err != nil {
			return nil, false, err
		}
		verts, err := lwVertices(e.pairs)
		if err != nil {
			return nil, false, err
		}
		closed := int(flags)&1 == 1
		return bulgePolyline(verts, closed, tol), closed, nil

	case "POLYLINE":
		flags, err := e.num(70, 0)
		if err != nil {
			return nil, false, err
		}
		if int(flags)&(16|64) != 0 {
			return nil, false, fmt.Errorf("polygon meshes are not supported")
		}
		verts := make([]bulgeVertex, 0, len(e.vertices))
		for _, vp := range e.vertices {
			var v bulgeVertex
			if v.p.X, err = lookup(vp, 10, 0); err != nil {
				return nil, false, err
			}
			if v.p.Y, err = lookup(vp, 20, 0); err != nil {
				return nil, false, err
			}
			if v.bulge, err = lookup(vp, 42, 0); err != nil {
				return nil, false, err
			}
			verts = append(verts, v)
		}
		closed := int(flags)&1 == 1
		return bulgePolyline(verts, closed, tol), closed, nil

	case "LINE":
		v, err := e.nums(10, 20, 11, 21)
		if err != nil {
			return nil, false, err
		}
		return []geom.Vec2{{X: v[0], Y: v[1]}, {X: v[2], Y: v[3]}}, false, nil

	case "ARC":
		v, err := e.nums(10, 20, 40, 50, 51)
		if err != nil {
			return nil, false, err
		}
		start, end := v[3]*math.Pi/180, v[4]*math.Pi/180
		for end <= start {
			end += 2 * math.Pi
		}
		return arcPoints(geom.Vec2{X: v[0], Y: v[1]}, v[2], start, end-start, tol, true), false, nil

	case "CIRCLE":
		v, err := e.nums(10, 20, 40)
		if err != nil {
			return nil, false, err
		}
		pts := arcPoints(geom.Vec2{X: v[0], Y: v[1]}, v[2], 0, 2*math.Pi, tol, false)
		return pts, true, nil

	case "ELLIPSE":
		return e.ellipse(tol)

	case "SPLINE":
		s, err := parseSpline(e.pairs)
		if err != nil {
			return nil, false, err
		}
		pts, err := s.points(splineSamples(tol))
		if err != nil {
			return nil, false, err
		}
		if n := len(pts); n > 2 && pts[0].Dist(pts[n-1]) <= tol {
			return pts[:n-1], true, nil
		}
		return pts, s.closed, nil
	}
	return nil, false, fmt.Errorf("unsupported entity")
}

func (e entity) nums(codes ...int) ([]float64, error) {
	out := make([]float64, len(codes))
	for i, c := range codes {
		v, err := e.num(c, math.NaN())
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			return nil, fmt.Errorf("missing group %d", c)
		}
		out[i] = v
	}
	return out, nil
}

func (e entity) ellipse(tol float64) ([]geom.Vec2, bool, error) {
	v, err := e.nums(10, 20, 11, 21, 40)
	if err != nil {
		return nil, false, err
	}
	t0, err := e.num(41, 0)
	if err != nil {
		return nil, false, err
	}
	t1, err := e.num(42, 2*math.Pi)
	if err != nil {
		return nil, false, err
	}
	c := geom.Vec2{X: v[0], Y: v[1]}
	major := geom.Vec2{X: v[2], Y: v[3]}
	minor := geom.Vec2{X: -major.Y * v[4], Y: major.X * v[4]}
	for t1 <= t0 {
		t1 += 2 * math.Pi
	}
	full := t1-t0 >= 2*math.Pi-1e-9

	r := math.Hypot(major.X, major.Y)
	n := segmentsFor(r, t1-t0, tol)
	pts := make([]geom.Vec2, 0, n+1)
	last := n
	if full {
		last = n - 1
	}
	for i := 0; i <= last; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(n)
		pts = append(pts, c.Add(major.Mul(math.Cos(t))).Add(minor.Mul(math.Sin(t))))
	}
	return pts, full, nil
}

type bulgeVertex struct {
	p     geom.Vec2
	bulge float64
}

func lwVertices(pairs []pair) ([]bulgeVertex, error) {
	var out []bulgeVertex
	for _, p := range pairs {
		switch p.code {
		case 10, 20, 42:
		default:
			continue
		}
		v, err := strconv.ParseFloat(p.value, 64)
		if err != nil {
			return nil, fmt.Errorf("group %d: bad number %q", p.code, p.value)
		}
		switch p.code {
		case 10:
			out = append(out, bulgeVertex{p: geom.Vec2{X: v}})
		case 20:
			if len(out) > 0 {
				out[len(out)-1].p.Y = v
			}
		case 42:
			if len(out) > 0 {
				out[len(out)-1].bulge = v
			}
		}
	}
	return out, nil
}

// bulgePolyline expands bulged segments into arc points. A bulge is the
// tangent of a quarter of the included angle; positive bulges turn
// counter-clockwise.
func bulgePolyline(verts []bulgeVertex, closed bool, tol float64) []geom.Vec2 {
	var out []geom.Vec2
	for i, v := range verts {
		out = append(out, v.p)
		if v.bulge == 0 {
			continue
		}
		j := i + 1
		if j == len(verts) {
			if !closed {
				continue
			}
			j = 0
		}
		out = append(out, bulgeArc(v.p, verts[j].p, v.bulge, tol)...)
	}
	return out
}

// bulgeArc returns the interior points of the arc from p0 to p1.
func bulgeArc(p0, p1 geom.Vec2, bulge, tol float64) []geom.Vec2 {
	d := p1.Sub(p0)
	if math.Hypot(d.X, d.Y) <= geom.Eps {
		return nil
	}
	mid := p0.Lerp(p1, 0.5)
	h := (1 - bulge*bulge) / (4 * bulge)
	c := mid.Add(geom.Vec2{X: -d.Y * h, Y: d.X * h})
	r := c.Dist(p0)
	start := math.Atan2(p0.Y-c.Y, p0.X-c.X)
	sweep := 4 * math.Atan(bulge)
	pts := arcPoints(c, r, start, sweep, tol, true)
	return pts[1 : len(pts)-1]
}

// arcPoints samples an arc of radius r around c starting at angle start
// and turning by sweep. Endpoints are included when ends is set.
func arcPoints(c geom.Vec2, r, start, sweep, tol float64, ends bool) []geom.Vec2 {
	n := segmentsFor(r, math.Abs(sweep), tol)
	pts := make([]geom.Vec2, 0, n+1)
	last := n - 1
	if ends {
		last = n
	}
	for i := 0; i <= last; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, geom.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return pts
}

// segmentsFor returns how many chords keep the sagitta of an arc within tol.
func segmentsFor(r, sweep, tol float64) int {
	const maxSegments = 4096
	if r <= tol {
		return 4
	}
	step := 2 * math.Acos(1-tol/r)
	n := int(math.Ceil(sweep / step))
	minimum := int(math.Ceil(8 * sweep / (2 * math.Pi)))
	n = max(n, minimum, 2)
	return min(n, maxSegments)
}
