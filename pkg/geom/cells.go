package geom

import (
	"math"
	"slices"
	"sort"
)

// Trapezoid is a region between the vertical lines x=X0 and x=X1, bounded
// below and above by straight edges. Bottom and Top hold the edge heights
// at X0 and X1.
type Trapezoid struct {
	X0, X1      float64
	Bottom, Top [2]float64
}

func (t Trapezoid) Area() float64 {
	return ((t.Top[0] - t.Bottom[0]) + (t.Top[1] - t.Bottom[1])) / 2 * (t.X1 - t.X0)
}

// Polygon returns the trapezoid's corners counter-clockwise.
func (t Trapezoid) Polygon() []Vec2 {
	return []Vec2{
		{t.X0, t.Bottom[0]},
		{t.X1, t.Bottom[1]},
		{t.X1, t.Top[1]},
		{t.X0, t.Top[0]},
	}
}

// Cells decomposes the region into disjoint trapezoids whose union is the
// region, ordered by strip then by height. Adjacent trapezoids inside one
// strip are merged.
func (s Sketch) Cells() []Trapezoid {
	if s.root == nil {
		return nil
	}
	segs := s.root.segments(nil)
	segs = slices.DeleteFunc(segs, Segment.vertical)
	sort.Slice(segs, func(i, j int) bool { return segs[i].minX() < segs[j].minX() })

	var (
		out    []Trapezoid
		active []Segment
		col    []edgeSpan
		next   int
	)
	xs := stripBoundaries(segs)
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		xm := (x0 + x1) / 2

		for next < len(segs) && segs[next].minX() < xm {
			active = append(active, segs[next])
			next++
		}
		active = slices.DeleteFunc(active, func(sg Segment) bool { return sg.maxX() <= xm })

		col = col[:0]
		for _, sg := range active {
			col = append(col, edgeSpan{y0: sg.yAt(x0), y1: sg.yAt(x1), ym: sg.yAt(xm)})
		}
		sort.Slice(col, func(a, b int) bool { return col[a].ym < col[b].ym })

		start := -1
		for k := 0; k+1 < len(col); k++ {
			lo, hi := col[k], col[k+1]
			if hi.ym-lo.ym <= Eps {
				continue
			}
			in := s.root.contains(Vec2{xm, (lo.ym + hi.ym) / 2})
			switch {
			case in && start < 0:
				start = k
			case !in && start >= 0:
				out = append(out, trapezoid(x0, x1, col[start], lo))
				start = -1
			}
		}
		if start >= 0 {
			out = append(out, trapezoid(x0, x1, col[start], col[len(col)-1]))
		}
	}
	return out
}

// Area returns the exact area of the region.
func (s Sketch) Area() float64 {
	var a float64
	for _, t := range s.Cells() {
		a += t.Area()
	}
	return a
}

type edgeSpan struct {
	y0, y1, ym float64
}

func trapezoid(x0, x1 float64, lo, hi edgeSpan) Trapezoid {
	return Trapezoid{
		X0: x0, X1: x1,
		Bottom: [2]float64{lo.y0, lo.y1},
		Top:    [2]float64{hi.y0, hi.y1},
	}
}

// stripBoundaries returns every vertex x and every edge-crossing x, sorted
// and merged within Eps. segs must be sorted by minX.
func stripBoundaries(segs []Segment) []float64 {
	xs := make([]float64, 0, 2*len(segs))
	for _, sg := range segs {
		xs = append(xs, sg.A.X, sg.B.X)
	}
	for i, s := range segs {
		for _, o := range segs[i+1:] {
			if o.minX() > s.maxX() {
				break
			}
			if math.Max(s.A.Y, s.B.Y) < math.Min(o.A.Y, o.B.Y) ||
				math.Max(o.A.Y, o.B.Y) < math.Min(s.A.Y, s.B.Y) {
				continue
			}
			if x, ok := crossX(s, o); ok {
				xs = append(xs, x)
			}
		}
	}
	slices.Sort(xs)
	out := xs[:0]
	for _, x := range xs {
		if n := len(out); n > 0 && x-out[n-1] <= Eps {
			continue
		}
		out = append(out, x)
	}
	return out
}
