package geom

import (
	"math"
	"slices"
)

// Gauss-Legendre nodes and weights on [-1, 1].
var (
	glNodes   = [3]float64{-math.Sqrt(3.0 / 5.0), 0, math.Sqrt(3.0 / 5.0)}
	glWeights = [3]float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0}
)

// slabSubdivisions is the number of quadrature panels per slab whose
// section varies with height.
const slabSubdivisions = 4

// Volume integrates section areas over the solid's height. Slabs between
// consecutive break heights with a constant section contribute area times
// height exactly. Varying slabs use Gauss-Legendre quadrature, which is
// exact for a lone loft since its section area is quadratic in z.
func (s Solid) Volume() float64 {
	lo, hi, ok := s.ZRange()
	if !ok {
		return 0
	}
	zs := s.Breaks()
	vary := s.root.varying()

	var v float64
	for i := 0; i+1 < len(zs); i++ {
		a, b := zs[i], zs[i+1]
		if b <= lo || a >= hi {
			continue
		}
		if !vary {
			v += s.Section((a+b)/2).Area() * (b - a)
			continue
		}
		h := (b - a) / slabSubdivisions
		for p := range slabSubdivisions {
			pa := a + float64(p)*h
			for k, x := range glNodes {
				z := pa + h/2*(1+x)
				v += glWeights[k] * h / 2 * s.Section(z).Area()
			}
		}
	}
	return v
}

// Breaks returns the sorted heights at which the solid changes form.
func (s Solid) Breaks() []float64 {
	if s.root == nil {
		return nil
	}
	zs := s.root.breaks(nil)
	slices.Sort(zs)
	out := zs[:0]
	for _, z := range zs {
		if n := len(out); n > 0 && z-out[n-1] <= Eps {
			continue
		}
		out = append(out, z)
	}
	return out
}
