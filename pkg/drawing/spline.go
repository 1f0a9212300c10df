package drawing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// maxSplinePoints caps the samples taken from one spline.
const maxSplinePoints = 4096

type spline struct {
	degree  int
	closed  bool
	knots   []float64
	weights []float64
	control []geom.Vec2
	fit     []geom.Vec2
}

func parseSpline(pairs []pair) (spline, error) {
	s := spline{degree: 3}
	for _, p := range pairs {
		switch p.code {
		case 10, 20, 11, 21, 40, 41, 70, 71:
		default:
			continue
		}
		v, err := strconv.ParseFloat(p.value, 64)
		if err != nil {
			return s, fmt.Errorf("group %d: bad number %q", p.code, p.value)
		}
		switch p.code {
		case 10:
			s.control = append(s.control, geom.Vec2{X: v})
		case 20:
			if len(s.control) > 0 {
				s.control[len(s.control)-1].Y = v
			}
		case 11:
			s.fit = append(s.fit, geom.Vec2{X: v})
		case 21:
			if len(s.fit) > 0 {
				s.fit[len(s.fit)-1].Y = v
			}
		case 40:
			s.knots = append(s.knots, v)
		case 41:
			s.weights = append(s.weights, v)
		case 70:
			// Bit 1 is closed, bit 2 periodic.
			s.closed = int(v)&(1|2) != 0
		case 71:
			s.degree = int(v)
		}
	}
	return s, nil
}

// points samples the curve. Splines carrying a valid knot vector are
// evaluated exactly; otherwise the fit points are joined by straight
// segments.
func (s spline) points(samplesPerSpan int) ([]geom.Vec2, error) {
	n, p := len(s.control), s.degree
	if p >= 1 && n > p && len(s.knots) == n+p+1 {
		if len(s.weights) != 0 && len(s.weights) != n {
			return nil, fmt.Errorf("spline has %d weights for %d control points", len(s.weights), n)
		}
		return s.evaluate(samplesPerSpan), nil
	}
	if len(s.fit) >= 2 {
		return append([]geom.Vec2(nil), s.fit...), nil
	}
	return nil, fmt.Errorf("spline needs %d knots for %d control points of degree %d, or fit points", n+p+1, n, p)
}

func (s spline) evaluate(samplesPerSpan int) []geom.Vec2 {
	n, p := len(s.control), s.degree
	if p == 1 {
		samplesPerSpan = 1
	}
	spans := 0
	for k := p; k < n; k++ {
		if s.knots[k+1] > s.knots[k] {
			spans++
		}
	}
	if spans == 0 {
		return nil
	}
	samplesPerSpan = max(1, min(samplesPerSpan, maxSplinePoints/spans))

	var pts []geom.Vec2
	for k := p; k < n; k++ {
		u0, u1 := s.knots[k], s.knots[k+1]
		if u1 <= u0 {
			continue
		}
		for i := 0; i < samplesPerSpan; i++ {
			u := u0 + (u1-u0)*float64(i)/float64(samplesPerSpan)
			pts = append(pts, s.deBoor(k, u))
		}
	}
	return append(pts, s.deBoor(n-1, s.knots[n]))
}

// deBoor evaluates the rational curve at u inside knot span k.
func (s spline) deBoor(k int, u float64) geom.Vec2 {
	p := s.degree
	d := make([][3]float64, p+1)
	for j := 0; j <= p; j++ {
		i := j + k - p
		w := 1.0
		if len(s.weights) > 0 {
			w = s.weights[i]
		}
		d[j] = [3]float64{s.control[i].X * w, s.control[i].Y * w, w}
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			lo, hi := s.knots[j+k-p], s.knots[j+1+k-r]
			alpha := 0.0
			if hi > lo {
				alpha = (u - lo) / (hi - lo)
			}
			for c := range 3 {
				d[j][c] = (1-alpha)*d[j-1][c] + alpha*d[j][c]
			}
		}
	}
	if d[p][2] == 0 {
		return geom.Vec2{X: d[p][0], Y: d[p][1]}
	}
	return geom.Vec2{X: d[p][0] / d[p][2], Y: d[p][1] / d[p][2]}
}

// splineSamples picks the samples per knot span from the chord tolerance.
func splineSamples(tol float64) int {
	if tol <= 0 {
		return 64
	}
	return max(8, min(64, int(math.Ceil(0.5/math.Sqrt(tol)))))
}
