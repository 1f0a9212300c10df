package drawing

import (
	"fmt"

	"github.com/matzehuels/layerstack/pkg/geom"
)

type path struct {
	seq int
	pts []geom.Vec2
}

func (p path) start() geom.Vec2 { return p.pts[0] }
func (p path) end() geom.Vec2 { return p.pts[len(p.pts)-1] }

func (p path) reversed() path {
	pts := make([]geom.Vec2, len(p.pts))
	for i, v := range p.pts {
		pts[len(pts)-1-i] = v
	}
	return path{seq: p.seq, pts: pts}
}

// chain joins open paths end to end into closed loops. Paths are taken in
// file order and may be reversed to fit. Each loop keeps the sequence
// number of its first path.
func chain(paths []path, tol float64) ([]ordered, error) {
	used := make([]bool, len(paths))
	var out []ordered
	for i := range paths {
		if used[i] {
			continue
		}
		used[i] = true
		cur := path{seq: paths[i].seq, pts: append([]geom.Vec2(nil), paths[i].pts...)}
		for !cur.end().Near(cur.start(), tol) {
			j, next := nextPath(paths, used, cur.end(), tol)
			if j < 0 {
				s := cur.start()
				return nil, fmt.Errorf("open outline starting at (%g, %g)", s.X, s.Y)
			}
			used[j] = true
			cur.pts = append(cur.pts, next.pts[1:]...)
		}
		out = append(out, ordered{seq: cur.seq, wire: geom.NewWire(cur.pts...)})
	}
	return out, nil
}

func nextPath(paths []path, used []bool, at geom.Vec2, tol float64) (int, path) {
	for j, p := range paths {
		if used[j] {
			continue
		}
		if p.start().Near(at, tol) {
			return j, p
		}
		if p.end().Near(at, tol) {
			return j, p.reversed()
		}
	}
	return -1, path{}
}
