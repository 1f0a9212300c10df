package geom

import (
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/layerstack/pkg/errors"
)

// Solid is a 3D region built from prisms, lofts and sheared prisms with
// boolean operations, plus any outlines engraved on its faces. The zero
// value is the empty solid.
//
// A solid occupies the half-open height range [lo, hi): the section at a
// prism's top height is empty.
type Solid struct {
	root       vnode
	engravings []Engraving
}

// Engraving is a zero-depth outline marked on a face at height Z.
type Engraving struct {
	Outline Sketch
	Z       float64
}

// WirePair couples the bottom and top wires of a loft. A and B must have
// the same vertex count; vertex i of A is ruled to vertex i of B.
type WirePair struct {
	A, B Wire
}

type vnode interface {
	section(z float64) Sketch
	zrange() (lo, hi float64)
	breaks(dst []float64) []float64
	varying() bool
	bounds() Box
	digest(w io.Writer)
}

// Prism extrudes sk along Z between z0 and z1.
func Prism(sk Sketch, z0, z1 float64) Solid {
	if sk.root == nil || z1-z0 <= Eps {
		return Solid{}
	}
	return Solid{root: &prism{sk: sk, z0: z0, z1: z1}}
}

// Loft rules each pair's bottom wire at z0 to its top wire at z1. The
// section at any height is the union of the interpolated wires.
func Loft(pairs []WirePair, z0, z1 float64) (Solid, error) {
	if z1-z0 <= Eps {
		return Solid{}, nil
	}
	var kept []WirePair
	for i, p := range pairs {
		if p.A.Len() != p.B.Len() {
			return Solid{}, errors.New(errors.ErrCodeGeometry,
				"loft pair %d: bottom wire has %d vertices, top wire has %d", i, p.A.Len(), p.B.Len())
		}
		if p.A.Len() >= 3 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return Solid{}, nil
	}
	l := &loft{pairs: kept, z0: z0, z1: z1}
	l.box = kept[0].A.Bounds()
	for _, p := range kept {
		l.box = l.box.Union(p.A.Bounds()).Union(p.B.Bounds())
	}
	return Solid{root: l}, nil
}

func (s Solid) Union(others ...Solid) Solid {
	out := combineSolids(Union, s, others)
	for _, o := range others {
		out.engravings = append(out.engravings, o.engravings...)
	}
	return out
}

func (s Solid) Subtract(others ...Solid) Solid { return combineSolids(Subtract, s, others) }
func (s Solid) Intersect(others ...Solid) Solid { return combineSolids(Intersect, s, others) }

func combineSolids(op Op, base Solid, others []Solid) Solid {
	out := Solid{engravings: append([]Engraving(nil), base.engravings...)}
	var kids []vnode
	if base.root != nil {
		kids = append(kids, base.root)
	} else if op != Union {
		return out
	}
	for _, o := range others {
		if o.root == nil {
			if op == Intersect {
				return Solid{engravings: out.engravings}
			}
			continue
		}
		kids = append(kids, o.root)
	}
	switch len(kids) {
	case 0:
	case 1:
		out.root = kids[0]
	default:
		out.root = &vop{op: op, kids: kids}
	}
	return out
}

// Shear slants the solid toward +X: the section at height z moves k*z
// along X. A through-cut angled θ from the stacking axis uses k = tan θ.
func (s Solid) Shear(k float64) Solid {
	if s.root == nil || k == 0 {
		return s
	}
	out := Solid{root: &shear{kid: s.root, k: k}}
	for _, e := range s.engravings {
		out.engravings = append(out.engravings, Engraving{Outline: e.Outline.Translate(Vec2{k * e.Z, 0}), Z: e.Z})
	}
	return out
}

func (s Solid) Translate(d Vec3) Solid {
	if s.root == nil || d.IsZero() {
		return s
	}
	out := Solid{root: &moved{kid: s.root, d: d}}
	for _, e := range s.engravings {
		out.engravings = append(out.engravings, Engraving{Outline: e.Outline.Translate(d.XY()), Z: e.Z + d.Z})
	}
	return out
}

// Scale scales the solid uniformly about the origin. f must be positive.
func (s Solid) Scale(f float64) Solid {
	if s.root == nil || f == 1 {
		return s
	}
	out := Solid{root: &scaled{kid: s.root, f: f}}
	for _, e := range s.engravings {
		out.engravings = append(out.engravings, Engraving{Outline: e.Outline.Scale(f), Z: e.Z * f})
	}
	return out
}

// Engrave marks the outline of sk on the face at height z.
func (s Solid) Engrave(sk Sketch, z float64) Solid {
	if sk.root == nil {
		return s
	}
	out := Solid{root: s.root, engravings: append([]Engraving(nil), s.engravings...)}
	out.engravings = append(out.engravings, Engraving{Outline: sk, Z: z})
	return out
}

func (s Solid) Engravings() []Engraving { return s.engravings }

// Section returns the cross-section at height z.
func (s Solid) Section(z float64) Sketch {
	if s.root == nil {
		return Sketch{}
	}
	return s.root.section(z)
}

func (s Solid) Contains(p Vec3) bool {
	return s.Section(p.Z).Contains(p.XY())
}

// ZRange returns the solid's extent along the stacking axis.
func (s Solid) ZRange() (lo, hi float64, ok bool) {
	if s.root == nil {
		return 0, 0, false
	}
	lo, hi = s.root.zrange()
	return lo, hi, hi > lo
}

// Bounds returns a box enclosing every section. It may be loose.
func (s Solid) Bounds() (Box, bool) {
	if s.root == nil {
		return Box{}, false
	}
	return s.root.bounds(), true
}

func (s Solid) IsEmpty() bool {
	return s.root == nil || s.Volume() <= Eps
}

// Digest writes a canonical description of the solid's construction,
// engravings included.
func (s Solid) Digest(w io.Writer) {
	if s.root == nil {
		fmt.Fprint(w, "empty")
	} else {
		s.root.digest(w)
	}
	for _, e := range s.engravings {
		fmt.Fprintf(w, "|engrave@%v:", e.Z)
		e.Outline.Digest(w)
	}
}

type prism struct {
	sk     Sketch
	z0, z1 float64
}

func (p *prism) section(z float64) Sketch {
	if z < p.z0 || z >= p.z1 {
		return Sketch{}
	}
	return p.sk
}

func (p *prism) zrange() (float64, float64) { return p.z0, p.z1 }
func (p *prism) breaks(dst []float64) []float64 { return append(dst, p.z0, p.z1) }
func (p *prism) varying() bool { return false }
func (p *prism) bounds() Box {
	b, _ := p.sk.Bounds()
	return b
}

func (p *prism) digest(w io.Writer) {
	fmt.Fprintf(w, "prism(%v,%v,", p.z0, p.z1)
	p.sk.Digest(w)
	fmt.Fprint(w, ")")
}

type loft struct {
	pairs  []WirePair
	z0, z1 float64
	box    Box
}

func (l *loft) section(z float64) Sketch {
	if z < l.z0 || z >= l.z1 {
		return Sketch{}
	}
	t := (z - l.z0) / (l.z1 - l.z0)
	parts := make([]Sketch, len(l.pairs))
	for i, p := range l.pairs {
		parts[i] = Face(p.A.Lerp(p.B, t))
	}
	return Combine(Union, Sketch{}, parts...)
}

func (l *loft) zrange() (float64, float64) { return l.z0, l.z1 }
func (l *loft) breaks(dst []float64) []float64 { return append(dst, l.z0, l.z1) }
func (l *loft) varying() bool { return true }
func (l *loft) bounds() Box { return l.box }

func (l *loft) digest(w io.Writer) {
	fmt.Fprintf(w, "loft(%v,%v,", l.z0, l.z1)
	for _, p := range l.pairs {
		p.A.digest(w)
		fmt.Fprint(w, "->")
		p.B.digest(w)
	}
	fmt.Fprint(w, ")")
}

type vop struct {
	op   Op
	kids []vnode
}

func (n *vop) section(z float64) Sketch {
	base := n.kids[0].section(z)
	others := make([]Sketch, len(n.kids)-1)
	for i, k := range n.kids[1:] {
		others[i] = k.section(z)
	}
	return Combine(n.op, base, others...)
}

func (n *vop) zrange() (lo, hi float64) {
	lo, hi = n.kids[0].zrange()
	if n.op == Subtract {
		return lo, hi
	}
	for _, k := range n.kids[1:] {
		l, h := k.zrange()
		if n.op == Union {
			lo, hi = math.Min(lo, l), math.Max(hi, h)
		} else {
			lo, hi = math.Max(lo, l), math.Min(hi, h)
		}
	}
	return lo, hi
}

func (n *vop) breaks(dst []float64) []float64 {
	for _, k := range n.kids {
		dst = k.breaks(dst)
	}
	return dst
}

func (n *vop) varying() bool {
	for _, k := range n.kids {
		if k.varying() {
			return true
		}
	}
	return false
}

func (n *vop) bounds() Box {
	b := n.kids[0].bounds()
	if n.op == Union {
		for _, k := range n.kids[1:] {
			b = b.Union(k.bounds())
		}
	}
	return b
}

func (n *vop) digest(w io.Writer) {
	fmt.Fprintf(w, "%s(", n.op)
	for _, k := range n.kids {
		k.digest(w)
		fmt.Fprint(w, ",")
	}
	fmt.Fprint(w, ")")
}

type shear struct {
	kid vnode
	k   float64
}

func (s *shear) section(z float64) Sketch {
	return s.kid.section(z).Translate(Vec2{s.k * z, 0})
}

func (s *shear) zrange() (float64, float64) { return s.kid.zrange() }
func (s *shear) breaks(dst []float64) []float64 { return s.kid.breaks(dst) }
func (s *shear) varying() bool { return true }

func (s *shear) bounds() Box {
	b := s.kid.bounds()
	lo, hi := s.kid.zrange()
	return b.Translate(Vec2{s.k * lo, 0}).Union(b.Translate(Vec2{s.k * hi, 0}))
}

func (s *shear) digest(w io.Writer) {
	fmt.Fprintf(w, "shear(%v,", s.k)
	s.kid.digest(w)
	fmt.Fprint(w, ")")
}

type moved struct {
	kid vnode
	d   Vec3
}

func (m *moved) section(z float64) Sketch {
	return m.kid.section(z - m.d.Z).Translate(m.d.XY())
}

func (m *moved) zrange() (float64, float64) {
	lo, hi := m.kid.zrange()
	return lo + m.d.Z, hi + m.d.Z
}

func (m *moved) breaks(dst []float64) []float64 {
	n := len(dst)
	dst = m.kid.breaks(dst)
	for i := n; i < len(dst); i++ {
		dst[i] += m.d.Z
	}
	return dst
}

func (m *moved) varying() bool { return m.kid.varying() }
func (m *moved) bounds() Box { return m.kid.bounds().Translate(m.d.XY()) }

func (m *moved) digest(w io.Writer) {
	fmt.Fprintf(w, "move(%v,%v,%v,", m.d.X, m.d.Y, m.d.Z)
	m.kid.digest(w)
	fmt.Fprint(w, ")")
}

type scaled struct {
	kid vnode
	f   float64
}

func (s *scaled) section(z float64) Sketch {
	return s.kid.section(z / s.f).Scale(s.f)
}

func (s *scaled) zrange() (float64, float64) {
	lo, hi := s.kid.zrange()
	return lo * s.f, hi * s.f
}

func (s *scaled) breaks(dst []float64) []float64 {
	n := len(dst)
	dst = s.kid.breaks(dst)
	for i := n; i < len(dst); i++ {
		dst[i] *= s.f
	}
	return dst
}

func (s *scaled) varying() bool { return s.kid.varying() }
func (s *scaled) bounds() Box { return s.kid.bounds().Scale(s.f) }

func (s *scaled) digest(w io.Writer) {
	fmt.Fprintf(w, "scale(%v,", s.f)
	s.kid.digest(w)
	fmt.Fprint(w, ")")
}
