package geom

import (
	"fmt"
	"io"
)

// Op is a boolean sketch or solid operation.
type Op int

const (
	Union Op = iota + 1
	Subtract
	Intersect
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Subtract:
		return "subtract"
	case Intersect:
		return "intersect"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Sketch is a planar region. The zero value is the empty region.
type Sketch struct {
	root snode
}

type snode interface {
	contains(p Vec2) bool
	bounds() Box
	segments(dst []Segment) []Segment
	transform(s float64, d Vec2) snode
	digest(w io.Writer)
}

// Face returns the region enclosed by w. Degenerate wires give an empty
// sketch.
func Face(w Wire) Sketch {
	if len(w.Points) < 3 {
		return Sketch{}
	}
	return Sketch{root: &face{w: w, box: w.Bounds()}}
}

// Faces returns the union of the faces of ws.
func Faces(ws ...Wire) Sketch {
	parts := make([]Sketch, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, Face(w))
	}
	return Combine(Union, Sketch{}, parts...)
}

// Combine applies op to base and others, left to right. Subtract removes
// every other from base. Intersect keeps what base shares with all others.
func Combine(op Op, base Sketch, others ...Sketch) Sketch {
	switch op {
	case Union:
		var kids []snode
		for _, s := range append([]Sketch{base}, others...) {
			switch n := s.root.(type) {
			case nil:
			case *opNode:
				if n.op == Union {
					kids = append(kids, n.kids...)
					continue
				}
				kids = append(kids, n)
			default:
				kids = append(kids, n)
			}
		}
		return newOp(Union, kids)

	case Subtract:
		if base.root == nil {
			return Sketch{}
		}
		bb := base.root.bounds()
		kids := []snode{base.root}
		if n, ok := base.root.(*opNode); ok && n.op == Subtract {
			kids = append([]snode(nil), n.kids...)
		}
		for _, s := range others {
			if s.root == nil {
				continue
			}
			if _, ok := bb.Intersect(s.root.bounds()); !ok {
				continue
			}
			kids = append(kids, s.root)
		}
		return newOp(Subtract, kids)

	case Intersect:
		if base.root == nil {
			return Sketch{}
		}
		kids := []snode{base.root}
		bb := base.root.bounds()
		for _, s := range others {
			if s.root == nil {
				return Sketch{}
			}
			var ok bool
			if bb, ok = bb.Intersect(s.root.bounds()); !ok {
				return Sketch{}
			}
			kids = append(kids, s.root)
		}
		return newOp(Intersect, kids)
	}
	panic(fmt.Sprintf("geom: unknown op %v", op))
}

func (s Sketch) Union(others ...Sketch) Sketch { return Combine(Union, s, others...) }
func (s Sketch) Subtract(others ...Sketch) Sketch { return Combine(Subtract, s, others...) }
func (s Sketch) Intersect(others ...Sketch) Sketch { return Combine(Intersect, s, others...) }

// Translate moves the region by d.
func (s Sketch) Translate(d Vec2) Sketch {
	if s.root == nil || d == (Vec2{}) {
		return s
	}
	return Sketch{root: s.root.transform(1, d)}
}

// Scale scales the region about the origin. f must be positive.
func (s Sketch) Scale(f float64) Sketch {
	if s.root == nil || f == 1 {
		return s
	}
	return Sketch{root: s.root.transform(f, Vec2{})}
}

// Contains reports whether p lies inside the region.
func (s Sketch) Contains(p Vec2) bool {
	return s.root != nil && s.root.contains(p)
}

// Bounds returns a box enclosing the region. It may be loose after
// subtraction or intersection. ok is false for a structurally empty sketch.
func (s Sketch) Bounds() (b Box, ok bool) {
	if s.root == nil {
		return Box{}, false
	}
	return s.root.bounds(), true
}

// IsEmpty reports whether the region has no area.
func (s Sketch) IsEmpty() bool {
	return s.root == nil || s.Area() <= Eps
}

// Digest writes a canonical description of the region's construction.
// Equal digests imply identical regions.
func (s Sketch) Digest(w io.Writer) {
	if s.root == nil {
		fmt.Fprint(w, "empty")
		return
	}
	s.root.digest(w)
}

type face struct {
	w   Wire
	box Box
}

func (f *face) contains(p Vec2) bool {
	return f.box.Contains(p) && f.w.Contains(p)
}

func (f *face) bounds() Box { return f.box }

func (f *face) segments(dst []Segment) []Segment {
	return f.w.appendSegments(dst)
}

func (f *face) transform(s float64, d Vec2) snode {
	w := f.w.mapPoints(func(p Vec2) Vec2 { return p.Mul(s).Add(d) })
	return &face{w: w, box: w.Bounds()}
}

func (f *face) digest(w io.Writer) {
	fmt.Fprint(w, "face")
	f.w.digest(w)
}

type opNode struct {
	op   Op
	kids []snode
	box  Box
}

func newOp(op Op, kids []snode) Sketch {
	switch len(kids) {
	case 0:
		return Sketch{}
	case 1:
		return Sketch{root: kids[0]}
	}
	n := &opNode{op: op, kids: kids, box: kids[0].bounds()}
	for _, k := range kids[1:] {
		switch op {
		case Union:
			n.box = n.box.Union(k.bounds())
		case Intersect:
			n.box, _ = n.box.Intersect(k.bounds())
		}
	}
	return Sketch{root: n}
}

func (n *opNode) contains(p Vec2) bool {
	if !n.box.Contains(p) {
		return false
	}
	switch n.op {
	case Union:
		for _, k := range n.kids {
			if k.contains(p) {
				return true
			}
		}
		return false
	case Subtract:
		if !n.kids[0].contains(p) {
			return false
		}
		for _, k := range n.kids[1:] {
			if k.contains(p) {
				return false
			}
		}
		return true
	default:
		for _, k := range n.kids {
			if !k.contains(p) {
				return false
			}
		}
		return true
	}
}

func (n *opNode) bounds() Box { return n.box }

func (n *opNode) segments(dst []Segment) []Segment {
	for _, k := range n.kids {
		dst = k.segments(dst)
	}
	return dst
}

func (n *opNode) transform(s float64, d Vec2) snode {
	kids := make([]snode, len(n.kids))
	for i, k := range n.kids {
		kids[i] = k.transform(s, d)
	}
	return &opNode{op: n.op, kids: kids, box: n.box.Scale(s).Translate(d)}
}

func (n *opNode) digest(w io.Writer) {
	fmt.Fprintf(w, "%s(", n.op)
	for _, k := range n.kids {
		k.digest(w)
		fmt.Fprint(w, ",")
	}
	fmt.Fprint(w, ")")
}
