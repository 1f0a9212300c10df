// Package assembly stacks layer solids along the Z axis and collects them
// into named assemblies.
package assembly

import (
	"fmt"
	"io"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// Input is one built layer in layer coordinates, its base at z=0.
type Input struct {
	Name      string
	Color     string
	Thickness float64
	Solid     geom.Solid
	// ZBase overrides the running offset for this layer.
	ZBase *float64
}

// Placement is an Input with its resolved base height.
type Placement struct {
	Input
	Offset float64
}

// Step places one layer given the running offset and returns the offset
// for the next layer. An explicit ZBase wins, and stacking continues from
// the top of the overridden layer.
func Step(offset float64, in Input) (Placement, float64) {
	base := offset
	if in.ZBase != nil {
		base = *in.ZBase
	}
	return Placement{Input: in, Offset: base}, base + in.Thickness
}

// Place folds Step over layers bottom to top, starting at zero.
func Place(layers []Input) []Placement {
	out := make([]Placement, 0, len(layers))
	offset := 0.0
	for _, l := range layers {
		var p Placement
		p, offset = Step(offset, l)
		out = append(out, p)
	}
	return out
}

// Part is a placed, tagged solid. Color is an opaque label.
type Part struct {
	Name      string
	Color     string
	Offset    float64
	Thickness float64
	Solid     geom.Solid
}

// Assembly is the ordered set of parts of one stack.
type Assembly struct {
	Name  string
	Parts []Part
}

// Assemble moves every placed solid to its offset and tags it. Part order
// is placement order.
func Assemble(name string, placements []Placement) *Assembly {
	a := &Assembly{Name: name, Parts: make([]Part, 0, len(placements))}
	for _, p := range placements {
		a.Parts = append(a.Parts, Part{
			Name:      p.Name,
			Color:     p.Color,
			Offset:    p.Offset,
			Thickness: p.Thickness,
			Solid:     p.Solid.Translate(geom.Vec3{Z: p.Offset}),
		})
	}
	return a
}

// Scaled returns a copy with every part scaled uniformly about the origin.
func (a *Assembly) Scaled(f float64) *Assembly {
	if f == 1 {
		return a
	}
	out := &Assembly{Name: a.Name, Parts: make([]Part, len(a.Parts))}
	for i, p := range a.Parts {
		p.Offset *= f
		p.Thickness *= f
		p.Solid = p.Solid.Scale(f)
		out.Parts[i] = p
	}
	return out
}

// Part looks up a part by name.
func (a *Assembly) Part(name string) (Part, bool) {
	for _, p := range a.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Height returns the top of the highest part.
func (a *Assembly) Height() float64 {
	var h float64
	for _, p := range a.Parts {
		if _, hi, ok := p.Solid.ZRange(); ok && hi > h {
			h = hi
		}
	}
	return h
}

// Digest writes a canonical description of the assembly. Two assemblies
// with equal digests have the same parts in the same order with identical
// geometry.
func (a *Assembly) Digest(w io.Writer) {
	fmt.Fprintf(w, "assembly %q\n", a.Name)
	for _, p := range a.Parts {
		fmt.Fprintf(w, "part %q %q %v %v ", p.Name, p.Color, p.Offset, p.Thickness)
		p.Solid.Digest(w)
		fmt.Fprintln(w)
	}
}
