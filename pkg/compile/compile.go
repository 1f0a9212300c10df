// Package compile turns normalized stack specifications into assemblies.
//
// A layer is compiled in layer coordinates: its boundary is extruded over
// [0, thickness], its feature pattern is cut, lofted or angled into the
// slab according to the feature mode, emboss references engrave the top
// face and an optional dent pockets it. [Stack] then places the layers
// bottom to top and collects them into an [assembly.Assembly].
//
// Inputs must have passed [instructions.Normalize]; Stack and Layer do not
// repeat its checks.
package compile

import (
	"fmt"

	"github.com/matzehuels/layerstack/pkg/assembly"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/extrude"
	"github.com/matzehuels/layerstack/pkg/geom"
	"github.com/matzehuels/layerstack/pkg/instructions"
	"github.com/matzehuels/layerstack/pkg/sketch"
)

// Wires looks up resolved wires by drawing-layer name. *wireindex.Index
// implements it.
type Wires interface {
	Wires(name string) ([]geom.Wire, error)
}

// Stack compiles every layer of s and assembles them. In sim mode the
// stack's xyscale applies to drawings and dimensions and its final_scale
// to the finished assembly.
//
// A panic raised while building geometry is returned as a GEOMETRY error
// naming the stack.
func Stack(s instructions.Stack, wires Wires) (asm *assembly.Assembly, err error) {
	defer func() {
		if r := recover(); r != nil {
			asm = nil
			err = errors.New(errors.ErrCodeGeometry, "stack %q: geometry failed: %v", s.Name, r)
		}
	}()

	xy, final := s.Scales()
	inputs := make([]assembly.Input, 0, len(s.Layers))
	for _, l := range s.Layers {
		solid, err := Layer(l, wires, xy)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "stack %q layer %q", s.Name, l.Name)
		}
		in := assembly.Input{
			Name:      l.Name,
			Color:     l.Color,
			Thickness: l.Thickness * xy,
			Solid:     solid,
		}
		if l.ZBase != nil {
			z := *l.ZBase * xy
			in.ZBase = &z
		}
		inputs = append(inputs, in)
	}
	return assembly.Assemble(s.Name, assembly.Place(inputs)).Scaled(final), nil
}

// Layer compiles one layer into a solid over [0, thickness*xy]. Every
// drawing is scaled by xy about the origin before use.
func Layer(l instructions.Layer, wires Wires, xy float64) (geom.Solid, error) {
	c := &layerCompiler{wires: wires, xy: xy, t: l.Thickness * xy}

	var outline []geom.Wire
	for _, r := range l.Boundary {
		ws, err := c.lookup(r.Name)
		if err != nil {
			return geom.Solid{}, err
		}
		outline = append(outline, ws...)
	}
	boundary, err := sketch.ComposeBoundary(outline)
	if err != nil {
		return geom.Solid{}, err
	}

	c.array = make([]geom.Vec3, len(l.Array))
	for i, o := range l.Array {
		c.array[i] = o.Vec().Mul(xy)
	}
	if l.EdgeCase != nil {
		ws, err := c.lookup(l.EdgeCase.Name)
		if err != nil {
			return geom.Solid{}, err
		}
		trim, err := sketch.ComposeTrim(ws)
		if err != nil {
			return geom.Solid{}, err
		}
		c.trim = &trim
	}

	mode, err := extrude.SelectMode(l.Features)
	if err != nil {
		return geom.Solid{}, err
	}
	var cuts, embossed []instructions.LayerRef
	for _, r := range l.Features {
		if r.Kind == instructions.RefEmboss {
			embossed = append(embossed, r)
		} else {
			cuts = append(cuts, r)
		}
	}

	solid := extrude.Extrude(boundary, c.t)
	switch mode {
	case instructions.ModeThroughCut:
		pattern, err := c.pattern(cuts...)
		if err != nil {
			return geom.Solid{}, err
		}
		solid = extrude.CutPattern(solid, pattern, c.t)
	case instructions.ModeLoft:
		if solid, err = c.loft(solid, cuts); err != nil {
			return geom.Solid{}, err
		}
	case instructions.ModeAngled:
		for _, r := range cuts {
			pattern, err := c.pattern(r)
			if err != nil {
				return geom.Solid{}, err
			}
			solid = extrude.AngledCut(solid, pattern, c.t, r.Angle)
		}
	}

	if len(embossed) > 0 {
		pattern, err := c.pattern(embossed...)
		if err != nil {
			return geom.Solid{}, err
		}
		solid = extrude.Emboss(solid, pattern)
	}

	if l.EDMDent != nil && l.EDMDent.Depth != nil {
		pattern, err := c.pattern(l.EDMDent.Ref)
		if err != nil {
			return geom.Solid{}, err
		}
		solid = extrude.Dent(solid, pattern, *l.EDMDent.Depth*xy)
	}
	return solid, nil
}

type layerCompiler struct {
	wires Wires
	xy    float64
	t     float64
	array []geom.Vec3
	trim  *geom.Sketch
}

func (c *layerCompiler) lookup(name string) ([]geom.Wire, error) {
	ws, err := c.wires.Wires(name)
	if err != nil {
		return nil, err
	}
	if c.xy == 1 {
		return ws, nil
	}
	out := make([]geom.Wire, len(ws))
	for i, w := range ws {
		out[i] = w.Scale(c.xy)
	}
	return out, nil
}

// pattern tiles the wires of refs over the array and trims the result.
func (c *layerCompiler) pattern(refs ...instructions.LayerRef) (geom.Sketch, error) {
	features := make([][]geom.Wire, 0, len(refs))
	for _, r := range refs {
		ws, err := c.lookup(r.Name)
		if err != nil {
			return geom.Sketch{}, err
		}
		features = append(features, ws)
	}
	return sketch.ComposeFeaturePattern(geom.Sketch{}, features, c.array, c.trim), nil
}

// loft removes one loft per reference and array offset from prism. The
// trim clips the lofts over the full thickness.
func (c *layerCompiler) loft(prism geom.Solid, refs []instructions.LayerRef) (geom.Solid, error) {
	var cut []geom.Solid
	for _, r := range refs {
		a, err := c.lookup(r.Name)
		if err != nil {
			return geom.Solid{}, err
		}
		b, err := c.lookup(r.Loft)
		if err != nil {
			return geom.Solid{}, err
		}
		l, err := extrude.Loft(a, b, c.t)
		if err != nil {
			return geom.Solid{}, errors.Wrap(errors.ErrCodeGeometry, err, "loft %s", r)
		}
		for _, off := range c.array {
			cut = append(cut, l.Translate(geom.Vec3{X: off.X, Y: off.Y}))
		}
	}
	if len(cut) == 0 {
		return prism, nil
	}
	tool := cut[0].Union(cut[1:]...)
	if c.trim != nil {
		tool = tool.Intersect(geom.Prism(*c.trim, 0, c.t))
	}
	return prism.Subtract(tool), nil
}

// Summary describes a compiled assembly for logs and listings.
func Summary(asm *assembly.Assembly) string {
	return fmt.Sprintf("%s: %d layers, height %g", asm.Name, len(asm.Parts), asm.Height())
}
