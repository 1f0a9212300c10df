// Package sketch composes layer cross-sections from resolved wires.
//
// A layer's cross-section has two parts. The boundary is the silhouette
// of the layer: its first wire is the outer face and every further wire
// cuts a hole. The feature pattern is the union of every feature wire
// placed at every array offset, optionally clipped to an edge-case trim
// so tiled copies cannot bleed into neighbouring cells.
//
// All functions are pure; inputs are never modified.
package sketch

import (
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// ComposeBoundary builds the boundary region: wires[0] minus every later
// wire. An empty wire set is an EMPTY_BOUNDARY error.
func ComposeBoundary(wires []geom.Wire) (geom.Sketch, error) {
	if len(wires) == 0 {
		return geom.Sketch{}, errors.New(errors.ErrCodeEmptyBoundary, "boundary has no wires")
	}
	holes := make([]geom.Sketch, 0, len(wires)-1)
	for _, w := range wires[1:] {
		holes = append(holes, geom.Face(w))
	}
	return geom.Face(wires[0]).Subtract(holes...), nil
}

// ComposeTrim builds an edge-case trim region. Wires are ordered outermost
// first and combined by nesting parity, so holes inside the trim outline
// are respected and every disjoint wire group takes part.
func ComposeTrim(wires []geom.Wire) (geom.Sketch, error) {
	if len(wires) == 0 {
		return geom.Sketch{}, errors.New(errors.ErrCodeEmptyBoundary, "edge case has no wires")
	}
	return geom.NestedFaces(wires), nil
}

// Placements returns one face per feature wire per array offset, feature
// layer by feature layer. Offsets move copies within the drawing plane;
// their Z component does not apply to a cross-section.
func Placements(features [][]geom.Wire, array []geom.Vec3) []geom.Sketch {
	var out []geom.Sketch
	for _, layer := range features {
		for _, w := range layer {
			f := geom.Face(w)
			for _, off := range array {
				out = append(out, f.Translate(off.XY()))
			}
		}
	}
	return out
}

// ComposeFeaturePattern unions every placement into base and, when trim is
// set, intersects the result with it. Exactly overlapping copies merge.
// A trim that excludes everything gives an empty sketch, not an error.
func ComposeFeaturePattern(base geom.Sketch, features [][]geom.Wire, array []geom.Vec3, trim *geom.Sketch) geom.Sketch {
	pattern := base.Union(Placements(features, array)...)
	if trim == nil {
		return pattern
	}
	return pattern.Intersect(*trim)
}
