// Package extrude turns layer cross-sections into solids.
//
// Every layer starts as its boundary extruded over [0, thickness] in layer
// coordinates; the stack assembler moves it into place afterwards. Feature
// patterns then shape the slab in exactly one of three ways, chosen by
// [SelectMode]: a straight through-cut, a loft between paired
// cross-sections, or a cut projected at an angle. Emboss references only
// engrave the top face, and a dent removes a shallow pocket from it.
package extrude

import (
	"math"

	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
	"github.com/matzehuels/layerstack/pkg/instructions"
)

// Mode is a layer's feature mode.
type Mode = instructions.Mode

// SelectMode picks the feature mode from a layer's feature references.
// Emboss references are ignored; mixing the other kinds is a MIXED_MODE
// error.
func SelectMode(features []instructions.LayerRef) (Mode, error) {
	return instructions.FeatureMode(features)
}

// Extrude returns the boundary prism over [0, thickness].
func Extrude(boundary geom.Sketch, thickness float64) geom.Solid {
	return geom.Prism(boundary, 0, thickness)
}

// CutPattern removes the pattern through the full thickness, leaving
// openings that run from the top face to the bottom face.
func CutPattern(prism geom.Solid, pattern geom.Sketch, thickness float64) geom.Solid {
	return prism.Subtract(geom.Prism(pattern, 0, thickness))
}

// Emboss engraves the pattern outline on the prism's top face.
func Emboss(prism geom.Solid, pattern geom.Sketch) geom.Solid {
	_, top, ok := prism.ZRange()
	if !ok {
		return prism
	}
	return prism.Engrave(pattern, top)
}

// Loft rules a[i] at the bottom face to b[i] at the top face for every i.
// The wire lists must have the same length and each pair the same vertex
// count.
func Loft(a, b []geom.Wire, thickness float64) (geom.Solid, error) {
	if len(a) != len(b) {
		return geom.Solid{}, errors.New(errors.ErrCodeGeometry,
			"loft needs paired wires: bottom has %d, top has %d", len(a), len(b))
	}
	pairs := make([]geom.WirePair, len(a))
	for i := range a {
		pairs[i] = geom.WirePair{A: a[i], B: b[i]}
	}
	return geom.Loft(pairs, 0, thickness)
}

// AngledCut removes the pattern projected along a direction tilted
// angleDeg from the stacking axis toward +X. The pattern sits where it is
// drawn on the top face and drifts by tan(angleDeg) per unit depth below
// it.
func AngledCut(prism geom.Solid, pattern geom.Sketch, thickness, angleDeg float64) geom.Solid {
	k := math.Tan(angleDeg * math.Pi / 180)
	cut := geom.Prism(pattern, 0, thickness).
		Shear(k).
		Translate(geom.Vec3{X: -k * thickness})
	return prism.Subtract(cut)
}

// Dent removes a pocket of the given depth below the solid's top face.
func Dent(solid geom.Solid, sk geom.Sketch, depth float64) geom.Solid {
	_, top, ok := solid.ZRange()
	if !ok || depth <= 0 {
		return solid
	}
	return solid.Subtract(geom.Prism(sk, top-depth, top))
}
