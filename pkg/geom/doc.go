// Package geom is the reference CAD kernel used by the layer-stack compiler.
//
// It models exactly the shape family the compiler needs and nothing more:
//
//   - [Wire]: a closed planar polygon read from a drawing layer.
//   - [Sketch]: a 2D region expressed as a boolean tree of wire faces
//     combined with [Union], [Subtract] and [Intersect].
//   - [Solid]: a 3D region expressed as a boolean tree of prisms, lofts
//     and sheared prisms, plus zero-depth [Engraving] outlines.
//
// Nothing is ever tessellated or clipped eagerly. Membership is answered by
// walking the tree with bounding-box pruning and an even-odd point test.
// Areas are exact for polygonal input: [Sketch.Cells] splits the plane into
// vertical strips at every vertex and every edge crossing, so each strip
// cuts the region into trapezoids whose membership is constant.
// Volumes integrate section areas slab by slab between the heights where
// the solid changes form.
//
// All values are immutable. Every operation returns a new value and shares
// structure with its inputs, so sketches and solids may be read from many
// goroutines at once.
package geom
