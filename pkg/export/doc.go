// Package export renders assemblies into files.
//
// An assembly becomes one JSON manifest plus, per part, a flattened
// drawing of the part's midplane section in any of the 2D formats:
//
//   - svg: filled section, engravings overlaid
//   - dxf: closed polylines on a layer named after the part
//   - png: rasterized with gogpu/gg
//   - pdf: converted from the SVG with rsvg-convert
//
// [PlanDOT] and [PlanSVG] render the build plan of an instruction file (stacks, layers,
// drawing layers and their sources) as Graphviz DOT or SVG.
//
// Solid-model formats (STEP, BREP, STL) are not produced.
package export
