// Package pkg provides the core libraries for Layerstack.
//
// # Overview
//
// Layerstack compiles declarative layer-stack instructions and 2D vector
// drawings into stacked 3D assemblies: every layer is a planar sketch
// extruded to its thickness, shaped by a feature pattern, and placed on top
// of the layer below it.
//
// # Architecture
//
// The data flow through a build:
//
//	Instruction file (TOML/YAML/JSON/CUE)      DXF drawings
//	         ↓                                      ↓
//	    [instructions] (load, validate,        [drawing] (named layers
//	     normalize)                              of closed wires)
//	         ↓                                      ↓
//	         └──────────→ [wireindex] ←─────────────┘
//	                  (resolve names once)
//	                          ↓
//	    [compile] (per layer: [sketch] → [extrude], per stack: [assembly])
//	                          ↓
//	    [export] (JSON manifest, SVG, DXF, PNG, PDF; build plan graph)
//
// [pipeline] drives the whole flow on a bounded worker pool and routes
// exports through [cache].
//
// # Quick Start
//
//	file, _ := instructions.Load("masks.toml")
//	src, _ := drawing.OpenDXF("master.dxf")
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Build(ctx, file, []drawing.Source{src}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, asm := range res.Assemblies {
//	    arts, _, _ := runner.Export(ctx, asm, []string{"json", "svg"}, false)
//	    pipeline.WriteArtifacts("out", asm.Name, arts)
//	}
//
// # Main Packages
//
// ## Geometry
//
// [geom] - The planar and solid kernel: wires, CSG sketches, prisms, lofts,
// sheared cuts, exact sections and volumes.
//
// [sketch] - Boundary, feature pattern and edge-case trim regions from
// resolved wires.
//
// [extrude] - Feature modes (through-cut, loft, angled), embossing and dents.
//
// [assembly] - Z placement of layers and the resulting assembly.
//
// ## Inputs
//
// [instructions] - Stack and layer specifications, schema validation and
// normalization.
//
// [drawing] - Drawing sources: DXF files and in-memory sources.
//
// [wireindex] - One-shot resolution of drawing layer names across sources.
//
// ## Orchestration and Output
//
// [compile] - Layer and stack compilation.
//
// [pipeline] - Build, export and plan, with per-stack failure isolation.
//
// [export] - Artifact renderers and the build plan graph.
//
// [cache] - Artifact cache backends: file, Redis, MongoDB.
//
// ## Support
//
// [errors] - Structured error codes.
//
// [observability] - Build, export and cache hooks.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./...                                       # All tests
//	LAYERSTACK_TEST_REDIS=redis://localhost:6379/15 \
//	    go test ./pkg/cache/...                         # Include Redis backend
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/geom
// [sketch]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/sketch
// [extrude]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/extrude
// [assembly]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/assembly
// [instructions]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/instructions
// [drawing]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/drawing
// [wireindex]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/wireindex
// [compile]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/compile
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/pipeline
// [export]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/export
// [cache]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/layerstack/pkg/buildinfo
package pkg
