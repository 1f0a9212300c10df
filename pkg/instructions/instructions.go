// Package instructions defines stack and layer specifications, loads them
// from instruction files, and normalizes them for the compiler.
//
// Instruction files may be TOML, YAML, JSON or CUE. Whatever the syntax,
// the document is validated against an embedded CUE schema and decoded
// through it, so every format accepts exactly the same shapes:
//
//	[[stacks]]
//	name = "active_mask_stack"
//
//	[[stacks.layers]]
//	name      = "active_support"
//	color     = "GOLDENROD"
//	thickness = 0.75
//	boundary  = ["glass_extents"]
//	features  = ["aggressive_support_active"]
//	grid      = { pitch = 30, nx = 5, ny = 5 }
//	edge_case = "inner_outline_5x5"
//
// Specifications are plain values. [Normalize] returns a new stack and
// never mutates its input.
package instructions

import (
	"fmt"
	"strings"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// File is a decoded instruction file.
type File struct {
	Stacks []Stack `json:"stacks"`
}

// Stack looks up a stack by name.
func (f *File) Stack(name string) (Stack, bool) {
	for _, s := range f.Stacks {
		if s.Name == name {
			return s, true
		}
	}
	return Stack{}, false
}

// Names lists stack names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Stacks))
	for i, s := range f.Stacks {
		out[i] = s.Name
	}
	return out
}

// Stack is one physical assembly: layers stacked bottom to top in order.
type Stack struct {
	Name       string   `json:"name"`
	Layers     []Layer  `json:"layers"`
	XYScale    *float64 `json:"xyscale,omitempty"`
	FinalScale *float64 `json:"final_scale,omitempty"`
	SimMode    bool     `json:"sim_mode,omitempty"`
}

// Scales returns the effective drawing-plane and final scale factors.
// Both are 1 unless the stack is in sim mode.
func (s Stack) Scales() (xy, final float64) {
	xy, final = 1, 1
	if !s.SimMode {
		return xy, final
	}
	if s.XYScale != nil {
		xy = *s.XYScale
	}
	if s.FinalScale != nil {
		final = *s.FinalScale
	}
	return xy, final
}

// DrawingLayers returns every drawing-layer name the stack references, in
// first-use order.
func (s Stack) DrawingLayers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, l := range s.Layers {
		for _, n := range l.DrawingLayers() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Layer is one slab of a stack.
type Layer struct {
	Name      string  `json:"name"`
	Color     string  `json:"color,omitempty"`
	Thickness float64 `json:"thickness"`

	// Boundary wires define the outer silhouette. Features are patterned,
	// tiled and cut into it.
	Boundary []LayerRef `json:"boundary,omitempty"`
	Features []LayerRef `json:"features,omitempty"`

	// DrawingLayerNames is the positional form: element 0 is the boundary,
	// the rest are features. Normalize splits it.
	DrawingLayerNames []LayerRef `json:"drawing_layer_names,omitempty"`

	Array        []Offset  `json:"array,omitempty"`
	Grid         *Grid     `json:"grid,omitempty"`
	EdgeCase     *LayerRef `json:"edge_case,omitempty"`
	ZBase        *float64  `json:"z_base,omitempty"`
	EDMDent      *Dent     `json:"edm_dent,omitempty"`
	EDMDentDepth *float64  `json:"edm_dent_depth,omitempty"`
}

// DrawingLayers returns the drawing-layer names this layer references.
func (l Layer) DrawingLayers() []string {
	var out []string
	add := func(refs ...LayerRef) {
		for _, r := range refs {
			out = append(out, r.Names()...)
		}
	}
	add(l.DrawingLayerNames...)
	add(l.Boundary...)
	add(l.Features...)
	if l.EdgeCase != nil {
		add(*l.EdgeCase)
	}
	if l.EDMDent != nil {
		add(l.EDMDent.Ref)
	}
	return out
}

// Offset is an array placement offset.
type Offset geom.Vec3

func (o Offset) Vec() geom.Vec3 { return geom.Vec3(o) }

// Grid is shorthand for a centered rectangular array: NX by NY cells at
// Pitch spacing (PitchY along Y when set).
type Grid struct {
	Pitch  float64 `json:"pitch"`
	NX     int     `json:"nx"`
	NY     int     `json:"ny"`
	PitchY float64 `json:"pitch_y,omitempty"`
}

// Offsets expands the grid into offsets (i - (n-1)/2) * pitch, X-major.
func (g Grid) Offsets() []Offset {
	py := g.PitchY
	if py == 0 {
		py = g.Pitch
	}
	out := make([]Offset, 0, g.NX*g.NY)
	for i := range g.NX {
		for j := range g.NY {
			out = append(out, Offset{
				X: (float64(i) - float64(g.NX-1)/2) * g.Pitch,
				Y: (float64(j) - float64(g.NY-1)/2) * py,
			})
		}
	}
	return out
}

// Dent is a shallow secondary cut from the top face.
type Dent struct {
	Ref   LayerRef
	Depth *float64
}

// RefKind tags the variant held by a LayerRef.
type RefKind int

const (
	// RefName cuts through (features) or outlines (boundary, trims).
	RefName RefKind = iota
	// RefAngled cuts along a direction tilted Angle degrees toward +X.
	RefAngled
	// RefLoft lofts from Name at the bottom face to Loft at the top face.
	RefLoft
	// RefEmboss engraves the outline on the top face without cutting.
	RefEmboss
)

func (k RefKind) String() string {
	switch k {
	case RefName:
		return "name"
	case RefAngled:
		return "angled"
	case RefLoft:
		return "loft"
	case RefEmboss:
		return "emboss"
	}
	return fmt.Sprintf("RefKind(%d)", int(k))
}

// LayerRef is a reference to one or two drawing layers.
type LayerRef struct {
	Kind  RefKind
	Name  string
	Angle float64
	Loft  string
}

func Name(n string) LayerRef { return LayerRef{Kind: RefName, Name: n} }
func Angled(n string, deg float64) LayerRef { return LayerRef{Kind: RefAngled, Name: n, Angle: deg} }
func LoftPair(a, b string) LayerRef { return LayerRef{Kind: RefLoft, Name: a, Loft: b} }
func Emboss(n string) LayerRef { return LayerRef{Kind: RefEmboss, Name: n} }

// Names returns the drawing layers the reference reads.
func (r LayerRef) Names() []string {
	if r.Kind == RefLoft {
		return []string{r.Name, r.Loft}
	}
	return []string{r.Name}
}

func (r LayerRef) String() string {
	switch r.Kind {
	case RefAngled:
		return fmt.Sprintf("%s@%g°", r.Name, r.Angle)
	case RefLoft:
		return r.Name + "->" + r.Loft
	case RefEmboss:
		return r.Name + "(emboss)"
	}
	return r.Name
}

// Warning is a non-fatal normalization finding.
type Warning struct {
	Stack   string
	Layer   string
	Message string
}

func (w Warning) String() string {
	parts := []string{w.Stack}
	if w.Layer != "" {
		parts = append(parts, w.Layer)
	}
	return strings.Join(parts, "/") + ": " + w.Message
}
