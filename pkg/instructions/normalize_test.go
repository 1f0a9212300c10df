package instructions

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/layerstack/pkg/errors"
)

func ptr(f float64) *float64 { return &f }

func plate(name string, features ...LayerRef) Layer {
	return Layer{Name: name, Thickness: 1, Boundary: []LayerRef{Name("outline")}, Features: features}
}

func TestFeatureMode(t *testing.T) {
	tests := []struct {
		name     string
		features []LayerRef
		want     Mode
		code     errors.Code
	}{
		{"none", nil, ModeSolid, ""},
		{"emboss only", []LayerRef{Emboss("logo")}, ModeSolid, ""},
		{"names", []LayerRef{Name("a"), Name("b"), Emboss("logo")}, ModeThroughCut, ""},
		{"lofts", []LayerRef{LoftPair("a", "b"), LoftPair("c", "d")}, ModeLoft, ""},
		{"angles", []LayerRef{Angled("a", 10), Angled("b", -5)}, ModeAngled, ""},
		{"name and loft", []LayerRef{Name("a"), LoftPair("b", "c")}, ModeThroughCut, errors.ErrCodeMixedMode},
		{"angle and name", []LayerRef{Angled("a", 10), Name("b")}, ModeAngled, errors.ErrCodeMixedMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FeatureMode(tt.features)
			if errors.GetCode(err) != tt.code {
				t.Fatalf("FeatureMode() error = %v, want code %q", err, tt.code)
			}
			if got != tt.want {
				t.Errorf("FeatureMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	in := Stack{Name: "s", Layers: []Layer{
		{Name: "legacy", Thickness: 1, DrawingLayerNames: []LayerRef{Name("outline"), Name("holes"), Name("more")}},
		plate("gridded", Name("holes")),
	}}
	in.Layers[1].Grid = &Grid{Pitch: 10, NX: 2, NY: 1}

	out, warns, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("warnings = %v, want none", warns)
	}

	legacy := out.Layers[0]
	if !reflect.DeepEqual(legacy.Boundary, []LayerRef{Name("outline")}) {
		t.Errorf("Boundary = %v", legacy.Boundary)
	}
	if !reflect.DeepEqual(legacy.Features, []LayerRef{Name("holes"), Name("more")}) {
		t.Errorf("Features = %v", legacy.Features)
	}
	if legacy.DrawingLayerNames != nil {
		t.Errorf("DrawingLayerNames not cleared: %v", legacy.DrawingLayerNames)
	}
	if !reflect.DeepEqual(legacy.Array, []Offset{{}}) {
		t.Errorf("default Array = %v, want [(0,0,0)]", legacy.Array)
	}

	if want := []Offset{{X: -5}, {X: 5}}; !reflect.DeepEqual(out.Layers[1].Array, want) {
		t.Errorf("grid Array = %v, want %v", out.Layers[1].Array, want)
	}

	if in.Layers[0].Boundary != nil || in.Layers[1].Array != nil {
		t.Error("Normalize mutated its input")
	}
}

func TestNormalizeErrors(t *testing.T) {
	dent := plate("dented")
	dent.EDMDent = &Dent{Ref: Name("marks")}

	negative := plate("negative")
	negative.Thickness = -0.1

	both := plate("both")
	both.DrawingLayerNames = []LayerRef{Name("outline")}

	gridAndArray := plate("grid_and_array", Name("holes"))
	gridAndArray.Grid = &Grid{Pitch: 1, NX: 1, NY: 1}
	gridAndArray.Array = []Offset{{}}

	negDent := plate("neg_dent")
	negDent.EDMDent = &Dent{Ref: Name("marks"), Depth: ptr(-1)}

	tests := []struct {
		name  string
		layer Layer
		code  errors.Code
	}{
		{"dent without depth", dent, errors.ErrCodeMissingDentDepth},
		{"mixed modes", plate("mixed", Name("a"), LoftPair("b", "c")), errors.ErrCodeMixedMode},
		{"negative thickness", negative, errors.ErrCodeInvalidInput},
		{"no boundary", Layer{Name: "bare", Thickness: 1}, errors.ErrCodeEmptyBoundary},
		{"legacy and explicit", both, errors.ErrCodeInvalidInput},
		{"angled boundary", Layer{Name: "ab", Thickness: 1, Boundary: []LayerRef{Angled("outline", 5)}}, errors.ErrCodeInvalidInput},
		{"grid and array", gridAndArray, errors.ErrCodeInvalidInput},
		{"negative dent", negDent, errors.ErrCodeInvalidInput},
		{"steep angle", plate("steep", Angled("slots", 90)), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(Stack{Name: "s", Layers: []Layer{tt.layer}})
			if !errors.Is(err, tt.code) {
				t.Errorf("Normalize() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, _, err := Normalize(Stack{Name: "s", Layers: []Layer{plate("twice"), plate("twice")}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate layer error = %v, want INVALID_INPUT", err)
	}
}

func TestNormalizeDentDepth(t *testing.T) {
	l := plate("dented")
	l.EDMDent = &Dent{Ref: Name("marks")}
	l.EDMDentDepth = ptr(0.1)

	out, _, err := Normalize(Stack{Name: "s", Layers: []Layer{l}})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	got := out.Layers[0].EDMDent
	if got == nil || got.Depth == nil || *got.Depth != 0.1 {
		t.Errorf("EDMDent = %+v, want depth 0.1", got)
	}
}

func TestNormalizeWarnings(t *testing.T) {
	trimmed := plate("trimmed", Name("holes"))
	trimmed.EdgeCase = &LayerRef{Kind: RefName, Name: "trim"}

	arrayOnly := plate("array_only")
	arrayOnly.Array = []Offset{{X: 1}, {X: 2}}

	in := Stack{Name: "s", XYScale: ptr(2), Layers: []Layer{trimmed, arrayOnly}}
	out, warns, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(warns) != 3 {
		t.Fatalf("warnings = %v, want 3", warns)
	}
	want := []string{"sim_mode", "edge_case", "array has no effect"}
	for i, w := range want {
		if !strings.Contains(warns[i].Message, w) {
			t.Errorf("warning %d = %q, want mention of %q", i, warns[i].Message, w)
		}
	}
	if out.XYScale != nil {
		t.Error("xyscale kept on a stack outside sim_mode")
	}
	if xy, final := out.Scales(); xy != 1 || final != 1 {
		t.Errorf("Scales() = %v, %v, want 1, 1", xy, final)
	}
	if warns[1].String() != "s/trimmed: "+warns[1].Message {
		t.Errorf("Warning.String() = %q", warns[1].String())
	}
}

func TestStackScales(t *testing.T) {
	s := Stack{Name: "sim", SimMode: true, XYScale: ptr(1e-3), FinalScale: ptr(10)}
	if xy, final := s.Scales(); xy != 1e-3 || final != 10 {
		t.Errorf("Scales() = %v, %v, want 0.001, 10", xy, final)
	}
}
