package assembly

import (
	"strings"
	"testing"

	"github.com/matzehuels/layerstack/pkg/geom"
)

func slab(name string, t float64) Input {
	return Input{Name: name, Color: "GRAY55", Thickness: t, Solid: geom.Prism(geom.Face(geom.Rect(0, 0, 1, 1)), 0, t)}
}

func zbase(f float64) *float64 { return &f }

func TestPlace(t *testing.T) {
	over := slab("override", 0.5)
	over.ZBase = zbase(10)

	tests := []struct {
		name   string
		layers []Input
		want   []float64
	}{
		{"running sum", []Input{slab("a", 0.75), slab("b", 0.2), slab("c", 0.05)}, []float64{0, 0.75, 0.95}},
		{"override continues", []Input{slab("a", 1), over, slab("c", 1)}, []float64{0, 10, 10.5}},
		{"zero thickness", []Input{slab("a", 0), slab("b", 1)}, []float64{0, 0}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.layers)
			if len(got) != len(tt.want) {
				t.Fatalf("len(Place()) = %d, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Offset != tt.want[i] {
					t.Errorf("layer %d offset = %v, want %v", i, p.Offset, tt.want[i])
				}
				if p.Name != tt.layers[i].Name {
					t.Errorf("layer %d name = %q, want %q", i, p.Name, tt.layers[i].Name)
				}
			}
		})
	}
}

func TestStepPure(t *testing.T) {
	in := slab("a", 2)
	p1, next1 := Step(3, in)
	p2, next2 := Step(3, in)
	if p1.Offset != p2.Offset || next1 != next2 || next1 != 5 {
		t.Errorf("Step() not deterministic: %v/%v vs %v/%v", p1.Offset, next1, p2.Offset, next2)
	}
}

func TestAssemble(t *testing.T) {
	asm := Assemble("stack", Place([]Input{slab("bottom", 1), slab("top", 2)}))

	if asm.Name != "stack" || len(asm.Parts) != 2 {
		t.Fatalf("Assemble() = %+v", asm)
	}
	if asm.Parts[0].Name != "bottom" || asm.Parts[1].Name != "top" {
		t.Errorf("part order = %q, %q", asm.Parts[0].Name, asm.Parts[1].Name)
	}
	lo, hi, _ := asm.Parts[1].Solid.ZRange()
	if lo != 1 || hi != 3 {
		t.Errorf("top ZRange() = %v, %v, want 1, 3", lo, hi)
	}
	if asm.Height() != 3 {
		t.Errorf("Height() = %v, want 3", asm.Height())
	}
	if p, ok := asm.Part("top"); !ok || p.Color != "GRAY55" {
		t.Errorf("Part(top) = %+v, %v", p, ok)
	}
}

func TestScaled(t *testing.T) {
	asm := Assemble("stack", Place([]Input{slab("a", 1), slab("b", 1)})).Scaled(10)
	if asm.Parts[1].Offset != 10 {
		t.Errorf("scaled offset = %v, want 10", asm.Parts[1].Offset)
	}
	if h := asm.Height(); h != 20 {
		t.Errorf("scaled Height() = %v, want 20", h)
	}
}

func TestDigestDeterministic(t *testing.T) {
	build := func() string {
		var b strings.Builder
		Assemble("s", Place([]Input{slab("a", 1), slab("b", 0.5)})).Digest(&b)
		return b.String()
	}
	if a, b := build(), build(); a != b {
		t.Errorf("Digest differs:\n%s\n%s", a, b)
	}
}
