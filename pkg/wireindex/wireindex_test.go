package wireindex

import (
	"testing"

	"github.com/matzehuels/layerstack/pkg/drawing"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// countingSource records how often each layer is read.
type countingSource struct {
	*drawing.Memory
	reads map[string]int
	lists int
}

func newCounting(name string) *countingSource {
	return &countingSource{Memory: drawing.NewMemory(name), reads: map[string]int{}}
}

func (c *countingSource) Layers() ([]string, error) {
	c.lists++
	return c.Memory.Layers()
}

func (c *countingSource) Wires(layer string) ([]geom.Wire, error) {
	c.reads[layer]++
	return c.Memory.Wires(layer)
}

func TestResolve(t *testing.T) {
	master := newCounting("master.dxf")
	master.Add("glass_extents", geom.Rect(0, 0, 10, 10), geom.Rect(0, 0, 2, 2))
	master.Add("unused", geom.Rect(0, 0, 1, 1))
	cluster := newCounting("cluster.dxf")
	cluster.Add("inner_outline_5x5", geom.Rect(0, 0, 8, 8))

	ix, err := Resolve([]drawing.Source{master, cluster}, []string{"glass_extents", "inner_outline_5x5", "glass_extents"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	wires, err := ix.Wires("glass_extents")
	if err != nil {
		t.Fatalf("Wires() error = %v", err)
	}
	if len(wires) != 2 || wires[0].Area() != 100 || wires[1].Area() != 4 {
		t.Errorf("Wires(glass_extents) not in source order: %v", wires)
	}

	if src, _ := ix.Source("inner_outline_5x5"); src != "cluster.dxf" {
		t.Errorf("Source() = %q, want cluster.dxf", src)
	}
	if master.lists != 1 || cluster.lists != 1 {
		t.Errorf("sources listed %d and %d times, want once each", master.lists, cluster.lists)
	}
	if master.reads["glass_extents"] != 1 {
		t.Errorf("glass_extents read %d times, want 1", master.reads["glass_extents"])
	}
	if master.reads["unused"] != 0 {
		t.Error("unrequested layer was imported")
	}
}

func TestResolveAmbiguous(t *testing.T) {
	a := drawing.NewMemory("a.dxf").Add("shared", geom.Rect(0, 0, 1, 1)).Add("only_a", geom.Rect(0, 0, 1, 1))
	b := drawing.NewMemory("b.dxf").Add("shared", geom.Rect(0, 0, 1, 1))
	sources := []drawing.Source{a, b}

	tests := []struct {
		name  string
		names []string
		opts  []Option
		code  errors.Code
	}{
		{"requested duplicate", []string{"shared"}, nil, errors.ErrCodeAmbiguousLayer},
		{"unrequested duplicate", []string{"only_a"}, nil, ""},
		{"strict duplicate", []string{"only_a"}, []Option{Strict()}, errors.ErrCodeAmbiguousLayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(sources, tt.names, tt.opts...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Resolve() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	src := drawing.NewMemory("a.dxf").Add("known", geom.Rect(0, 0, 1, 1))

	ix, err := Resolve([]drawing.Source{src}, []string{"known", "ghost"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := ix.Wires("ghost"); !errors.Is(err, errors.ErrCodeUnknownLayer) {
		t.Errorf("Wires(ghost) error = %v, want UNKNOWN_LAYER", err)
	}
	if m := ix.Missing(); len(m) != 1 || m[0] != "ghost" {
		t.Errorf("Missing() = %v, want [ghost]", m)
	}
	if n := ix.Names(); len(n) != 1 || n[0] != "known" {
		t.Errorf("Names() = %v, want [known]", n)
	}

	_, err = Resolve([]drawing.Source{src}, []string{"ghost"}, RequireAll())
	if !errors.Is(err, errors.ErrCodeUnknownLayer) {
		t.Errorf("Resolve(RequireAll) error = %v, want UNKNOWN_LAYER", err)
	}
}
