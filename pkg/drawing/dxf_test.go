package drawing

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// dxfDoc assembles an ENTITIES-only DXF document from group code/value
// pairs.
func dxfDoc(entities ...string) string {
	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	for _, e := range entities {
		b.WriteString(e)
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")
	return b.String()
}

func lwpolyline(layer string, closed bool, pts ...[3]float64) string {
	var b strings.Builder
	flags := 0
	if closed {
		flags = 1
	}
	b.WriteString("0\nLWPOLYLINE\n8\n" + layer + "\n")
	b.WriteString("90\n" + itoa(len(pts)) + "\n70\n" + itoa(flags) + "\n")
	for _, p := range pts {
		b.WriteString("10\n" + ftoa(p[0]) + "\n20\n" + ftoa(p[1]) + "\n")
		if p[2] != 0 {
			b.WriteString("42\n" + ftoa(p[2]) + "\n")
		}
	}
	return b.String()
}

func line(layer string, x0, y0, x1, y1 float64) string {
	return "0\nLINE\n8\n" + layer + "\n10\n" + ftoa(x0) + "\n20\n" + ftoa(y0) +
		"\n11\n" + ftoa(x1) + "\n21\n" + ftoa(y1) + "\n"
}

func circle(layer string, x, y, r float64) string {
	return "0\nCIRCLE\n8\n" + layer + "\n10\n" + ftoa(x) + "\n20\n" + ftoa(y) + "\n40\n" + ftoa(r) + "\n"
}

func TestParseDXF(t *testing.T) {
	doc := dxfDoc(
		lwpolyline("outline", true, [3]float64{-5, -5}, [3]float64{5, -5}, [3]float64{5, 5}, [3]float64{-5, 5}),
		circle("holes", 0, 0, 1),
		line("trim", 0, 0, 2, 0),
		line("trim", 2, 2, 2, 0),
		line("trim", 2, 2, 0, 2),
		line("trim", 0, 2, 0, 0),
		"0\nTEXT\n8\nnotes\n1\nhello\n",
	)
	src, err := ParseDXF("test.dxf", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDXF() error = %v", err)
	}

	layers, _ := src.Layers()
	if got := strings.Join(layers, ","); got != "outline,holes,trim" {
		t.Errorf("Layers() = %s, want outline,holes,trim", got)
	}
	if src.Skipped()["TEXT"] != 1 {
		t.Errorf("Skipped() = %v, want TEXT:1", src.Skipped())
	}

	tests := []struct {
		layer string
		count int
		area  float64
		tol   float64
	}{
		{"outline", 1, 100, 1e-9},
		{"holes", 1, math.Pi, 0.01},
		{"trim", 1, 4, 1e-9},
		{"missing", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.layer, func(t *testing.T) {
			wires, err := src.Wires(tt.layer)
			if err != nil {
				t.Fatalf("Wires() error = %v", err)
			}
			if len(wires) != tt.count {
				t.Fatalf("len(Wires()) = %d, want %d", len(wires), tt.count)
			}
			if tt.count == 0 {
				return
			}
			if got := wires[0].Area(); math.Abs(got-tt.area) > tt.tol {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
		})
	}
}

func TestBulgeCircle(t *testing.T) {
	doc := dxfDoc(lwpolyline("round", true, [3]float64{-1, 0, 1}, [3]float64{1, 0, 1}))
	src, err := ParseDXF("bulge.dxf", strings.NewReader(doc), WithChordTolerance(1e-4))
	if err != nil {
		t.Fatalf("ParseDXF() error = %v", err)
	}
	wires, err := src.Wires("round")
	if err != nil {
		t.Fatalf("Wires() error = %v", err)
	}
	if got := wires[0].Area(); math.Abs(got-math.Pi) > 0.001 {
		t.Errorf("Area() = %v, want ~pi", got)
	}
	for _, p := range wires[0].Points {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %v off the unit circle (r=%v)", p, r)
		}
	}
}

func TestOpenOutline(t *testing.T) {
	doc := dxfDoc(line("open", 0, 0, 1, 0), line("open", 1, 0, 1, 1))
	src, err := ParseDXF("open.dxf", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDXF() error = %v", err)
	}
	if _, err := src.Wires("open"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Wires() error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseDXFErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no entities", "0\nSECTION\n2\nHEADER\n0\nENDSEC\n0\nEOF\n"},
		{"unterminated", "0\nSECTION\n2\nENTITIES\n0\nLINE\n"},
		{"bad code", "x\nSECTION\n"},
		{"dangling code", "0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDXF("bad.dxf", strings.NewReader(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseDXF() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestOpenDXF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plate.dxf")
	doc := dxfDoc(lwpolyline("plate", true, [3]float64{0, 0}, [3]float64{3, 0}, [3]float64{3, 3}, [3]float64{0, 3}))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := OpenDXF(path)
	if err != nil {
		t.Fatalf("OpenDXF() error = %v", err)
	}
	if src.Name() != "plate.dxf" {
		t.Errorf("Name() = %q, want plate.dxf", src.Name())
	}

	_, err = OpenDXF(filepath.Join(dir, "missing.dxf"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("OpenDXF(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory("mem").
		Add("b", geom.Rect(0, 0, 1, 1)).
		Add("a", geom.Rect(0, 0, 2, 2)).
		Add("b", geom.Rect(5, 5, 1, 1))

	layers, _ := m.Layers()
	if strings.Join(layers, ",") != "b,a" {
		t.Errorf("Layers() = %v, want [b a]", layers)
	}
	wires, _ := m.Wires("b")
	if len(wires) != 2 {
		t.Errorf("len(Wires(b)) = %d, want 2", len(wires))
	}
}

func splineEntity(layer string, degree, flags int, knots, weights []float64, control, fit [][2]float64) string {
	var b strings.Builder
	b.WriteString("0\nSPLINE\n8\n" + layer + "\n70\n" + itoa(flags) + "\n71\n" + itoa(degree) + "\n")
	for _, k := range knots {
		b.WriteString("40\n" + ftoa(k) + "\n")
	}
	for _, w := range weights {
		b.WriteString("41\n" + ftoa(w) + "\n")
	}
	for _, p := range control {
		b.WriteString("10\n" + ftoa(p[0]) + "\n20\n" + ftoa(p[1]) + "\n")
	}
	for _, p := range fit {
		b.WriteString("11\n" + ftoa(p[0]) + "\n21\n" + ftoa(p[1]) + "\n")
	}
	return b.String()
}

func TestSpline(t *testing.T) {
	h := math.Sqrt2 / 2
	doc := dxfDoc(
		splineEntity("square", 1, 1,
			[]float64{0, 0, 1, 2, 3, 4, 4}, nil,
			[][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, nil),
		splineEntity("round", 2, 1,
			[]float64{0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 4},
			[]float64{1, h, 1, h, 1, h, 1, h, 1},
			[][2]float64{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}}, nil),
		splineEntity("fitted", 3, 1, nil, nil, nil,
			[][2]float64{{0, 0}, {4, 0}, {0, 3}}),
		splineEntity("bad", 3, 0, []float64{0, 1}, nil, [][2]float64{{0, 0}, {1, 1}}, nil),
	)
	src, err := ParseDXF("spline.dxf", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDXF() error = %v", err)
	}
	if len(src.Skipped()) != 0 {
		t.Errorf("Skipped() = %v, want none", src.Skipped())
	}

	tests := []struct {
		layer string
		area  float64
		tol   float64
	}{
		{"square", 100, 1e-9},
		{"round", math.Pi, 0.02},
		{"fitted", 6, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.layer, func(t *testing.T) {
			wires, err := src.Wires(tt.layer)
			if err != nil {
				t.Fatalf("Wires() error = %v", err)
			}
			if len(wires) != 1 {
				t.Fatalf("len(Wires()) = %d, want 1", len(wires))
			}
			if got := wires[0].Area(); math.Abs(got-tt.area) > tt.tol {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
		})
	}

	wires, _ := src.Wires("round")
	for _, p := range wires[0].Points {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %v off the unit circle (r=%v)", p, r)
		}
	}

	if _, err := src.Wires("bad"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Wires(bad) error = %v, want INVALID_FORMAT", err)
	}
}

func TestHiddenLayers(t *testing.T) {
	doc := dxfDoc(
		circle("holes", 0, 0, 1),
		"0\nTEXT\n8\nholes\n1\nlabel\n",
		"0\nTEXT\n8\nnotes\n1\nhello\n",
		"0\nHATCH\n8\nfill\n",
	)
	src, err := ParseDXF("hidden.dxf", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDXF() error = %v", err)
	}
	if got := strings.Join(src.Hidden(), ","); got != "notes,fill" {
		t.Errorf("Hidden() = %s, want notes,fill", got)
	}
}
