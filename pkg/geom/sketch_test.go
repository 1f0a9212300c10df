package geom

import (
	"math"
	"slices"
	"strings"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-7 }

func TestNewWire(t *testing.T) {
	w := NewWire(Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 0}, Vec2{1, 1}, Vec2{0, 1}, Vec2{0, 0})
	if w.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", w.Len())
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := NewWire(Vec2{0, 0}, Vec2{1, 1}).Validate(); err == nil {
		t.Error("Validate() on a two-point wire = nil, want error")
	}
}

func TestWireArea(t *testing.T) {
	tests := []struct {
		name string
		wire Wire
		want float64
	}{
		{"unit square", Rect(0, 0, 1, 1), 1},
		{"offset rect", Rect(5, -3, 2, 4), 8},
		{"reversed", Rect(0, 0, 3, 3).Reverse(), 9},
		{"triangle", NewWire(Vec2{0, 0}, Vec2{4, 0}, Vec2{0, 3}), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wire.Area(); !near(got, tt.want) {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWireContains(t *testing.T) {
	w := Rect(0, 0, 2, 2)
	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{0, 0}, true},
		{Vec2{0.99, -0.99}, true},
		{Vec2{1.5, 0}, false},
		{Vec2{0, 3}, false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSketchArea(t *testing.T) {
	square := Face(Rect(0, 0, 2, 2))
	diamond := Face(NewWire(Vec2{1.5, 0}, Vec2{0, 1.5}, Vec2{-1.5, 0}, Vec2{0, -1.5}))

	tests := []struct {
		name   string
		sketch Sketch
		want   float64
	}{
		{"empty", Sketch{}, 0},
		{"face", square, 4},
		{"plate with two holes", Face(Rect(0, 0, 10, 10)).Subtract(Face(Rect(-3, 0, 2, 2)), Face(Rect(3, 0, 2, 2))), 92},
		{"overlapping union", Face(Rect(0, 0, 2, 2)).Union(Face(Rect(1, 0, 2, 2))), 6},
		{"exact duplicate union", square.Union(square, square), 4},
		{"crossing union", square.Union(diamond), 5},
		{"crossing intersect", square.Intersect(diamond), 3.5},
		{"crossing subtract", diamond.Subtract(square), 1},
		{"disjoint intersect", square.Intersect(Face(Rect(10, 10, 1, 1))), 0},
		{"partial trim", Face(Rect(4, 4, 2, 2)).Intersect(Face(Rect(0, 0, 8, 8))), 1},
		{"polygonal circle", Face(Circle(Vec2{1, 1}, 2, 48)), Circle(Vec2{1, 1}, 2, 48).Area()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sketch.Area(); !near(got, tt.want) {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSketchCells(t *testing.T) {
	s := Face(Rect(0, 0, 10, 10)).Subtract(Face(Rect(0, 0, 2, 2)))
	cells := s.Cells()
	if len(cells) == 0 {
		t.Fatal("Cells() returned nothing")
	}
	var sum float64
	for _, c := range cells {
		if c.Area() <= 0 {
			t.Errorf("cell %+v has non-positive area", c)
		}
		mid := Vec2{(c.X0 + c.X1) / 2, (c.Bottom[0] + c.Bottom[1] + c.Top[0] + c.Top[1]) / 4}
		if !s.Contains(mid) {
			t.Errorf("cell centre %v not inside sketch", mid)
		}
		sum += c.Area()
	}
	if !near(sum, 96) {
		t.Errorf("sum of cell areas = %v, want 96", sum)
	}
}

func TestSketchTransform(t *testing.T) {
	s := Face(Rect(0, 0, 2, 2)).Subtract(Face(Rect(0, 0, 1, 1)))

	moved := s.Translate(Vec2{5, 5})
	if !near(moved.Area(), 3) {
		t.Errorf("translated Area() = %v, want 3", moved.Area())
	}
	if moved.Contains(Vec2{5, 5}) || !moved.Contains(Vec2{5.75, 5.75}) {
		t.Error("translated sketch membership wrong")
	}

	big := s.Scale(2)
	if !near(big.Area(), 12) {
		t.Errorf("scaled Area() = %v, want 12", big.Area())
	}
}

func TestSketchIntersectIdempotent(t *testing.T) {
	trim := Face(Rect(0, 0, 8, 8))
	pattern := Faces(Rect(-4, -4, 2, 2), Rect(4, 4, 2, 2), Rect(6, 6, 2, 2))

	once := pattern.Intersect(trim)
	twice := once.Intersect(trim)
	if !near(once.Area(), twice.Area()) {
		t.Errorf("second trim changed area: %v -> %v", once.Area(), twice.Area())
	}
	if !near(once.Area(), 2) {
		t.Errorf("trimmed Area() = %v, want 2", once.Area())
	}
}

func TestNestedFaces(t *testing.T) {
	outer := Rect(0, 0, 10, 10)
	hole := Rect(0, 0, 6, 6)
	island := Rect(0, 0, 2, 2)
	other := Rect(20, 0, 4, 4)

	depths := NestingDepths([]Wire{island, hole, other, outer})
	if want := []int{2, 1, 0, 0}; !slices.Equal(depths, want) {
		t.Errorf("NestingDepths() = %v, want %v", depths, want)
	}

	got := NestedFaces([]Wire{island, hole, other, outer}).Area()
	if want := 100.0 - 36 + 4 + 16; !near(got, want) {
		t.Errorf("NestedFaces().Area() = %v, want %v", got, want)
	}
}

func TestSketchDigest(t *testing.T) {
	build := func() Sketch {
		return Face(Rect(0, 0, 10, 10)).Subtract(Face(Rect(1, 1, 2, 2))).Translate(Vec2{1, 0})
	}
	var a, b strings.Builder
	build().Digest(&a)
	build().Digest(&b)
	if a.String() != b.String() {
		t.Errorf("Digest not deterministic:\n%s\n%s", a.String(), b.String())
	}

	var e strings.Builder
	Sketch{}.Digest(&e)
	if e.String() != "empty" {
		t.Errorf("empty Digest = %q, want %q", e.String(), "empty")
	}
}
