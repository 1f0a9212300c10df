package sketch

import (
	"math"
	"testing"

	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-7 }

func TestComposeBoundary(t *testing.T) {
	outer := geom.Rect(0, 0, 10, 10)
	holeA := geom.Rect(-3, -3, 2, 2)
	holeB := geom.Rect(3, 2, 1, 3)

	tests := []struct {
		name  string
		wires []geom.Wire
		want  float64
	}{
		{"outer only", []geom.Wire{outer}, 100},
		{"two holes", []geom.Wire{outer, holeA, holeB}, outer.Area() - holeA.Area() - holeB.Area()},
		{"hole outside", []geom.Wire{outer, geom.Rect(20, 20, 2, 2)}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeBoundary(tt.wires)
			if err != nil {
				t.Fatalf("ComposeBoundary() error = %v", err)
			}
			if !near(got.Area(), tt.want) {
				t.Errorf("Area() = %v, want %v", got.Area(), tt.want)
			}
		})
	}

	if _, err := ComposeBoundary(nil); !errors.Is(err, errors.ErrCodeEmptyBoundary) {
		t.Errorf("ComposeBoundary(nil) error = %v, want EMPTY_BOUNDARY", err)
	}
}

func TestPlacementsCount(t *testing.T) {
	features := [][]geom.Wire{
		{geom.Rect(0, 0, 1, 1), geom.Rect(3, 0, 1, 1)},
		{geom.Circle(geom.Vec2{}, 0.2, 12)},
	}
	array := []geom.Vec3{{X: -10}, {X: 0}, {X: 10}, {Y: 10}}

	got := Placements(features, array)
	if want := 3 * len(array); len(got) != want {
		t.Errorf("len(Placements()) = %d, want %d", len(got), want)
	}
}

func TestComposeFeaturePattern(t *testing.T) {
	square := [][]geom.Wire{{geom.Rect(0, 0, 2, 2)}}

	tests := []struct {
		name  string
		array []geom.Vec3
		trim  *geom.Sketch
		want  float64
	}{
		{"single", []geom.Vec3{{}}, nil, 4},
		{"two copies", []geom.Vec3{{X: -4, Y: -4}, {X: 4, Y: 4}}, nil, 8},
		{"exact overlap merges", []geom.Vec3{{}, {}, {}}, nil, 4},
		{"partial trim", []geom.Vec3{{X: -4, Y: -4}, {X: 4, Y: 4}}, trimPtr(geom.Rect(0, 0, 8, 8)), 2},
		{"copy outside trim", []geom.Vec3{{X: 6, Y: 6}}, trimPtr(geom.Rect(0, 0, 8, 8)), 0},
		{"z ignored", []geom.Vec3{{Z: 5}}, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeFeaturePattern(geom.Sketch{}, square, tt.array, tt.trim)
			if !near(got.Area(), tt.want) {
				t.Errorf("Area() = %v, want %v", got.Area(), tt.want)
			}
		})
	}
}

func TestTrimIdempotent(t *testing.T) {
	trim, err := ComposeTrim([]geom.Wire{geom.Rect(0, 0, 8, 8)})
	if err != nil {
		t.Fatal(err)
	}
	features := [][]geom.Wire{{geom.Rect(0, 0, 2, 2)}}
	array := []geom.Vec3{{X: -4, Y: -4}, {X: 0}, {X: 4, Y: 4}, {X: 6, Y: 6}}

	once := ComposeFeaturePattern(geom.Sketch{}, features, array, &trim)
	twice := ComposeFeaturePattern(once, nil, nil, &trim)
	if !near(once.Area(), twice.Area()) {
		t.Errorf("re-trim changed area %v -> %v", once.Area(), twice.Area())
	}
	for _, p := range []geom.Vec2{{X: -3.5, Y: -3.5}, {X: 0, Y: 0}, {X: 3.5, Y: 3.5}, {X: 4.5, Y: 4.5}} {
		if once.Contains(p) != twice.Contains(p) {
			t.Errorf("membership of %v changed after re-trim", p)
		}
	}
}

func TestComposeTrimNested(t *testing.T) {
	// An annular trim: the pattern inside the inner keep-out vanishes.
	trim, err := ComposeTrim([]geom.Wire{geom.Rect(0, 0, 2, 2), geom.Rect(0, 0, 10, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if !near(trim.Area(), 96) {
		t.Errorf("trim Area() = %v, want 96", trim.Area())
	}
	pattern := ComposeFeaturePattern(geom.Sketch{}, [][]geom.Wire{{geom.Rect(0, 0, 4, 4)}}, []geom.Vec3{{}}, &trim)
	if !near(pattern.Area(), 12) {
		t.Errorf("pattern Area() = %v, want 12", pattern.Area())
	}

	if _, err := ComposeTrim(nil); !errors.Is(err, errors.ErrCodeEmptyBoundary) {
		t.Errorf("ComposeTrim(nil) error = %v, want EMPTY_BOUNDARY", err)
	}
}

func trimPtr(w geom.Wire) *geom.Sketch {
	s := geom.Face(w)
	return &s
}
