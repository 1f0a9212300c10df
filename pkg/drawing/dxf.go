package drawing

import (
	"bufio"
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// Default tolerances, in drawing units.
const (
	DefaultChordTolerance = 0.001
	DefaultJoinTolerance  = 1e-6
)

// DXF is a Source backed by the ENTITIES section of an ASCII DXF file.
//
// The file is tokenized once when opened. Entities are grouped by layer
// but turned into wires only when a layer is requested, so unrequested
// layers cost nothing beyond the scan.
type DXF struct {
	name    string
	chord   float64
	join    float64
	order   []string
	byLayer map[string][]entity
	skipped map[string]int
	// skippedOn lists, in file order, the layers holding skipped entities.
	skippedOn []string
}

// Option configures a DXF source.
type Option func(*DXF)

// WithChordTolerance sets the maximum distance between an arc and the
// polygon edges that replace it.
func WithChordTolerance(tol float64) Option {
	return func(d *DXF) {
		if tol > 0 {
			d.chord = tol
		}
	}
}

// WithJoinTolerance sets how close two endpoints must be for LINE and ARC
// entities to be chained into one outline.
func WithJoinTolerance(tol float64) Option {
	return func(d *DXF) {
		if tol > 0 {
			d.join = tol
		}
	}
}

// OpenDXF reads and tokenizes a DXF file.
func OpenDXF(path string, opts ...Option) (*DXF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "drawing %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read drawing %s", path)
	}
	return ParseDXF(filepath.Base(path), bytes.NewReader(data), opts...)
}

// ParseDXF tokenizes DXF content from r. name identifies the source.
func ParseDXF(name string, r io.Reader, opts ...Option) (*DXF, error) {
	d := &DXF{
		name:    name,
		chord:   DefaultChordTolerance,
		join:    DefaultJoinTolerance,
		byLayer: make(map[string][]entity),
		skipped: make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}

	pairs, err := readPairs(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", name)
	}
	ents, err := entitiesSection(pairs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", name)
	}
	for i, e := range ents {
		e.seq = i
		if !supported(e.kind) {
			d.skipped[e.kind]++
			if !slices.Contains(d.skippedOn, e.layer) {
				d.skippedOn = append(d.skippedOn, e.layer)
			}
			continue
		}
		if _, ok := d.byLayer[e.layer]; !ok {
			d.order = append(d.order, e.layer)
		}
		d.byLayer[e.layer] = append(d.byLayer[e.layer], e)
	}
	return d, nil
}

func (d *DXF) Name() string { return d.name }

func (d *DXF) Layers() ([]string, error) {
	return append([]string(nil), d.order...), nil
}

// Skipped reports entity types that were ignored, with their counts.
func (d *DXF) Skipped() map[string]int {
	out := make(map[string]int, len(d.skipped))
	for k, v := range d.skipped {
		out[k] = v
	}
	return out
}

// Hidden returns the layers holding only unsupported entities. They are
// missing from Layers, so a reference to one resolves as unknown.
func (d *DXF) Hidden() []string {
	var out []string
	for _, l := range d.skippedOn {
		if _, ok := d.byLayer[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// Wires converts one layer's entities into closed outlines. Closed
// polylines, circles, full ellipses and closed splines map to one wire
// each. Lines, arcs, open polylines and open splines are chained end to
// end; a chain that does not close is an error.
func (d *DXF) Wires(layer string) ([]geom.Wire, error) {
	var (
		loops []ordered
		paths []path
	)
	for _, e := range d.byLayer[layer] {
		pts, closed, err := e.flatten(d.chord)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: layer %q: %s entity", d.name, layer, e.kind)
		}
		if len(pts) < 2 {
			continue
		}
		if closed {
			loops = append(loops, ordered{seq: e.seq, wire: geom.NewWire(pts...)})
			continue
		}
		paths = append(paths, path{seq: e.seq, pts: pts})
	}

	chained, err := chain(paths, d.join)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: layer %q", d.name, layer)
	}
	loops = append(loops, chained...)
	return sortedWires(loops), nil
}

type pair struct {
	code  int
	value string
}

func readPairs(r io.Reader) ([]pair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var (
		out  []pair
		line int
	)
	for sc.Scan() {
		line++
		codeText := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return nil, fmt.Errorf("line %d: group code %q without value", line, codeText)
		}
		line++
		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad group code %q", line-1, codeText)
		}
		out = append(out, pair{code: code, value: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// entitiesSection splits the ENTITIES section into entities. VERTEX
// records are folded into the POLYLINE that precedes them.
func entitiesSection(pairs []pair) ([]entity, error) {
	start := -1
	for i := 0; i+1 < len(pairs); i++ {
		if pairs[i].code == 0 && pairs[i].value == "SECTION" && pairs[i+1].code == 2 && pairs[i+1].value == "ENTITIES" {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("no ENTITIES section")
	}

	var (
		out  []entity
		cur  *entity
		poly *entity
	)
	flush := func() {
		if cur == nil {
			return
		}
		switch cur.kind {
		case "VERTEX":
			if poly != nil {
				poly.vertices = append(poly.vertices, cur.pairs)
			}
		case "SEQEND":
			if poly != nil {
				out = append(out, *poly)
				poly = nil
			}
		case "POLYLINE":
			poly = cur
		default:
			out = append(out, *cur)
		}
		cur = nil
	}
	for _, p := range pairs[start:] {
		if p.code == 0 {
			flush()
			if p.value == "ENDSEC" {
				return out, nil
			}
			cur = &entity{kind: p.value, layer: "0"}
			continue
		}
		if cur == nil {
			continue
		}
		if p.code == 8 {
			cur.layer = p.value
		}
		cur.pairs = append(cur.pairs, p)
	}
	return nil, fmt.Errorf("ENTITIES section not terminated")
}

type ordered struct {
	seq  int
	wire geom.Wire
}

func sortedWires(loops []ordered) []geom.Wire {
	slices.SortStableFunc(loops, func(a, b ordered) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]geom.Wire, len(loops))
	for i, l := range loops {
		out[i] = l.wire
	}
	return out
}
