// Package wireindex resolves drawing-layer names to wires across several
// drawing sources.
//
// Resolution happens once per build, before any per-stack work. Each
// source is scanned exactly once for its layer names; a name found in two
// sources is ambiguous and fails the whole resolution. Only the requested
// layers are imported, each from the one source that defines it.
//
// The returned [Index] is immutable and safe for concurrent readers.
package wireindex

import (
	"slices"
	"sort"

	"github.com/matzehuels/layerstack/pkg/drawing"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// Index maps drawing-layer names to their wires.
type Index struct {
	wires   map[string][]geom.Wire
	origin  map[string]string
	missing map[string]error
}

type options struct {
	strict     bool
	requireAll bool
}

// Option configures Resolve.
type Option func(*options)

// Strict rejects a layer name found in more than one source even when no
// stack requests it.
func Strict() Option { return func(o *options) { o.strict = true } }

// RequireAll makes an unknown requested name fail the resolution instead
// of being recorded on the index.
func RequireAll() Option { return func(o *options) { o.requireAll = true } }

// Resolve scans sources and imports the wires of every requested name.
//
// Errors:
//   - AMBIGUOUS_LAYER: a requested name (any name with [Strict]) appears
//     in more than one source.
//   - UNKNOWN_LAYER: with [RequireAll], a requested name appears nowhere.
//     Without it the name is recorded and reported by [Index.Wires].
//   - any error a source returns while listing or reading layers.
func Resolve(sources []drawing.Source, names []string, opts ...Option) (*Index, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	owner := make(map[string]int)
	for i, src := range sources {
		layers, err := src.Layers()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "list layers of %s", src.Name())
		}
		for _, l := range dedupe(layers) {
			if j, ok := owner[l]; ok {
				if o.strict || slices.Contains(names, l) {
					return nil, errors.New(errors.ErrCodeAmbiguousLayer,
						"layer %q appears in both %s and %s", l, sources[j].Name(), src.Name())
				}
				continue
			}
			owner[l] = i
		}
	}

	ix := &Index{
		wires:   make(map[string][]geom.Wire),
		origin:  make(map[string]string),
		missing: make(map[string]error),
	}
	for _, name := range dedupe(names) {
		i, ok := owner[name]
		if !ok {
			err := errors.New(errors.ErrCodeUnknownLayer, "layer %q not found in any drawing source", name)
			if o.requireAll {
				return nil, err
			}
			ix.missing[name] = err
			continue
		}
		wires, err := sources[i].Wires(name)
		if err != nil {
			return nil, err
		}
		ix.wires[name] = wires
		ix.origin[name] = sources[i].Name()
	}
	return ix, nil
}

// Wires returns the resolved wires of a layer in source order. It returns
// an UNKNOWN_LAYER error for names that were requested but not found, and
// for names that were never requested.
func (ix *Index) Wires(name string) ([]geom.Wire, error) {
	if w, ok := ix.wires[name]; ok {
		return w, nil
	}
	if err, ok := ix.missing[name]; ok {
		return nil, err
	}
	return nil, errors.New(errors.ErrCodeUnknownLayer, "layer %q was not resolved", name)
}

// Source returns the name of the source that defines layer name.
func (ix *Index) Source(name string) (string, bool) {
	s, ok := ix.origin[name]
	return s, ok
}

// Names returns the resolved layer names, sorted.
func (ix *Index) Names() []string {
	out := make([]string, 0, len(ix.wires))
	for n := range ix.wires {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Missing returns the requested names no source defines, sorted.
func (ix *Index) Missing() []string {
	out := make([]string, 0, len(ix.missing))
	for n := range ix.missing {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
