package export

import (
	"fmt"
	"sort"

	"github.com/matzehuels/layerstack/pkg/assembly"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/geom"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDXF  = "dxf"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDXF:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Artifact is one rendered file.
type Artifact struct {
	// Part is the layer name, empty for whole-assembly artifacts.
	Part   string
	Format string
	Data   []byte
}

// FileName returns "<stack>.<format>" or "<stack>-<part>.<format>".
func (a Artifact) FileName(stack string) string {
	if a.Part == "" {
		return stack + "." + a.Format
	}
	return stack + "-" + a.Part + "." + a.Format
}

// Option configures rendering.
type Option func(*options)

type options struct {
	buildID string
	scale   float64
	margin  float64
}

// WithBuildID records the build ID in manifests.
func WithBuildID(id string) Option { return func(o *options) { o.buildID = id } }

// WithScale sets raster pixels per drawing unit (default 10).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithMargin sets the margin around a section in drawing units
// (default 1).
func WithMargin(m float64) Option { return func(o *options) { o.margin = m } }

// Settings returns the scale and margin opts resolve to, for format, or
// zeros when format does not depend on them.
func Settings(format string, opts ...Option) (scale, margin float64) {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		o := newOptions(opts)
		return o.scale, o.margin
	}
	return 0, 0
}

func newOptions(opts []Option) options {
	o := options{scale: 10, margin: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render produces the artifacts of one format for asm: a single manifest
// for json, one section drawing per part otherwise.
func Render(asm *assembly.Assembly, format string, opts ...Option) ([]Artifact, error) {
	o := newOptions(opts)
	if format == FormatJSON {
		data, err := Manifest(asm, o.buildID)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Format: format, Data: data}}, nil
	}
	if !ValidFormats[format] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported export format %q", format)
	}

	out := make([]Artifact, 0, len(asm.Parts))
	for _, p := range asm.Parts {
		sec := Midplane(p)
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = SVG(sec, o)
		case FormatDXF:
			data = DXF(sec)
		case FormatPNG:
			data, err = PNG(sec, o)
		case FormatPDF:
			data, err = PDF(sec, o)
		}
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", p.Name, format, err)
		}
		out = append(out, Artifact{Part: p.Name, Format: format, Data: data})
	}
	return out, nil
}

// Section is a flattened part: its material at one height, plus any
// engravings, ready for 2D export.
type Section struct {
	Name       string
	Color      string
	Z          float64
	Material   geom.Sketch
	Engravings []geom.Sketch
}

// Midplane cuts p halfway through its height. Engravings on any face are
// projected onto the section.
func Midplane(p assembly.Part) Section {
	s := Section{Name: p.Name, Color: p.Color}
	lo, hi, ok := p.Solid.ZRange()
	if !ok {
		return s
	}
	s.Z = (lo + hi) / 2
	s.Material = p.Solid.Section(s.Z)
	for _, e := range p.Solid.Engravings() {
		s.Engravings = append(s.Engravings, e.Outline)
	}
	return s
}

// bounds returns the drawing extent of s with margin, or a unit box
// around the origin for an empty section.
func (s Section) bounds(margin float64) geom.Box {
	b, ok := s.Material.Bounds()
	for _, e := range s.Engravings {
		if eb, eok := e.Bounds(); eok {
			if ok {
				b = b.Union(eb)
			} else {
				b, ok = eb, true
			}
		}
	}
	if !ok {
		b = geom.Box{Min: geom.Vec2{X: -0.5, Y: -0.5}, Max: geom.Vec2{X: 0.5, Y: 0.5}}
	}
	b.Min = b.Min.Sub(geom.Vec2{X: margin, Y: margin})
	b.Max = b.Max.Add(geom.Vec2{X: margin, Y: margin})
	return b
}
