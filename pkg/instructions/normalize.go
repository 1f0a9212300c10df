package instructions

import (
	"slices"

	"github.com/matzehuels/layerstack/pkg/errors"
)

// Mode is how a layer's feature pattern shapes its solid.
type Mode int

const (
	// ModeSolid extrudes the boundary with nothing cut away.
	ModeSolid Mode = iota
	// ModeThroughCut cuts the pattern through the full thickness.
	ModeThroughCut
	// ModeLoft removes lofts between paired cross-sections.
	ModeLoft
	// ModeAngled cuts the pattern along tilted directions.
	ModeAngled
)

func (m Mode) String() string {
	switch m {
	case ModeThroughCut:
		return "through-cut"
	case ModeLoft:
		return "loft"
	case ModeAngled:
		return "angled"
	}
	return "solid"
}

// FeatureMode classifies a layer's feature references. Emboss references
// do not take part. Mixing plain, angled and loft references is a
// MIXED_MODE error.
func FeatureMode(features []LayerRef) (Mode, error) {
	mode := ModeSolid
	var first LayerRef
	for _, f := range features {
		var m Mode
		switch f.Kind {
		case RefEmboss:
			continue
		case RefName:
			m = ModeThroughCut
		case RefLoft:
			m = ModeLoft
		case RefAngled:
			m = ModeAngled
		}
		if mode == ModeSolid {
			mode, first = m, f
			continue
		}
		if m != mode {
			return mode, errors.New(errors.ErrCodeMixedMode,
				"feature %s (%s) cannot be combined with %s (%s)", f, m, first, mode)
		}
	}
	return mode, nil
}

// Normalize validates a stack and fills in defaults. It returns a new
// stack; the input is not modified.
//
// For every layer it:
//   - splits drawing_layer_names into Boundary and Features;
//   - expands Grid into Array and defaults Array to a single zero offset;
//   - resolves the dent depth from edm_dent or edm_dent_depth;
//   - rejects mixed feature modes, negative dimensions, empty boundaries
//     and dents without a depth.
//
// Scale fields on a stack that is not in sim mode are dropped with a
// warning, as is an edge_case on a layer without an array.
func Normalize(s Stack) (Stack, []Warning, error) {
	var warns []Warning
	warn := func(layer, msg string) {
		warns = append(warns, Warning{Stack: s.Name, Layer: layer, Message: msg})
	}

	if err := errors.ValidateName("stack", s.Name); err != nil {
		return Stack{}, nil, err
	}

	out := Stack{
		Name:       s.Name,
		SimMode:    s.SimMode,
		XYScale:    s.XYScale,
		FinalScale: s.FinalScale,
		Layers:     make([]Layer, 0, len(s.Layers)),
	}
	if !s.SimMode {
		if s.XYScale != nil || s.FinalScale != nil {
			warn("", "xyscale and final_scale only apply in sim_mode; ignored")
		}
		out.XYScale, out.FinalScale = nil, nil
	}
	for _, f := range []*float64{out.XYScale, out.FinalScale} {
		if f != nil && *f <= 0 {
			return Stack{}, nil, errors.New(errors.ErrCodeInvalidInput, "stack %q: scale factors must be positive, got %g", s.Name, *f)
		}
	}

	seen := make(map[string]bool, len(s.Layers))
	for _, l := range s.Layers {
		nl, lw, err := normalizeLayer(l)
		if err != nil {
			return Stack{}, nil, errors.Wrap(errors.GetCode(err), err, "stack %q layer %q", s.Name, l.Name)
		}
		if seen[nl.Name] {
			return Stack{}, nil, errors.New(errors.ErrCodeInvalidInput, "stack %q: duplicate layer name %q", s.Name, nl.Name)
		}
		seen[nl.Name] = true
		for _, m := range lw {
			warn(nl.Name, m)
		}
		out.Layers = append(out.Layers, nl)
	}
	return out, warns, nil
}

func normalizeLayer(l Layer) (Layer, []string, error) {
	var warns []string
	if err := errors.ValidateName("layer", l.Name); err != nil {
		return Layer{}, nil, err
	}
	if l.Thickness < 0 {
		return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "thickness must not be negative, got %g", l.Thickness)
	}

	out := Layer{
		Name:      l.Name,
		Color:     l.Color,
		Thickness: l.Thickness,
		Boundary:  slices.Clone(l.Boundary),
		Features:  slices.Clone(l.Features),
		ZBase:     l.ZBase,
	}

	if len(l.DrawingLayerNames) > 0 {
		if len(l.Boundary) > 0 || len(l.Features) > 0 {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "drawing_layer_names cannot be combined with boundary or features")
		}
		out.Boundary = []LayerRef{l.DrawingLayerNames[0]}
		out.Features = slices.Clone(l.DrawingLayerNames[1:])
	}
	if len(out.Boundary) == 0 {
		return Layer{}, nil, errors.New(errors.ErrCodeEmptyBoundary, "no boundary layer")
	}
	for _, r := range out.Boundary {
		if r.Kind != RefName {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "boundary reference %s must be a plain name", r)
		}
	}
	if _, err := FeatureMode(out.Features); err != nil {
		return Layer{}, nil, err
	}
	for _, r := range out.Features {
		if r.Kind == RefAngled && (r.Angle <= -90 || r.Angle >= 90) {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "feature %s: angle must lie strictly between -90 and 90 degrees", r)
		}
	}

	switch {
	case l.Grid != nil && len(l.Array) > 0:
		return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "array and grid are mutually exclusive")
	case l.Grid != nil:
		g := *l.Grid
		if g.Pitch <= 0 || g.NX < 1 || g.NY < 1 || g.PitchY < 0 {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "grid needs a positive pitch and at least one cell per axis")
		}
		out.Array = g.Offsets()
	case len(l.Array) > 0:
		out.Array = slices.Clone(l.Array)
	}
	arrayed := len(out.Array) > 0
	if !arrayed {
		out.Array = []Offset{{}}
	}
	if arrayed && len(out.Features) == 0 {
		warns = append(warns, "array has no effect on a layer without features")
	}

	if l.EdgeCase != nil {
		if l.EdgeCase.Kind != RefName {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "edge_case %s must be a plain name", *l.EdgeCase)
		}
		ec := *l.EdgeCase
		out.EdgeCase = &ec
		if !arrayed {
			warns = append(warns, "edge_case without array trims an untiled pattern; likely unintended")
		}
	}

	switch {
	case l.EDMDent != nil:
		if l.EDMDent.Ref.Kind != RefName {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "edm_dent %s must be a plain name", l.EDMDent.Ref)
		}
		depth := l.EDMDent.Depth
		if depth == nil {
			depth = l.EDMDentDepth
		} else if l.EDMDentDepth != nil && *l.EDMDentDepth != *depth {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "edm_dent depth %g conflicts with edm_dent_depth %g", *depth, *l.EDMDentDepth)
		}
		if depth == nil {
			return Layer{}, nil, errors.New(errors.ErrCodeMissingDentDepth, "edm_dent %s has no depth", l.EDMDent.Ref)
		}
		if *depth < 0 {
			return Layer{}, nil, errors.New(errors.ErrCodeInvalidInput, "edm_dent depth must not be negative, got %g", *depth)
		}
		d := *depth
		out.EDMDent = &Dent{Ref: l.EDMDent.Ref, Depth: &d}
		out.EDMDentDepth = &d
	case l.EDMDentDepth != nil:
		warns = append(warns, "edm_dent_depth without edm_dent; ignored")
	}

	return out, warns, nil
}
