package instructions

import (
	"encoding/json"

	"github.com/matzehuels/layerstack/pkg/errors"
)

// UnmarshalJSON accepts every reference shape the schema allows:
//
//	"name"                                 plain name
//	["name", 12.5]                         angled projection
//	["name", 0]                            emboss
//	["bottom", "top"]                      loft pair
//	{"name": "n", "angle": 12.5}           explicit forms
//	{"name": "bottom", "loft": "top"}
//	{"name": "n", "emboss": true}
//
// Angle 0 means emboss only in the pair form; the explicit form rejects it.
func (r *LayerRef) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	ref, err := refFromAny(v)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// MarshalJSON writes the explicit struct form, or a bare string for plain
// names.
func (r LayerRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefAngled:
		return json.Marshal(map[string]any{"name": r.Name, "angle": r.Angle})
	case RefLoft:
		return json.Marshal(map[string]any{"name": r.Name, "loft": r.Loft})
	case RefEmboss:
		return json.Marshal(map[string]any{"name": r.Name, "emboss": true})
	}
	return json.Marshal(r.Name)
}

func refFromAny(v any) (LayerRef, error) {
	switch t := v.(type) {
	case string:
		return Name(t), nil

	case []any:
		if len(t) != 2 {
			return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference pair needs 2 elements, got %d", len(t))
		}
		name, ok := t[0].(string)
		if !ok {
			return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference pair must start with a name")
		}
		switch second := t[1].(type) {
		case string:
			return LoftPair(name, second), nil
		default:
			f, ok := number(second)
			if !ok {
				return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference %q: second element must be a name or an angle", name)
			}
			if f == 0 {
				return Emboss(name), nil
			}
			return Angled(name, f), nil
		}

	case map[string]any:
		name, _ := t["name"].(string)
		if name == "" {
			return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference needs a name")
		}
		ref := Name(name)
		set := 0
		if a, ok := t["angle"]; ok {
			f, ok := number(a)
			if !ok {
				return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference %q: angle must be a number", name)
			}
			if f == 0 {
				return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "layer reference %q: angle 0 is not an angled cut; use emboss = true or a plain name", name)
			}
			ref = Angled(name, f)
			set++
		}
		if l, ok := t["loft"].(string); ok {
			ref = LoftPair(name, l)
			set++
		}
		if e, _ := t["emboss"].(bool); e {
			ref = Emboss(name)
			set++
		}
		if set > 1 {
			return LayerRef{}, errors.New(errors.ErrCodeMixedMode, "layer reference %q combines angle, loft and emboss", name)
		}
		return ref, nil
	}
	return LayerRef{}, errors.New(errors.ErrCodeInvalidInput, "unsupported layer reference %v", v)
}

// UnmarshalJSON accepts [dx, dy] or [dx, dy, dz].
func (o *Offset) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "array offset")
	}
	if len(v) != 2 && len(v) != 3 {
		return errors.New(errors.ErrCodeInvalidInput, "array offset needs 2 or 3 numbers, got %d", len(v))
	}
	*o = Offset{X: v[0], Y: v[1]}
	if len(v) == 3 {
		o.Z = v[2]
	}
	return nil
}

func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{o.X, o.Y, o.Z})
}

// UnmarshalJSON accepts "name", ["name", depth] or {"name": n, "depth": d}.
func (d *Dent) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*d = Dent{Ref: Name(t)}
		return nil
	case []any:
		if len(t) == 2 {
			name, ok := t[0].(string)
			depth, isNum := number(t[1])
			if ok && isNum {
				*d = Dent{Ref: Name(name), Depth: &depth}
				return nil
			}
		}
	case map[string]any:
		name, _ := t["name"].(string)
		if name != "" {
			*d = Dent{Ref: Name(name)}
			if raw, ok := t["depth"]; ok {
				depth, ok := number(raw)
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "edm_dent %q: depth must be a number", name)
				}
				d.Depth = &depth
			}
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unsupported edm_dent %v", v)
}

func (d Dent) MarshalJSON() ([]byte, error) {
	m := map[string]any{"name": d.Ref.Name}
	if d.Depth != nil {
		m["depth"] = *d.Depth
	}
	return json.Marshal(m)
}

// number converts the numeric types produced by the TOML, YAML, JSON and
// CUE decoders.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
