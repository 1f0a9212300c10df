package export

import (
	"encoding/json"

	"github.com/matzehuels/layerstack/pkg/assembly"
)

type manifest struct {
	Name    string         `json:"name"`
	BuildID string         `json:"build_id,omitempty"`
	Height  float64        `json:"height"`
	Parts   []manifestPart `json:"parts"`
}

type manifestPart struct {
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Hex         string    `json:"hex"`
	Offset      float64   `json:"offset"`
	Thickness   float64   `json:"thickness"`
	Volume      float64   `json:"volume"`
	Bounds      *jsonBox  `json:"bounds,omitempty"`
	SectionArea float64   `json:"section_area"`
	Engravings  []float64 `json:"engravings,omitempty"`
}

type jsonBox struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Manifest describes asm as indented JSON: every part with its placement,
// volume, bounding box, midplane section area and engraving heights.
func Manifest(asm *assembly.Assembly, buildID string) ([]byte, error) {
	m := manifest{
		Name:    asm.Name,
		BuildID: buildID,
		Height:  asm.Height(),
		Parts:   make([]manifestPart, 0, len(asm.Parts)),
	}
	for _, p := range asm.Parts {
		mp := manifestPart{
			Name:        p.Name,
			Color:       p.Color,
			Hex:         Hex(p.Color),
			Offset:      p.Offset,
			Thickness:   p.Thickness,
			Volume:      p.Solid.Volume(),
			SectionArea: Midplane(p).Material.Area(),
		}
		if b, ok := p.Solid.Bounds(); ok {
			lo, hi, _ := p.Solid.ZRange()
			mp.Bounds = &jsonBox{
				Min: [3]float64{b.Min.X, b.Min.Y, lo},
				Max: [3]float64{b.Max.X, b.Max.Y, hi},
			}
		}
		for _, e := range p.Solid.Engravings() {
			mp.Engravings = append(mp.Engravings, e.Z)
		}
		m.Parts = append(m.Parts, mp)
	}
	return json.MarshalIndent(m, "", "  ")
}
