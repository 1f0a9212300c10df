package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// maxRasterSide caps either image dimension.
const maxRasterSide = 8192

// PNG rasterizes the section on a white background at o.scale pixels per
// drawing unit.
func PNG(s Section, o options) ([]byte, error) {
	b := s.bounds(o.margin)
	scale := o.scale
	if side := math.Max(b.Width(), b.Height()) * scale; side > maxRasterSide {
		scale *= maxRasterSide / side
	}
	w := max(1, int(math.Ceil(b.Width()*scale)))
	h := max(1, int(math.Ceil(b.Height()*scale)))

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex("#ffffff"))

	fill := func(sk geom.Sketch, color string) error {
		cells := sk.Cells()
		if len(cells) == 0 {
			return nil
		}
		dc.SetHexColor(color)
		for _, c := range cells {
			for i, p := range c.Polygon() {
				x, y := (p.X-b.Min.X)*scale, (b.Max.Y-p.Y)*scale
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
		return dc.Fill()
	}
	if err := fill(s.Material, Hex(s.Color)); err != nil {
		return nil, fmt.Errorf("fill section: %w", err)
	}
	for _, e := range s.Engravings {
		if err := fill(e, "#404040"); err != nil {
			return nil, fmt.Errorf("fill engraving: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
