package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// SVG draws the section in drawing units with Y pointing up. Material is
// filled with the part color; engravings are overlaid translucently.
func SVG(s Section, o options) []byte {
	b := s.bounds(o.margin)
	w, h := b.Width(), b.Height()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.4f %.4f" width="%.0f" height="%.0f">`+"\n",
		w, h, w*o.scale, h*o.scale)
	fmt.Fprintf(&buf, "  <title>%s z=%g</title>\n", html.EscapeString(s.Name), s.Z)
	writePath(&buf, s.Material, b, fmt.Sprintf(`fill="%s"`, Hex(s.Color)))
	for _, e := range s.Engravings {
		writePath(&buf, e, b, `fill="#000000" fill-opacity="0.35"`)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePath(buf *bytes.Buffer, sk geom.Sketch, b geom.Box, attrs string) {
	cells := sk.Cells()
	if len(cells) == 0 {
		return
	}
	buf.WriteString(`  <path d="`)
	for _, c := range cells {
		for i, p := range c.Polygon() {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(buf, "%s%.4f %.4f ", cmd, p.X-b.Min.X, b.Max.Y-p.Y)
		}
		buf.WriteString("Z ")
	}
	fmt.Fprintf(buf, `" %s/>`+"\n", attrs)
}
