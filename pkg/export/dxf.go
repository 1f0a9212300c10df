package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/layerstack/pkg/geom"
)

// DXF writes the section as closed LWPOLYLINE entities. Material goes on
// a layer named after the part and engravings on "<part>_engraving".
// The output reads back through drawing.ParseDXF.
func DXF(s Section) []byte {
	var buf bytes.Buffer
	group := func(code int, value string) {
		fmt.Fprintf(&buf, "%d\n%s\n", code, value)
	}
	group(0, "SECTION")
	group(2, "ENTITIES")
	writeCells := func(layer string, sk geom.Sketch) {
		for _, c := range sk.Cells() {
			poly := c.Polygon()
			group(0, "LWPOLYLINE")
			group(8, layer)
			group(90, strconv.Itoa(len(poly)))
			group(70, "1")
			for _, p := range poly {
				group(10, strconv.FormatFloat(p.X, 'f', -1, 64))
				group(20, strconv.FormatFloat(p.Y, 'f', -1, 64))
			}
		}
	}
	writeCells(s.Name, s.Material)
	for _, e := range s.Engravings {
		writeCells(s.Name+"_engraving", e)
	}
	group(0, "ENDSEC")
	group(0, "EOF")
	return buf.Bytes()
}
