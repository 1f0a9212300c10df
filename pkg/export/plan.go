package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layerstack/pkg/instructions"
)

// SourceOf reports which drawing source defines a drawing layer.
// (*wireindex.Index).Source has this shape.
type SourceOf func(layer string) (string, bool)

// PlanDOT describes the build plan as a Graphviz digraph: each stack
// points to its layers in stacking order, each layer to the drawing
// layers it reads (edges labelled by role), and each drawing layer to
// the source that defines it. Drawing layers no source defines are
// drawn in red.
func PlanDOT(stacks []instructions.Stack, sourceOf SourceOf) string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=9, color=\"#666666\"];\n\n")

	declared := make(map[string]bool)
	node := func(id, attrs string) {
		if !declared[id] {
			declared[id] = true
			fmt.Fprintf(&buf, "  %q [%s];\n", id, attrs)
		}
	}

	for _, s := range stacks {
		sid := "stack:" + s.Name
		node(sid, fmt.Sprintf("label=%q, shape=box3d, style=filled, fillcolor=\"#dde7f3\"", s.Name))
		for i, l := range s.Layers {
			lid := sid + "/" + l.Name
			node(lid, fmt.Sprintf("label=%q, shape=box, style=\"rounded,filled\", fillcolor=%q",
				fmt.Sprintf("%s\nt=%g", l.Name, l.Thickness), Hex(l.Color)))
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", sid, lid, i)

			for _, ref := range layerRefs(l) {
				for _, name := range ref.ref.Names() {
					did := "layer:" + name
					src, ok := sourceOf(name)
					if ok {
						node(did, fmt.Sprintf("label=%q, shape=ellipse", name))
						sidSrc := "source:" + src
						node(sidSrc, fmt.Sprintf("label=%q, shape=cylinder", src))
						if !declared[did+"->"+sidSrc] {
							declared[did+"->"+sidSrc] = true
							fmt.Fprintf(&buf, "  %q -> %q [style=dotted];\n", did, sidSrc)
						}
					} else {
						node(did, fmt.Sprintf("label=%q, shape=ellipse, color=red, fontcolor=red", name))
					}
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", lid, did, ref.role)
				}
			}
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

type roleRef struct {
	role string
	ref  instructions.LayerRef
}

func layerRefs(l instructions.Layer) []roleRef {
	var out []roleRef
	for _, r := range l.Boundary {
		out = append(out, roleRef{"boundary", r})
	}
	for _, r := range l.Features {
		out = append(out, roleRef{r.Kind.String(), r})
	}
	if l.EdgeCase != nil {
		out = append(out, roleRef{"edge_case", *l.EdgeCase})
	}
	if l.EDMDent != nil {
		out = append(out, roleRef{"dent", l.EDMDent.Ref})
	}
	return out
}

// PlanSVG renders a DOT graph to SVG using Graphviz.
func PlanSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the plan scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
