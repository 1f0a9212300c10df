package geom

import "sort"

// NestingDepths returns, for each wire, the number of other wires that
// enclose it. A wire encloses another when it is strictly larger, its
// bounds cover the other's, and it contains the other's first vertex.
func NestingDepths(ws []Wire) []int {
	depth := make([]int, len(ws))
	boxes := make([]Box, len(ws))
	areas := make([]float64, len(ws))
	for i, w := range ws {
		boxes[i] = w.Bounds()
		areas[i] = w.Area()
	}
	for i, w := range ws {
		if w.Len() == 0 {
			continue
		}
		for j, o := range ws {
			if i == j || areas[j] <= areas[i] {
				continue
			}
			if boxes[j].Encloses(boxes[i]) && o.Contains(w.Points[0]) {
				depth[i]++
			}
		}
	}
	return depth
}

// NestedFaces composes wires by nesting parity: wires at even depth add
// material and wires at odd depth cut holes, so islands inside holes
// survive. Every disjoint group takes part.
func NestedFaces(ws []Wire) Sketch {
	idx, depth := nestingOrder(ws)
	var acc Sketch
	for _, i := range idx {
		if depth[i]%2 == 0 {
			acc = acc.Union(Face(ws[i]))
		} else {
			acc = acc.Subtract(Face(ws[i]))
		}
	}
	return acc
}

func nestingOrder(ws []Wire) (idx, depth []int) {
	depth = NestingDepths(ws)
	idx = make([]int, len(ws))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if depth[i] != depth[j] {
			return depth[i] < depth[j]
		}
		return ws[i].Area() > ws[j].Area()
	})
	return idx, depth
}
