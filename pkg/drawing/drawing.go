// Package drawing provides named-layer vector drawing sources.
//
// A [Source] is anything that can list the layers it contains and return
// the closed outlines of one layer. The compiler reads only through this
// interface, so sources can be files on disk ([DXF]) or built in memory
// ([Memory]) for tests and generated geometry.
package drawing

import (
	"github.com/matzehuels/layerstack/pkg/geom"
)

// Source is a drawing with a namespace of named layers.
//
// Implementations must return layer names and wires in file order and
// must not change between calls. They are read from a single goroutine.
type Source interface {
	// Name identifies the source in logs and error messages.
	Name() string
	// Layers lists every layer holding at least one entity.
	Layers() ([]string, error)
	// Wires returns the closed outlines of one layer. Entities on every
	// other layer are ignored.
	Wires(layer string) ([]geom.Wire, error)
}

// Memory is an in-memory Source.
type Memory struct {
	name   string
	order  []string
	layers map[string][]geom.Wire
}

// NewMemory creates an empty in-memory source.
func NewMemory(name string) *Memory {
	return &Memory{name: name, layers: make(map[string][]geom.Wire)}
}

// Add appends wires to a layer, creating it on first use.
func (m *Memory) Add(layer string, wires ...geom.Wire) *Memory {
	if _, ok := m.layers[layer]; !ok {
		m.order = append(m.order, layer)
	}
	m.layers[layer] = append(m.layers[layer], wires...)
	return m
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Layers() ([]string, error) {
	return append([]string(nil), m.order...), nil
}

func (m *Memory) Wires(layer string) ([]geom.Wire, error) {
	return append([]geom.Wire(nil), m.layers[layer]...), nil
}
