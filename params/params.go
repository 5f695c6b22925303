// Package params counts the trainable parameters of a model.
package params

import "strings"

// AuxMarker marks auxiliary parameters which are not part of the deployed model.
const AuxMarker = "aux"

// Parameter is a named parameter tensor shape.
type Parameter struct {
	Name  string
	Shape []int
}

// Size returns the number of scalars in the parameter. An empty shape is a scalar.
func (p Parameter) Size() (o int) {
	o = 1
	for _, d := range p.Shape {
		o *= d
	}
	return
}

// Model exposes its named parameters.
type Model interface {
	NamedParameters() []Parameter
}

// Count returns the number of scalars in the non auxiliary parameters of m.
func Count(m Model) (o int) {
	for _, p := range m.NamedParameters() {
		if strings.Contains(p.Name, AuxMarker) {
			continue
		}
		o += p.Size()
	}
	return
}

// CountInMB returns the number of non auxiliary parameters in millions.
func CountInMB(m Model) float64 {
	return float64(Count(m)) / 1e6
}
