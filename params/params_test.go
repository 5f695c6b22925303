package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeModel []Parameter

func (f fakeModel) NamedParameters() []Parameter {
	return f
}

func TestCountInMB(t *testing.T) {
	m := fakeModel{
		{Name: "conv1.weight", Shape: []int{64, 3, 3, 3}},
		{Name: "conv1.bias", Shape: []int{64}},
		{Name: "aux_head.weight", Shape: []int{1000, 1000}},
		{Name: "classifier.weight", Shape: []int{1000, 1000}},
		{Name: "scale", Shape: nil},
	}
	assert.Equal(t, 64*27+64+1000*1000+1, Count(m))
	assert.InDelta(t, float64(64*27+64+1000*1000+1)/1e6, CountInMB(m), 1e-12)
}

func TestCountEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CountInMB(fakeModel{}))
}

func TestParameterSizeZeroDim(t *testing.T) {
	assert.Equal(t, 0, Parameter{Name: "w", Shape: []int{0, 5}}.Size())
}
