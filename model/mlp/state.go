package mlp

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/params"

type namedWeight struct {
	name string
	w    *mat.Dense
}

func (m *MLP) named() []namedWeight {
	return []namedWeight{
		{"fc1.weight", m.fc1W},
		{"fc1.bias", m.fc1B},
		{"fc2.weight", m.fc2W},
		{"fc2.bias", m.fc2B},
		{"aux_head.weight", m.auxW},
	}
}

// NamedParameters lists the parameter shapes, bias vectors having one dimension.
func (m *MLP) NamedParameters() (o []params.Parameter) {
	for _, p := range m.named() {
		r, c := p.w.Dims()
		shape := []int{r, c}
		if r == 1 {
			shape = []int{c}
		}
		o = append(o, params.Parameter{Name: p.name, Shape: shape})
	}
	return
}

// StateDict copies all parameters, the auxiliary head included.
func (m *MLP) StateDict() checkpoint.StateDict {
	sd := make(checkpoint.StateDict)
	for _, p := range m.named() {
		sd[p.name] = checkpoint.FromDense(p.w)
	}
	return sd
}

// LoadStateDict overwrites all parameters. The sizes must match the model.
func (m *MLP) LoadStateDict(sd checkpoint.StateDict) error {
	for _, p := range m.named() {
		t, err := sd.Get(p.name)
		if err != nil {
			return err
		}
		if err = t.CopyTo(p.w); err != nil {
			return err
		}
	}
	return nil
}
