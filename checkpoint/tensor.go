package checkpoint

import "errors"
import "fmt"
import "sort"

import "gonum.org/v1/gonum/mat"

var ErrShape = errors.New("checkpoint: tensor shape does not match data")
var ErrMissingKey = errors.New("checkpoint: missing key in state dict")

// Tensor is a dense row-major parameter tensor.
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Validate checks that the data length equals the shape product.
func (t Tensor) Validate() error {
	var n = 1
	for _, d := range t.Shape {
		n *= d
	}
	if n != len(t.Data) {
		return fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShape, t.Shape, n, len(t.Data))
	}
	return nil
}

// FromDense copies a matrix into a tensor of shape [rows, cols].
func FromDense(m mat.Matrix) Tensor {
	r, c := m.Dims()
	t := Tensor{Shape: []int{r, c}, Data: make([]float64, 0, r*c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.Data = append(t.Data, m.At(i, j))
		}
	}
	return t
}

// CopyTo copies a two dimensional tensor into dst, which must have the same dims.
func (t Tensor) CopyTo(dst *mat.Dense) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r, c := dst.Dims()
	if len(t.Shape) != 2 || t.Shape[0] != r || t.Shape[1] != c {
		return fmt.Errorf("%w: have %v, want [%d %d]", ErrShape, t.Shape, r, c)
	}
	dst.Copy(mat.NewDense(r, c, t.Data))
	return nil
}

// StateDict maps parameter names to tensors.
type StateDict map[string]Tensor

// Keys returns the sorted parameter names.
func (s StateDict) Keys() (o []string) {
	for k := range s {
		o = append(o, k)
	}
	sort.Strings(o)
	return
}

// Get returns the tensor stored under name.
func (s StateDict) Get(name string) (Tensor, error) {
	t, ok := s[name]
	if !ok {
		return Tensor{}, fmt.Errorf("%w: %s", ErrMissingKey, name)
	}
	return t, t.Validate()
}

// Stater produces the state dict of a model.
type Stater interface {
	StateDict() StateDict
}

// Loader restores a model from a state dict.
type Loader interface {
	LoadStateDict(StateDict) error
}

// State is the training state stored in checkpoint files.
type State struct {
	Epoch     int       `json:"epoch"`
	BestTop1  Float     `json:"best_top1"`
	StateDict StateDict `json:"state_dict"`
	Extra     Metrics   `json:"extra,omitempty"`
}
