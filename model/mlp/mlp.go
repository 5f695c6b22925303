// Package mlp implements a small two layer perceptron with an auxiliary
// classifier head, trained by plain SGD on the label smoothed cross-entropy.
package mlp

import "errors"
import "fmt"
import "math"

import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat/distuv"

import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/droppath"
import "github.com/neurlang/trainkit/latency"
import "github.com/neurlang/trainkit/loss"
import "github.com/neurlang/trainkit/params"

// AuxWeight scales the auxiliary head loss during training.
const AuxWeight = 0.4

var ErrInputSize = errors.New("mlp: input does not match the first layer")
var ErrSize = errors.New("mlp: layer sizes must be positive")

var _ latency.Module = (*MLP)(nil)
var _ params.Model = (*MLP)(nil)
var _ checkpoint.Stater = (*MLP)(nil)
var _ checkpoint.Loader = (*MLP)(nil)

// MLP is fc1 -> relu -> path dropout -> fc2, with aux_head reading the same hidden layer.
type MLP struct {
	fc1W, fc1B *mat.Dense
	fc2W, fc2B *mat.Dense
	auxW       *mat.Dense

	training bool

	// DropProb is the path dropout probability applied by Forward in training mode.
	DropProb float64

	// Masker draws the path dropout mask in training mode; nil draws Bernoulli samples.
	Masker droppath.Masker
}

// MustNew creates a new perceptron with in inputs, hidden units and classes outputs
func MustNew(in, hidden, classes int) *MLP {
	o, err := New(in, hidden, classes)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new perceptron with in inputs, hidden units and classes outputs
func New(in, hidden, classes int) (*MLP, error) {
	if in <= 0 || hidden <= 0 || classes <= 0 {
		return nil, fmt.Errorf("%w: %d, %d, %d", ErrSize, in, hidden, classes)
	}
	return &MLP{
		fc1W: initWeights(in, hidden),
		fc1B: mat.NewDense(1, hidden, nil),
		fc2W: initWeights(hidden, classes),
		fc2B: mat.NewDense(1, classes, nil),
		auxW: initWeights(hidden, classes),
	}, nil
}

// initWeights draws He initialized weights for a layer with fanIn inputs.
func initWeights(fanIn, fanOut int) *mat.Dense {
	dist := distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(fanIn))}
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = dist.Rand()
	}
	return mat.NewDense(fanIn, fanOut, data)
}

// Dims returns the number of inputs, hidden units and classes.
func (m *MLP) Dims() (in, hidden, classes int) {
	in, hidden = m.fc1W.Dims()
	_, classes = m.fc2W.Dims()
	return
}

// Train switches to training mode, enabling path dropout.
func (m *MLP) Train() { m.training = true }

// Eval switches to inference mode.
func (m *MLP) Eval() { m.training = false }

// Training reports whether the model is in training mode.
func (m *MLP) Training() bool { return m.training }

func addBias(dst *mat.Dense, b *mat.Dense) {
	bias := b.RawRowView(0)
	rows, _ := dst.Dims()
	for i := 0; i < rows; i++ {
		row := dst.RawRowView(i)
		for j := range row {
			row[j] += bias[j]
		}
	}
}

func relu(dst *mat.Dense) {
	rows, _ := dst.Dims()
	for i := 0; i < rows; i++ {
		row := dst.RawRowView(i)
		for j, v := range row {
			if v < 0 {
				row[j] = 0
			}
		}
	}
}

func (m *MLP) hidden(x *mat.Dense) (*mat.Dense, error) {
	in, _, _ := m.Dims()
	if _, c := x.Dims(); c != in {
		return nil, fmt.Errorf("%w: %d features, want %d", ErrInputSize, c, in)
	}
	var h mat.Dense
	h.Mul(x, m.fc1W)
	addBias(&h, m.fc1B)
	return &h, nil
}

func (m *MLP) head(h *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(h, m.fc2W)
	addBias(&out, m.fc2B)
	return &out
}

// Forward returns the class logits for the batch x. Path dropout with
// probability DropProb is applied to the hidden layer in training mode only.
func (m *MLP) Forward(x *mat.Dense) (*mat.Dense, error) {
	h, err := m.hidden(x)
	if err != nil {
		return nil, err
	}
	relu(h)
	if m.training {
		rows, _ := h.Dims()
		scaleRows(h, m.rowScale(rows, m.DropProb))
	}
	return m.head(h), nil
}

// ForwardAux returns the auxiliary head logits for the batch x.
func (m *MLP) ForwardAux(x *mat.Dense) (*mat.Dense, error) {
	h, err := m.hidden(x)
	if err != nil {
		return nil, err
	}
	relu(h)
	var out mat.Dense
	out.Mul(h, m.auxW)
	return &out, nil
}

// rowScale returns the path dropout factor of every row, 0 for dropped rows.
func (m *MLP) rowScale(rows int, dropProb float64) *mat.Dense {
	data := make([]float64, rows)
	for i := range data {
		data[i] = 1
	}
	return droppath.DropPath(mat.NewDense(rows, 1, data), dropProb, m.Masker)
}

func scaleRows(dst *mat.Dense, scale *mat.Dense) {
	rows, _ := dst.Dims()
	for i := 0; i < rows; i++ {
		s := scale.At(i, 0)
		row := dst.RawRowView(i)
		for j := range row {
			row[j] *= s
		}
	}
}

func sumRows(g *mat.Dense) *mat.Dense {
	_, c := g.Dims()
	out := mat.NewDense(1, c, nil)
	sum := out.RawRowView(0)
	rows, _ := g.Dims()
	for i := 0; i < rows; i++ {
		for j, v := range g.RawRowView(i) {
			sum[j] += v
		}
	}
	return out
}

func sgd(w, grad *mat.Dense, lr float64) {
	var step mat.Dense
	step.Scale(lr, grad)
	w.Sub(w, &step)
}

// Step performs one SGD step on the batch (x, y) and returns the main head loss
// before the update. The auxiliary head loss is added with weight AuxWeight.
func (m *MLP) Step(x *mat.Dense, y []int, lr, smoothing, dropProb float64) (float64, error) {
	z1, err := m.hidden(x)
	if err != nil {
		return 0, err
	}
	rows, _ := z1.Dims()

	a1 := mat.DenseCopyOf(z1)
	relu(a1)
	scale := m.rowScale(rows, dropProb)
	scaleRows(a1, scale)

	logits := m.head(a1)
	var aux mat.Dense
	aux.Mul(a1, m.auxW)

	l, g2, err := loss.CrossEntropyWithLabelSmoothingGrad(logits, y, smoothing)
	if err != nil {
		return 0, err
	}
	_, gA, err := loss.CrossEntropyWithLabelSmoothingGrad(&aux, y, smoothing)
	if err != nil {
		return 0, err
	}
	gA.Scale(AuxWeight, gA)

	var dW2, dWA, da1, tmp mat.Dense
	dW2.Mul(a1.T(), g2)
	dWA.Mul(a1.T(), gA)
	db2 := sumRows(g2)

	da1.Mul(g2, m.fc2W.T())
	tmp.Mul(gA, m.auxW.T())
	da1.Add(&da1, &tmp)
	scaleRows(&da1, scale)

	// relu derivative
	for i := 0; i < rows; i++ {
		z := z1.RawRowView(i)
		d := da1.RawRowView(i)
		for j := range d {
			if z[j] <= 0 {
				d[j] = 0
			}
		}
	}

	var dW1 mat.Dense
	dW1.Mul(x.T(), &da1)
	db1 := sumRows(&da1)

	sgd(m.fc1W, &dW1, lr)
	sgd(m.fc1B, db1, lr)
	sgd(m.fc2W, &dW2, lr)
	sgd(m.fc2B, db2, lr)
	sgd(m.auxW, &dWA, lr)
	return l, nil
}
