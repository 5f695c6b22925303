package loss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCrossEntropyNoSmoothing(t *testing.T) {
	pred := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		0, 0, 0,
	})
	got, err := CrossEntropyWithLabelSmoothing(pred, []int{2, 0}, 0)
	require.NoError(t, err)

	lse := math.Log(math.Exp(1) + math.Exp(2) + math.Exp(3))
	want := ((lse - 3) + math.Log(3)) / 2
	assert.InDelta(t, want, got, 1e-12)
}

func TestCrossEntropySmoothingUniformLogits(t *testing.T) {
	pred := mat.NewDense(1, 4, []float64{5, 5, 5, 5})
	for _, s := range []float64{0, 0.1, 1} {
		got, err := CrossEntropyWithLabelSmoothing(pred, []int{1}, s)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(4), got, 1e-12)
	}
}

func TestCrossEntropySmoothing(t *testing.T) {
	pred := mat.NewDense(1, 2, []float64{0, math.Log(3)})
	// softmax = [0.25, 0.75], soft target = [0.05, 0.95]
	got, err := CrossEntropyWithLabelSmoothing(pred, []int{1}, 0.1)
	require.NoError(t, err)
	want := -(0.05*math.Log(0.25) + 0.95*math.Log(0.75))
	assert.InDelta(t, want, got, 1e-12)
}

func TestCrossEntropyStable(t *testing.T) {
	pred := mat.NewDense(1, 2, []float64{1000, 0})
	got, err := CrossEntropyWithLabelSmoothing(pred, []int{0}, 0)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0, got, 1e-12)
}

func TestCrossEntropyGrad(t *testing.T) {
	pred := mat.NewDense(2, 3, []float64{0.3, -1, 2, 1, 1, 0})
	target := []int{2, 1}
	const smoothing = 0.2

	l, grad, err := CrossEntropyWithLabelSmoothingGrad(pred, target, smoothing)
	require.NoError(t, err)
	l2, err := CrossEntropyWithLabelSmoothing(pred, target, smoothing)
	require.NoError(t, err)
	assert.InDelta(t, l2, l, 1e-12)

	// central differences
	const h = 1e-6
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			v := pred.At(i, j)
			pred.Set(i, j, v+h)
			up, _ := CrossEntropyWithLabelSmoothing(pred, target, smoothing)
			pred.Set(i, j, v-h)
			down, _ := CrossEntropyWithLabelSmoothing(pred, target, smoothing)
			pred.Set(i, j, v)
			assert.InDelta(t, (up-down)/(2*h), grad.At(i, j), 1e-6, "grad[%d][%d]", i, j)
		}
	}
}

func TestCrossEntropyErrors(t *testing.T) {
	pred := mat.NewDense(2, 3, nil)
	_, err := CrossEntropyWithLabelSmoothing(pred, []int{0}, 0)
	assert.ErrorIs(t, err, ErrBatchMismatch)
	_, err = CrossEntropyWithLabelSmoothing(pred, []int{0, 3}, 0)
	assert.ErrorIs(t, err, ErrBadTarget)
	_, err = CrossEntropyWithLabelSmoothing(pred, []int{0, 1}, 1.5)
	assert.ErrorIs(t, err, ErrSmoothing)
	_, err = CrossEntropyWithLabelSmoothing(pred, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
