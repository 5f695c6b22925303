package accuracy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAccuracyTopK(t *testing.T) {
	output := mat.NewDense(4, 3, []float64{
		0.1, 0.7, 0.2, // top1 = 1
		0.5, 0.3, 0.2, // top1 = 0
		0.2, 0.3, 0.5, // top1 = 2
		0.6, 0.3, 0.1, // top1 = 0
	})
	target := []int{1, 1, 0, 2}

	res, err := Accuracy(output, target, 1, 2, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.InDelta(t, 25.0, res[0], 1e-9)
	assert.InDelta(t, 50.0, res[1], 1e-9)
	assert.InDelta(t, 100.0, res[2], 1e-9)
}

func TestAccuracyDefaultTopK(t *testing.T) {
	data := make([]float64, 2*6)
	for i := 0; i < 6; i++ {
		data[i] = float64(i)
		data[6+i] = float64(6 - i)
	}
	output := mat.NewDense(2, 6, data)
	res, err := Accuracy(output, []int{5, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 50}, res)
}

func TestAccuracyTies(t *testing.T) {
	output := mat.NewDense(1, 3, []float64{1, 1, 1})
	res, err := Accuracy(output, []int{2}, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 100}, res)
}

func TestRank(t *testing.T) {
	assert.Equal(t, 0, Rank([]float64{3, 1, 2}, 0))
	assert.Equal(t, 2, Rank([]float64{3, 1, 2}, 1))
	assert.Equal(t, 1, Rank([]float64{2, 2}, 1))
}

func TestAccuracyErrors(t *testing.T) {
	output := mat.NewDense(2, 3, nil)

	_, err := Accuracy(output, []int{0})
	assert.ErrorIs(t, err, ErrBatchMismatch)

	_, err = Accuracy(output, []int{0, 1}, 4)
	assert.ErrorIs(t, err, ErrBadK)

	_, err = Accuracy(output, []int{0, 1}, 0)
	assert.ErrorIs(t, err, ErrBadK)

	_, err = Accuracy(output, []int{0, 3}, 1)
	assert.ErrorIs(t, err, ErrBadTarget)

	_, err = Accuracy(output, nil, 1)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
