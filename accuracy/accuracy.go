// Package accuracy computes top-k classification accuracy over a batch of class scores.
package accuracy

import "errors"
import "fmt"
import "runtime"
import "sync/atomic"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/trainkit/parallel"

// DefaultTopK is used when Accuracy is called without any k.
var DefaultTopK = []int{1, 5}

var ErrEmptyBatch = errors.New("accuracy: empty batch")
var ErrBatchMismatch = errors.New("accuracy: output rows and targets differ")
var ErrBadK = errors.New("accuracy: invalid k")
var ErrBadTarget = errors.New("accuracy: target out of range")

// Rank returns the position of class target when the row is sorted by
// descending score. Ties are ordered by lower class index first.
func Rank(row []float64, target int) int {
	var rank int
	var score = row[target]
	for j, v := range row {
		if v > score || (v == score && j < target) {
			rank++
		}
	}
	return rank
}

// Accuracy returns, for each k in topk, the percentage of rows of output
// (batch x classes) whose target class is among the k highest scores.
func Accuracy(output *mat.Dense, target []int, topk ...int) ([]float64, error) {
	if len(topk) == 0 {
		topk = DefaultTopK
	}
	rows, classes := output.Dims()
	if rows == 0 || len(target) == 0 {
		return nil, ErrEmptyBatch
	}
	if rows != len(target) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrBatchMismatch, rows, len(target))
	}
	var maxk int
	for _, k := range topk {
		if k < 1 {
			return nil, fmt.Errorf("%w: %d", ErrBadK, k)
		}
		if k > maxk {
			maxk = k
		}
	}
	if maxk > classes {
		return nil, fmt.Errorf("%w: k=%d exceeds %d classes", ErrBadK, maxk, classes)
	}

	// correct[r] counts rows whose target ranks at position r
	var correct = make([]atomic.Int64, maxk)
	err := parallel.ForEach(rows, runtime.NumCPU(), func(i int) error {
		t := target[i]
		if t < 0 || t >= classes {
			return fmt.Errorf("%w: row %d target %d", ErrBadTarget, i, t)
		}
		if r := Rank(output.RawRowView(i), t); r < maxk {
			correct[r].Add(1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var res = make([]float64, len(topk))
	for i, k := range topk {
		var n int64
		for r := 0; r < k; r++ {
			n += correct[r].Load()
		}
		res[i] = float64(n) * 100.0 / float64(rows)
	}
	return res, nil
}
