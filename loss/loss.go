// Package loss implements cross-entropy with label smoothing over a batch of logits.
package loss

import "errors"
import "fmt"
import "math"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

var ErrEmptyBatch = errors.New("loss: empty batch")
var ErrBatchMismatch = errors.New("loss: prediction rows and targets differ")
var ErrBadTarget = errors.New("loss: target out of range")
var ErrSmoothing = errors.New("loss: label smoothing outside [0, 1]")

// LogSoftmax writes the log-softmax of row into dst and returns dst.
func LogSoftmax(dst, row []float64) []float64 {
	lse := floats.LogSumExp(row)
	for j, v := range row {
		dst[j] = v - lse
	}
	return dst
}

// SoftTarget returns the smoothed one-hot probability of class j for a row labelled target.
func SoftTarget(j, target, classes int, smoothing float64) float64 {
	p := smoothing / float64(classes)
	if j == target {
		p += 1 - smoothing
	}
	return p
}

func check(pred *mat.Dense, target []int, smoothing float64) (rows, classes int, err error) {
	rows, classes = pred.Dims()
	if rows == 0 || len(target) == 0 {
		return 0, 0, ErrEmptyBatch
	}
	if rows != len(target) {
		return 0, 0, fmt.Errorf("%w: %d rows, %d targets", ErrBatchMismatch, rows, len(target))
	}
	if smoothing < 0 || smoothing > 1 || math.IsNaN(smoothing) {
		return 0, 0, fmt.Errorf("%w: %v", ErrSmoothing, smoothing)
	}
	for i, t := range target {
		if t < 0 || t >= classes {
			return 0, 0, fmt.Errorf("%w: row %d target %d", ErrBadTarget, i, t)
		}
	}
	return rows, classes, nil
}

// CrossEntropyWithLabelSmoothing returns the mean over rows of the cross-entropy
// between softmax(pred) and the one-hot target smoothed towards the uniform
// distribution by label smoothing.
func CrossEntropyWithLabelSmoothing(pred *mat.Dense, target []int, smoothing float64) (float64, error) {
	rows, classes, err := check(pred, target, smoothing)
	if err != nil {
		return 0, err
	}
	var logp = make([]float64, classes)
	var total float64
	for i := 0; i < rows; i++ {
		LogSoftmax(logp, pred.RawRowView(i))
		for j, lp := range logp {
			total -= SoftTarget(j, target[i], classes, smoothing) * lp
		}
	}
	return total / float64(rows), nil
}

// CrossEntropyWithLabelSmoothingGrad returns the loss together with its
// gradient with respect to pred.
func CrossEntropyWithLabelSmoothingGrad(pred *mat.Dense, target []int, smoothing float64) (float64, *mat.Dense, error) {
	rows, classes, err := check(pred, target, smoothing)
	if err != nil {
		return 0, nil, err
	}
	var grad = mat.NewDense(rows, classes, nil)
	var total float64
	for i := 0; i < rows; i++ {
		g := grad.RawRowView(i)
		LogSoftmax(g, pred.RawRowView(i))
		for j, lp := range g {
			soft := SoftTarget(j, target[i], classes, smoothing)
			total -= soft * lp
			g[j] = (math.Exp(lp) - soft) / float64(rows)
		}
	}
	return total / float64(rows), grad, nil
}
