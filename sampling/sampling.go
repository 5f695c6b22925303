// Package sampling draws distinct indices proportionally to their weights.
package sampling

import "errors"
import "fmt"
import "math"
import "math/rand"

import "gonum.org/v1/gonum/floats"

var ErrNegativeWeight = errors.New("sampling: negative or NaN weight")
var ErrInfiniteTotal = errors.New("sampling: weights sum to infinity")
var ErrTooMany = errors.New("sampling: more samples requested than positive weights")

// Pick returns the first index k with cum[k-1] <= u < cum[k], where cum holds
// cumulative sums. Indices with zero weight are never returned. Values of u
// at or beyond the total select the last positive index.
func Pick(cum []float64, u float64) int {
	var prev float64
	var last = -1
	for k, c := range cum {
		if c > prev {
			if u >= prev && u < c {
				return k
			}
			last = k
		}
		prev = c
	}
	return last
}

// ProdSample draws n distinct indices of weights, each draw choosing index k
// with probability proportional to weights[k] among the ones not drawn yet.
// The weights need not sum to one. r may be nil to use the global source.
func ProdSample(weights []float64, n int, r *rand.Rand) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("sampling: negative sample count %d", n)
	}
	var positive int
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return nil, fmt.Errorf("%w: weights[%d] = %v", ErrNegativeWeight, i, w)
		}
		if w > 0 {
			positive++
		}
	}
	if n > positive {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooMany, n, positive)
	}
	var sampled = make([]int, 0, n)
	if n == 0 {
		return sampled, nil
	}
	if total := floats.Sum(weights); math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total %v", ErrInfiniteTotal, total)
	}

	var float = rand.Float64
	if r != nil {
		float = r.Float64
	}

	// drawn indices get weight zero, which equals redrawing until a new index comes up
	var remaining = append([]float64(nil), weights...)
	var cum = make([]float64, len(weights))
	for len(sampled) < n {
		floats.CumSum(cum, remaining)
		k := Pick(cum, float()*cum[len(cum)-1])
		remaining[k] = 0
		sampled = append(sampled, k)
	}
	return sampled, nil
}
