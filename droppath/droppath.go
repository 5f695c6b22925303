// Package droppath implements path dropout (stochastic depth) on a batch of samples.
package droppath

import "sync/atomic"

import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat/distuv"

import "github.com/neurlang/trainkit/hash"

// Masker decides whether the sample at row survives with probability keep.
type Masker interface {
	Keep(row int, keep float64) bool
}

// BernoulliMasker draws independent keep decisions from a Bernoulli distribution.
// Dist.P is overwritten on every draw; a zero Dist uses the global source.
type BernoulliMasker struct {
	Dist distuv.Bernoulli
}

// Keep implements Masker.
func (b BernoulliMasker) Keep(row int, keep float64) bool {
	d := b.Dist
	d.P = keep
	return d.Rand() == 1
}

// HashMasker derives reproducible keep decisions from Seed. Every call
// advances a draw counter, so successive batches get fresh masks while the
// whole sequence of decisions depends only on Seed.
type HashMasker struct {
	Seed uint32

	draws atomic.Uint32
}

// Keep implements Masker.
func (h *HashMasker) Keep(row int, keep float64) bool {
	return hash.Bernoulli(h.draws.Add(1)-1, h.Seed, keep)
}

// Reset restarts the sequence of decisions.
func (h *HashMasker) Reset() {
	h.draws.Store(0)
}

// DropPath zeroes each row of x with probability dropProb and scales the
// surviving rows by 1/(1-dropProb), so the expected value is unchanged.
// x is modified in place and returned. A nil masker uses BernoulliMasker.
func DropPath(x *mat.Dense, dropProb float64, m Masker) *mat.Dense {
	if dropProb <= 0 {
		return x
	}
	if m == nil {
		m = BernoulliMasker{}
	}
	keep := 1 - dropProb
	rows, _ := x.Dims()
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		if keep > 0 && m.Keep(i, keep) {
			for j := range row {
				row[j] /= keep
			}
			continue
		}
		for j := range row {
			row[j] = 0
		}
	}
	return x
}

// Schedule scales the drop probability linearly with training progress.
func Schedule(base float64, epoch, epochs int) float64 {
	if epochs <= 0 {
		return base
	}
	if epoch > epochs {
		epoch = epochs
	}
	return base * float64(epoch) / float64(epochs)
}
