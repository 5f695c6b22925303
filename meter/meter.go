// Package meter implements running averages of per-batch training metrics.
package meter

import "sync"

// AverageMeter tracks the weighted running average of the provided values.
// It is created per metric, updated per batch and reset at epoch end.
type AverageMeter struct {
	mut sync.Mutex
	sum float64
	cnt int
	avg float64
	cur float64
}

// NewAverageMeter returns a meter with zero sum, count and average.
func NewAverageMeter() *AverageMeter {
	return new(AverageMeter)
}

// Reset clears the meter.
func (m *AverageMeter) Reset() {
	m.mut.Lock()
	defer m.mut.Unlock()
	m.sum, m.cnt, m.avg, m.cur = 0, 0, 0, 0
}

// Update records val observed n times (usually val is a batch mean and n the batch size).
func (m *AverageMeter) Update(val float64, n int) {
	m.mut.Lock()
	defer m.mut.Unlock()
	m.cur = val
	m.sum += val * float64(n)
	m.cnt += n
	if m.cnt != 0 {
		m.avg = m.sum / float64(m.cnt)
	}
}

// Avg returns the running average.
func (m *AverageMeter) Avg() float64 {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.avg
}

// Sum returns the weighted sum of all values.
func (m *AverageMeter) Sum() float64 {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.sum
}

// Count returns the total weight.
func (m *AverageMeter) Count() int {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.cnt
}

// Cur returns the last value passed to Update.
func (m *AverageMeter) Cur() float64 {
	m.mut.Lock()
	defer m.mut.Unlock()
	return m.cur
}
