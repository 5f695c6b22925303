package meter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageMeter(t *testing.T) {
	m := NewAverageMeter()
	for _, v := range []float64{1, 2, 3} {
		m.Update(v, 1)
	}
	assert.InDelta(t, 2.0, m.Avg(), 1e-12)
	assert.InDelta(t, 6.0, m.Sum(), 1e-12)
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, 3.0, m.Cur())
}

func TestAverageMeterWeighted(t *testing.T) {
	m := NewAverageMeter()
	m.Update(10, 3)
	m.Update(2, 1)
	assert.InDelta(t, 8.0, m.Avg(), 1e-12)
	assert.Equal(t, 4, m.Count())
}

func TestAverageMeterZeroWeight(t *testing.T) {
	m := NewAverageMeter()
	m.Update(5, 0)
	assert.Equal(t, 0.0, m.Avg())
	assert.Equal(t, 5.0, m.Cur())
}

func TestAverageMeterReset(t *testing.T) {
	m := NewAverageMeter()
	m.Update(4, 2)
	m.Reset()
	assert.Equal(t, 0.0, m.Avg())
	assert.Equal(t, 0.0, m.Sum())
	assert.Equal(t, 0, m.Count())
}

func TestAverageMeterConcurrent(t *testing.T) {
	m := NewAverageMeter()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(1, 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, m.Count())
	assert.InDelta(t, 1.0, m.Avg(), 1e-12)
}
