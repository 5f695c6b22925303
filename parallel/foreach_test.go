package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsEveryIndex(t *testing.T) {
	var seen [100]atomic.Int32
	err := ForEach(len(seen), 8, func(i int) error {
		seen[i].Add(1)
		return nil
	})
	require.NoError(t, err)
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "index %d", i)
	}
}

func TestForEachLimit(t *testing.T) {
	var running, peak atomic.Int32
	err := ForEach(64, 3, func(i int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEachError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(10, 0, func(i int) error {
		if i == 4 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEachEmpty(t *testing.T) {
	called := false
	require.NoError(t, ForEach(0, 4, func(int) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}
