package latency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fakeModule struct {
	eval  bool
	calls int
	delay time.Duration
	fail  int
}

func (f *fakeModule) Eval() { f.eval = true }

func (f *fakeModule) Forward(x *mat.Dense) (*mat.Dense, error) {
	f.calls++
	if f.fail != 0 && f.calls == f.fail {
		return nil, errors.New("forward failed")
	}
	time.Sleep(f.delay)
	var out mat.Dense
	out.Scale(2, x)
	return &out, nil
}

func TestMeasure(t *testing.T) {
	m := &fakeModule{delay: 100 * time.Microsecond}
	ms, err := Measure(context.Background(), m, []int{3, 2}, 4, Warmup+20, CPU)
	require.NoError(t, err)
	assert.True(t, m.eval)
	assert.Equal(t, Warmup+20, m.calls)
	assert.GreaterOrEqual(t, ms, 0.1)
}

func TestMeasureForwardReturnsOutput(t *testing.T) {
	m := &fakeModule{}
	input := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	_, out, err := MeasureForward(context.Background(), m, input, Warmup+1)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{2, 4, 6, 8}), out))
}

func TestBenchmarkResult(t *testing.T) {
	m := &fakeModule{}
	res, _, err := Benchmark(context.Background(), m, mat.NewDense(1, 1, []float64{1}), Warmup+50, CPU)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Iterations)
	assert.Equal(t, CPU, res.Mode)
	assert.NotEmpty(t, res.Device)
	assert.LessOrEqual(t, res.P50, res.P95)
}

func TestMeasureErrors(t *testing.T) {
	ctx := context.Background()
	m := &fakeModule{}

	_, err := Measure(ctx, m, []int{2}, 1, Warmup, CPU)
	assert.ErrorIs(t, err, ErrTooFewIterations)

	_, err = Measure(ctx, m, []int{2}, 1, Warmup+1, Mode("tpu"))
	assert.ErrorIs(t, err, ErrMode)

	_, err = Measure(ctx, m, []int{2}, 0, Warmup+1, CPU)
	assert.ErrorIs(t, err, ErrInputSize)

	_, err = Measure(ctx, &fakeModule{fail: 3}, []int{2}, 1, Warmup+1, CPU)
	assert.EqualError(t, err, "forward failed")
}

func TestMeasureCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &fakeModule{}
	_, err := Measure(ctx, m, []int{2}, 1, Warmup+1, CPU)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, m.calls)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("gpu")
	require.NoError(t, err)
	assert.Equal(t, GPU, m)
	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrMode)
}
