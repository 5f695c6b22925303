// Package latency benchmarks the forward pass of a model module on the CPU or a CUDA device.
package latency

import "context"
import "errors"
import "fmt"
import "sort"
import "time"

import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat"
import "gonum.org/v1/gonum/stat/distuv"

// Warmup is the number of leading forward passes excluded from the measurement.
const Warmup = 100

var ErrMode = errors.New("latency: mode must be cpu or gpu")
var ErrTooFewIterations = errors.New("latency: measTimes must exceed the warm-up iterations")
var ErrNoGPU = errors.New("latency: built without cuda support")
var ErrInputSize = errors.New("latency: invalid input size")
var ErrNotDeviceModule = errors.New("latency: gpu mode needs a DeviceModule")

// Module is a model which can be switched to inference mode and run forward.
type Module interface {
	Eval()
	Forward(x *mat.Dense) (*mat.Dense, error)
}

// DeviceBuffer is a row major float64 batch resident in device memory.
type DeviceBuffer struct {
	Ptr  uintptr
	Rows int
	Cols int
}

// DeviceModule is a Module whose forward pass can run on a staged device
// buffer. GPU benchmarks time ForwardDevice, so the module must queue its
// work on the current CUDA context.
type DeviceModule interface {
	Module
	ForwardDevice(in DeviceBuffer) error
}

// Mode selects the device used for a benchmark.
type Mode string

const (
	CPU Mode = "cpu"
	GPU Mode = "gpu"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case CPU, GPU:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMode, s)
	}
}

// Result summarises a benchmark. Latencies are in milliseconds.
type Result struct {
	Mode       Mode
	Device     string
	Iterations int
	Mean       float64
	P50        float64
	P95        float64
}

// RandomInput returns a batchSize x prod(inputSize) matrix of standard normal values.
func RandomInput(inputSize []int, batchSize int) (*mat.Dense, error) {
	var features = 1
	for _, d := range inputSize {
		features *= d
	}
	if batchSize <= 0 || features <= 0 {
		return nil, fmt.Errorf("%w: batch %d, input %v", ErrInputSize, batchSize, inputSize)
	}
	data := make([]float64, batchSize*features)
	for i := range data {
		data[i] = distuv.UnitNormal.Rand()
	}
	return mat.NewDense(batchSize, features, data), nil
}

// Measure returns the mean forward latency in milliseconds of module on a
// random batch of batchSize inputs shaped inputSize, ignoring the warm-up passes.
func Measure(ctx context.Context, module Module, inputSize []int, batchSize, measTimes int, mode Mode) (float64, error) {
	input, err := RandomInput(inputSize, batchSize)
	if err != nil {
		return 0, err
	}
	res, _, err := Benchmark(ctx, module, input, measTimes, mode)
	if err != nil {
		return 0, err
	}
	return res.Mean, nil
}

// MeasureForward returns the mean forward latency in milliseconds of module on
// input together with the output of the last forward pass.
func MeasureForward(ctx context.Context, module Module, input *mat.Dense, measTimes int) (float64, *mat.Dense, error) {
	res, out, err := Benchmark(ctx, module, input, measTimes, CPU)
	if err != nil {
		return 0, nil, err
	}
	return res.Mean, out, nil
}

// Benchmark runs measTimes forward passes of module on input using the device
// selected by mode and reports statistics over the passes after the warm-up.
// In GPU mode input is copied to the device once, module must implement
// DeviceModule, each timed pass ends when the device has finished its queued
// work, and out is nil.
func Benchmark(ctx context.Context, module Module, input *mat.Dense, measTimes int, mode Mode) (res Result, out *mat.Dense, err error) {
	if _, err = ParseMode(string(mode)); err != nil {
		return
	}
	if measTimes <= Warmup {
		err = fmt.Errorf("%w: %d <= %d", ErrTooFewIterations, measTimes, Warmup)
		return
	}
	dev, err := newDevice(mode)
	if err != nil {
		return
	}
	defer func() {
		if cerr := dev.Close(); err == nil {
			err = cerr
		}
	}()

	var forward func() error
	if mode == GPU {
		dm, ok := module.(DeviceModule)
		if !ok {
			err = fmt.Errorf("%w: %T", ErrNotDeviceModule, module)
			return
		}
		var buf DeviceBuffer
		if buf, err = dev.Stage(input); err != nil {
			return
		}
		forward = func() error { return dm.ForwardDevice(buf) }
	} else {
		forward = func() (ferr error) {
			out, ferr = module.Forward(input)
			return
		}
	}

	module.Eval()

	var latency = make([]float64, 0, measTimes-Warmup)
	for i := 0; i < measTimes; i++ {
		if err = ctx.Err(); err != nil {
			return
		}
		start := time.Now()
		if err = forward(); err != nil {
			return
		}
		if err = dev.Sync(); err != nil {
			return
		}
		if i >= Warmup {
			latency = append(latency, float64(time.Since(start))/float64(time.Millisecond))
		}
	}

	sort.Float64s(latency)
	res = Result{
		Mode:       mode,
		Device:     dev.Name(),
		Iterations: len(latency),
		Mean:       stat.Mean(latency, nil),
		P50:        stat.Quantile(0.5, stat.Empirical, latency, nil),
		P95:        stat.Quantile(0.95, stat.Empirical, latency, nil),
	}
	zap.L().Info(fmt.Sprintf("%v ms", res.Mean),
		zap.String("mode", string(mode)),
		zap.String("device", res.Device),
		zap.Float64("ms", res.Mean),
		zap.Float64("p95_ms", res.P95))
	return
}
