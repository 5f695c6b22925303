package latency

import "fmt"

import "github.com/klauspost/cpuid/v2"
import "gonum.org/v1/gonum/mat"

// device holds the benchmark input and waits for queued work.
type device interface {
	Name() string
	Stage(x *mat.Dense) (DeviceBuffer, error)
	Sync() error
	Close() error
}

func newDevice(mode Mode) (device, error) {
	if mode == GPU {
		return newGPUDevice()
	}
	return cpuDevice{}, nil
}

type cpuDevice struct{}

// Name describes the host processor.
func (cpuDevice) Name() string {
	return fmt.Sprintf("%s (%d cores, %d threads, avx2=%v, avx512=%v)",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores,
		cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ))
}

func (cpuDevice) Stage(x *mat.Dense) (DeviceBuffer, error) {
	r, c := x.Dims()
	return DeviceBuffer{Rows: r, Cols: c}, nil
}

func (cpuDevice) Sync() error  { return nil }
func (cpuDevice) Close() error { return nil }
