//go:build cuda

package latency

import "fmt"
import "unsafe"

import "gonum.org/v1/gonum/mat"
import "gorgonia.org/cu"

// gpuDevice keeps a copy of the benchmark input on CUDA device 0. Sync blocks
// until the context has finished all queued work.
type gpuDevice struct {
	ctx  cu.CUContext
	name string
	buf  cu.DevicePtr
	size int64
}

func newGPUDevice() (device, error) {
	dev, err := cu.GetDevice(0)
	if err != nil {
		return nil, fmt.Errorf("latency: get device: %w", err)
	}
	name, err := dev.Name()
	if err != nil {
		return nil, fmt.Errorf("latency: device name: %w", err)
	}
	mem, err := dev.TotalMem()
	if err != nil {
		return nil, fmt.Errorf("latency: device memory: %w", err)
	}
	ctx, err := dev.MakeContext(cu.SchedAuto)
	if err != nil {
		return nil, fmt.Errorf("latency: create context: %w", err)
	}
	// Lock context for thread safety
	if err = ctx.Lock(); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("latency: lock context: %w", err)
	}
	return &gpuDevice{ctx: ctx, name: fmt.Sprintf("%s (%d bytes)", name, mem)}, nil
}

func (d *gpuDevice) Name() string {
	return d.name
}

func (d *gpuDevice) Stage(x *mat.Dense) (DeviceBuffer, error) {
	r, c := x.Dims()
	data := mat.DenseCopyOf(x).RawMatrix().Data
	if err := cu.SetCurrentContext(d.ctx); err != nil {
		return DeviceBuffer{}, fmt.Errorf("latency: set context: %w", err)
	}
	size := int64(len(data)) * int64(unsafe.Sizeof(data[0]))
	buf, err := cu.MemAlloc(size)
	if err != nil {
		return DeviceBuffer{}, fmt.Errorf("latency: allocate input: %w", err)
	}
	d.buf, d.size = buf, size
	if err = cu.MemcpyHtoD(d.buf, unsafe.Pointer(&data[0]), size); err != nil {
		return DeviceBuffer{}, fmt.Errorf("latency: copy input to device: %w", err)
	}
	return DeviceBuffer{Ptr: uintptr(d.buf), Rows: r, Cols: c}, nil
}

func (d *gpuDevice) Sync() error {
	if err := cu.Synchronize(); err != nil {
		return fmt.Errorf("latency: sync device: %w", err)
	}
	return nil
}

func (d *gpuDevice) Close() error {
	var err error
	if d.size != 0 {
		err = cu.MemFree(d.buf)
		d.size = 0
	}
	d.ctx.Unlock()
	d.ctx.Destroy()
	return err
}
