//go:build !cuda

package latency

func newGPUDevice() (device, error) {
	return nil, ErrNoGPU
}
