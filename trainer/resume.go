package trainer

import "github.com/neurlang/trainkit/checkpoint"

// Resume loads the weights stored at dstmodel into net when resume is set.
func Resume(net checkpoint.Loader, resume bool, dstmodel string) error {
	if resume && dstmodel != "" {
		return checkpoint.LoadModel(net, dstmodel)
	}
	return nil
}
