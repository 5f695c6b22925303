package trainer

import "fmt"

import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/trainkit/meter"

// Batch is one mini batch of samples and their class labels.
type Batch struct {
	X *mat.Dense
	Y []int
}

// Len returns the number of samples in the batch.
func (b Batch) Len() int {
	return len(b.Y)
}

// Stepper is a model trained by single SGD steps.
type Stepper interface {
	Train()
	Step(x *mat.Dense, y []int, lr, smoothing, dropProb float64) (float64, error)
}

// NewTrainFunc returns a function which trains net for one epoch on the
// batches returned by data. The mean training loss is accumulated in objs,
// which is reset at the start of each epoch.
func NewTrainFunc(net Stepper, data func(epoch int) []Batch, lr, smoothing float64,
	objs *meter.AverageMeter) func(epoch int, dropProb float64) error {
	return func(epoch int, dropProb float64) error {
		objs.Reset()
		net.Train()
		for step, b := range data(epoch) {
			l, err := net.Step(b.X, b.Y, lr, smoothing, dropProb)
			if err != nil {
				return fmt.Errorf("trainer: epoch %d step %d: %w", epoch, step, err)
			}
			objs.Update(l, b.Len())
		}
		zap.L().Debug("train epoch done",
			zap.Int("epoch", epoch),
			zap.Float64("drop_prob", dropProb),
			zap.Float64("loss", objs.Avg()))
		return nil
	}
}
