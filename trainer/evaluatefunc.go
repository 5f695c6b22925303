package trainer

import "go.uber.org/zap"

import "github.com/neurlang/trainkit/accuracy"
import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/latency"
import "github.com/neurlang/trainkit/loss"
import "github.com/neurlang/trainkit/meter"

// Meters are the running averages filled by an evaluation.
type Meters struct {
	Top1 *meter.AverageMeter
	Top5 *meter.AverageMeter
	Loss *meter.AverageMeter
}

// NewMeters returns empty meters.
func NewMeters() Meters {
	return Meters{
		Top1: meter.NewAverageMeter(),
		Top5: meter.NewAverageMeter(),
		Loss: meter.NewAverageMeter(),
	}
}

// Evaluate runs net in inference mode over batches and accumulates the
// label smoothed loss and the top-1 and top-5 accuracy into m. When the
// model has fewer than 5 classes top-5 is capped at the class count.
func Evaluate(net latency.Module, batches []Batch, smoothing float64, m Meters) error {
	net.Eval()
	for _, b := range batches {
		out, err := net.Forward(b.X)
		if err != nil {
			return err
		}
		l, err := loss.CrossEntropyWithLabelSmoothing(out, b.Y, smoothing)
		if err != nil {
			return err
		}
		_, classes := out.Dims()
		top5 := 5
		if classes < top5 {
			top5 = classes
		}
		acc, err := accuracy.Accuracy(out, b.Y, 1, top5)
		if err != nil {
			return err
		}
		m.Loss.Update(l, b.Len())
		m.Top1.Update(acc[0], b.Len())
		m.Top5.Update(acc[1], b.Len())
	}
	return nil
}

// NewEvaluateFunc returns a function which evaluates net with testFunc and
// saves a checkpoint into dir, marked best whenever top-1 improves over *best.
// An empty dir disables saving.
func NewEvaluateFunc(net checkpoint.Stater, dir string, best *float64,
	testFunc func(m Meters) error) func(epoch int) (float64, error) {

	return func(epoch int) (float64, error) {
		m := NewMeters()
		if err := testFunc(m); err != nil {
			return 0, err
		}
		top1 := m.Top1.Avg()

		var isBest = true
		if best != nil {
			isBest = top1 > *best
			if isBest {
				*best = top1
			}
		}

		zap.L().Info("valid",
			zap.Int("epoch", epoch),
			zap.Float64("top1", top1),
			zap.Float64("top5", m.Top5.Avg()),
			zap.Float64("loss", m.Loss.Avg()),
			zap.Bool("best", isBest))

		if dir == "" {
			return top1, nil
		}
		state := checkpoint.State{
			Epoch:     epoch,
			BestTop1:  checkpoint.Float(top1),
			StateDict: net.StateDict(),
			Extra: map[string]float64{
				"top1": top1,
				"top5": m.Top5.Avg(),
				"loss": m.Loss.Avg(),
			},
		}
		if best != nil {
			state.BestTop1 = checkpoint.Float(*best)
		}
		return top1, checkpoint.SaveCheckpoint(state, isBest, dir)
	}
}
