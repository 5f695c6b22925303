package trainer

import "context"
import "fmt"

import "go.uber.org/zap"

import "github.com/neurlang/trainkit/droppath"

// NewLoopFunc returns the epoch loop. Each epoch trains with the path dropout
// probability scaled linearly from 0 to dropPathProb and then evaluates. The
// loop ends after epochs epochs, at 100% accuracy, or when ctx is done.
func NewLoopFunc(epochs int, dropPathProb float64, train func(epoch int, dropProb float64) error,
	evaluate func(epoch int) (float64, error)) func(ctx context.Context) error {

	return func(ctx context.Context) error {
		for epoch := 0; epoch < epochs; epoch++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			dropProb := droppath.Schedule(dropPathProb, epoch, epochs)
			if err := train(epoch, dropProb); err != nil {
				return err
			}
			success, err := evaluate(epoch)
			if err != nil {
				return fmt.Errorf("trainer: evaluate epoch %d: %w", epoch, err)
			}
			zap.L().Info("epoch", zap.Int("epoch", epoch), zap.Int("of", epochs), zap.Float64("success", success))
			if success >= 100 {
				zap.L().Info("Max accuracy. Exiting")
				return nil
			}
		}
		return nil
	}
}
