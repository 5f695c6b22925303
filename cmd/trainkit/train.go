package main

import "context"
import "math/rand"
import "path/filepath"

import "github.com/spf13/cobra"
import "go.uber.org/zap"

import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/config"
import "github.com/neurlang/trainkit/datasets/squareroot"
import "github.com/neurlang/trainkit/meter"
import "github.com/neurlang/trainkit/model/mlp"
import "github.com/neurlang/trainkit/params"
import "github.com/neurlang/trainkit/sampling"
import "github.com/neurlang/trainkit/trainer"

// WeightsName is the final model file written into the experiment directory.
const WeightsName = "weights.json.zlib"

func newTrainCmd(o *options) *cobra.Command {
	var epochs int
	var resume, name, dstmodel string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the perceptron on the square root dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			if cmd.Flags().Changed("epochs") {
				cfg.Train.Epochs = epochs
			}
			if cmd.Flags().Changed("resume") {
				cfg.Train.Resume = resume
			}
			if cmd.Flags().Changed("name") {
				cfg.Experiment.Name = name
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err := train(cmd.Context(), cfg, dstmodel)
			return err
		},
	}
	cmd.Flags().IntVar(&epochs, "epochs", 0, "number of epochs")
	cmd.Flags().StringVar(&resume, "resume", "", "model .json.zlib file to resume from")
	cmd.Flags().StringVar(&name, "name", "", "experiment directory name, generated when empty")
	cmd.Flags().StringVar(&dstmodel, "dstmodel", "", "model destination .json.zlib file")
	return cmd
}

// train runs the whole experiment and returns its directory.
func train(ctx context.Context, cfg *config.Config, dstmodel string) (string, error) {
	t := cfg.Train

	name := cfg.Experiment.Name
	if name == "" {
		name = checkpoint.NewExpName("train")
	}
	dir := filepath.Join(cfg.Experiment.Root, name)
	if err := checkpoint.CreateExpDir(dir); err != nil {
		return "", err
	}
	if err := cfg.Save(filepath.Join(dir, "config.yaml")); err != nil {
		return "", err
	}
	if cfg.Experiment.NetConfig != "" {
		netConfig, err := checkpoint.LoadNetConfig(cfg.Experiment.NetConfig)
		if err != nil {
			return "", err
		}
		zap.L().Info("net config", zap.String("config", netConfig))
	}

	r := rand.New(rand.NewSource(t.Seed))
	trainSet, testSet := squareroot.Split(squareroot.Medium(), t.TrainRatio, r)
	trainBatches := toBatches(trainSet, t.BatchSize)
	testBatches := toBatches(testSet, t.BatchSize)

	net, err := mlp.New(squareroot.Bits, t.Hidden, squareroot.MediumClasses)
	if err != nil {
		return "", err
	}
	zap.L().Info("param size", zap.Float64("MB", params.CountInMB(net)))

	if err := trainer.Resume(net, t.Resume != "", t.Resume); err != nil {
		return "", err
	}

	var best float64
	objs := meter.NewAverageMeter()
	loop := trainer.NewLoopFunc(t.Epochs, t.DropPathProb,
		trainer.NewTrainFunc(net, batchOrder(trainBatches, r), t.LearningRate, t.LabelSmoothing, objs),
		trainer.NewEvaluateFunc(net, dir, &best, func(m trainer.Meters) error {
			zap.L().Debug("train", zap.Float64("loss", objs.Avg()))
			return trainer.Evaluate(net, testBatches, t.LabelSmoothing, m)
		}))
	if err := loop(ctx); err != nil {
		return dir, err
	}

	if dstmodel == "" {
		dstmodel = filepath.Join(dir, WeightsName)
	}
	if err := checkpoint.Save(net, dstmodel); err != nil {
		return dir, err
	}
	zap.L().Info("model saved", zap.String("path", dstmodel), zap.Float64("best_top1", best))
	return dir, nil
}

func toBatches(samples []squareroot.Sample, size int) (o []trainer.Batch) {
	for _, part := range squareroot.Batches(samples, size) {
		x, y := squareroot.Batch(part, squareroot.Bits)
		o = append(o, trainer.Batch{X: x, Y: y})
	}
	return
}

// batchOrder visits every batch once per epoch, in an order drawn with
// probability proportional to the batch size.
func batchOrder(batches []trainer.Batch, r *rand.Rand) func(epoch int) []trainer.Batch {
	weights := make([]float64, len(batches))
	for i, b := range batches {
		weights[i] = float64(b.Len())
	}
	return func(epoch int) []trainer.Batch {
		order, err := sampling.ProdSample(weights, len(weights), r)
		if err != nil {
			zap.L().Warn("keeping batch order", zap.Int("epoch", epoch), zap.Error(err))
			return batches
		}
		o := make([]trainer.Batch, len(order))
		for i, j := range order {
			o[i] = batches[j]
		}
		return o
	}
}
