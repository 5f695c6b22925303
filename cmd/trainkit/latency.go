package main

import "fmt"

import "github.com/spf13/cobra"

import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/datasets/squareroot"
import "github.com/neurlang/trainkit/latency"
import "github.com/neurlang/trainkit/model/mlp"

func newLatencyCmd(o *options) *cobra.Command {
	var mode, model string
	var batchSize, measTimes int
	cmd := &cobra.Command{
		Use:   "latency",
		Short: "Measure the forward latency of the perceptron",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			if cmd.Flags().Changed("mode") {
				cfg.Latency.Mode = mode
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Latency.BatchSize = batchSize
			}
			if cmd.Flags().Changed("meas-times") {
				cfg.Latency.MeasTimes = measTimes
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			m, err := latency.ParseMode(cfg.Latency.Mode)
			if err != nil {
				return err
			}

			var features = 1
			for _, d := range cfg.Latency.InputSize {
				features *= d
			}
			net, err := mlp.New(features, cfg.Train.Hidden, squareroot.MediumClasses)
			if err != nil {
				return err
			}
			if model != "" {
				if err := checkpoint.LoadModel(net, model); err != nil {
					return err
				}
			}

			input, err := latency.RandomInput(cfg.Latency.InputSize, cfg.Latency.BatchSize)
			if err != nil {
				return err
			}
			res, _, err := latency.Benchmark(cmd.Context(), net, input, cfg.Latency.MeasTimes, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "device: %s (%s)\n", res.Device, res.Mode)
			fmt.Fprintf(cmd.OutOrStdout(), "iterations: %d\n", res.Iterations)
			fmt.Fprintf(cmd.OutOrStdout(), "mean: %.4f ms  p50: %.4f ms  p95: %.4f ms\n", res.Mean, res.P50, res.P95)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "cpu or gpu (gpu needs a module with a device forward pass)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "input batch size")
	cmd.Flags().IntVar(&measTimes, "meas-times", 0, "forward passes including the warm-up")
	cmd.Flags().StringVar(&model, "model", "", "optional trained .json.zlib weights")
	return cmd
}
