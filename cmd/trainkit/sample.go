package main

import "fmt"
import "math/rand"
import "strconv"
import "strings"
import "time"

import "github.com/spf13/cobra"

import "github.com/neurlang/trainkit/sampling"

func newSampleCmd(o *options) *cobra.Command {
	var n int
	var seed int64
	cmd := &cobra.Command{
		Use:   "sample WEIGHT...",
		Short: "Draw distinct indices with probability proportional to the weights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := parseWeights(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			idx, err := sampling.ProdSample(weights, n, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			var out []string
			for _, i := range idx {
				out = append(out, strconv.Itoa(i))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 1, "number of indices to draw")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, time based when unset")
	return cmd
}

func parseWeights(args []string) ([]float64, error) {
	weights := make([]float64, len(args))
	for i, a := range args {
		w, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %w", i, err)
		}
		weights[i] = w
	}
	return weights, nil
}
