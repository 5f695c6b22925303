package main

import "fmt"
import "path/filepath"

import "github.com/spf13/cobra"

import "github.com/neurlang/trainkit/checkpoint"

func newMkexpCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mkexp [PREFIX]",
		Short: "Create a uniquely named experiment directory holding the configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := "exp"
			if len(args) == 1 {
				prefix = args[0]
			}
			dir := filepath.Join(o.cfg.Experiment.Root, checkpoint.NewExpName(prefix))
			if err := checkpoint.CreateExpDir(dir); err != nil {
				return err
			}
			if err := o.cfg.Save(filepath.Join(dir, "config.yaml")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
