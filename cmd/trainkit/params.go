package main

import "fmt"
import "text/tabwriter"

import "github.com/spf13/cobra"

import "github.com/neurlang/trainkit/checkpoint"
import "github.com/neurlang/trainkit/params"

// stateModel exposes the tensors of a saved state dict as parameters.
type stateModel checkpoint.StateDict

func (s stateModel) NamedParameters() (o []params.Parameter) {
	sd := checkpoint.StateDict(s)
	for _, name := range sd.Keys() {
		o = append(o, params.Parameter{Name: name, Shape: sd[name].Shape})
	}
	return
}

func newParamsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "params MODEL",
		Short: "Print the parameter size of a saved model in MB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sd checkpoint.StateDict
			if err := checkpoint.LoadState(args[0], &sd); err != nil {
				return err
			}
			model := stateModel(sd)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range model.NamedParameters() {
				fmt.Fprintf(w, "%s\t%v\t%d\n", p.Name, p.Shape, p.Size())
			}
			fmt.Fprintf(w, "total\t\t%.6f MB\n", params.CountInMB(model))
			return w.Flush()
		},
	}
}
