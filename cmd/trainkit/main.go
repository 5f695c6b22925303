package main

import "context"
import "errors"
import "fmt"
import "os"
import "os/signal"
import "syscall"

import "github.com/spf13/cobra"
import "go.uber.org/zap"

import "github.com/neurlang/trainkit/config"
import "github.com/neurlang/trainkit/logging"

// options are the persistent flags and the state they set up.
type options struct {
	configPath string
	verbose    bool
	cpuProfile string

	cfg     *config.Config
	cleanup []func()
}

func newRootCmd() (*cobra.Command, *options) {
	o := &options{}
	root := &cobra.Command{
		Use:           "trainkit",
		Short:         "Training loop utilities on the square root dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML configuration file")
	f.BoolVar(&o.verbose, "verbose", false, "enable debug logging")
	f.StringVar(&o.cpuProfile, "cpuprofile", "", "write a CPU profile to this file, e.g. default.pgo")

	root.AddCommand(
		newTrainCmd(o),
		newLatencyCmd(o),
		newSampleCmd(o),
		newParamsCmd(o),
		newMkexpCmd(o),
	)
	return root, o
}

func (o *options) setup() error {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	o.cfg = cfg

	restore, err := logging.Install(cfg.Log.Level, o.verbose)
	if err != nil {
		return err
	}
	o.cleanup = append(o.cleanup, restore)

	if o.cpuProfile != "" {
		stop, err := startCPUProfile(o.cpuProfile)
		if err != nil {
			return err
		}
		o.cleanup = append(o.cleanup, stop)
		zap.L().Debug("cpu profiling", zap.String("path", o.cpuProfile))
	}
	return nil
}

// close undoes setup in reverse order.
func (o *options) close() {
	for i := len(o.cleanup) - 1; i >= 0; i-- {
		o.cleanup[i]()
	}
	o.cleanup = nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root, o := newRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	o.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
