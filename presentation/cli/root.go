// Package cli is the command line of the suite
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"empsd_automation/infrastructure/config"
	"empsd_automation/infrastructure/fixtures"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configFile   string
	fixturesFile string
}

// NewRootCmd - builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "empsd-e2e",
		Short:         "End-to-end UI checks for the EMPSD web application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./empsd.yaml)")
	root.PersistentFlags().StringVar(&opts.fixturesFile, "fixtures", "", "test data file (default is the built-in data set)")

	root.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newInstallCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// load reads the configuration and builds the logger writing to the
// command's stderr
func (o *options) load(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (o *options) fixtures() (*fixtures.Data, error) {
	if o.fixturesFile == "" {
		return fixtures.Default()
	}
	return fixtures.Load(o.fixturesFile)
}
