package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"empsd_automation/application/suite"
	"empsd_automation/infrastructure/browser"
	"empsd_automation/infrastructure/testsite"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var suiteName, filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.fixtures()
			if err != nil {
				return err
			}
			cases := suite.Filter(suite.All(suite.Settings{Accounts: data.LoginAccounts}), suiteName, filter)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range cases {
				mode := "parallel"
				if c.Serial {
					mode = "serial"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Suite, c.Name, mode)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&suiteName, "suite", "s", "", "only list cases of this suite")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list cases whose name contains this text")
	return cmd
}

func newInstallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "install [engine...]",
		Short: "Install the playwright driver and browsers",
		Long:  "Install the playwright driver and the given engines, or the configured engine when none is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			engines := args
			if len(engines) == 0 {
				engines = []string{cfg.Browser.Engine}
			}
			if err := browser.Install(cmd.Context(), logger, engines...); err != nil {
				return err
			}
			logger.Info("Playwright browsers installed")
			return nil
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	var loadDelay time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local stand-in of the EMPSD login and dashboard screens",
		Long: `Serve a local stand-in of the EMPSD login and dashboard screens that
accepts the configured valid account. Point base_url and login_url at it to run
the cases against a real browser without the deployment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			site, err := testsite.New(testsite.Options{
				Accounts:  map[string]string{cfg.Credentials.Valid.Email: cfg.Credentials.Valid.Password},
				LoadDelay: loadDelay,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           site,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			logger.Infof("Serving stand-in site on http://%s", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to serve: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			logger.Info("Stand-in site stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().DurationVar(&loadDelay, "load-delay", 500*time.Millisecond, "how long the dashboard heading shows Loading…")
	return cmd
}
