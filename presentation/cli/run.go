package cli

import (
	"errors"
	"fmt"

	"empsd_automation/application/suite"
	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
	"empsd_automation/infrastructure/browser"
	"empsd_automation/infrastructure/browser/memdriver"
	"empsd_automation/infrastructure/config"
	"empsd_automation/infrastructure/fixtures"
	"empsd_automation/infrastructure/storage"

	"github.com/spf13/cobra"
)

type runFlags struct {
	suite    string
	filter   string
	workers  int
	headless bool
	dryRun   bool
	install  bool
}

func newRunCmd(opts *options) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Authentication and Dashboard cases",
		Long: `Run the cases against the configured EMPSD deployment, one browser
context per case. With --dry-run the cases run against an in-memory model of
the application instead of a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(cmd, opts, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.suite, "suite", "s", "", "only run cases of this suite (Authentication or Dashboard)")
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "only run cases whose name contains this text")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "number of cases run in parallel (default from config)")
	cmd.Flags().BoolVar(&flags.headless, "headless", false, "run the browser headless (default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run against the in-memory application model")
	cmd.Flags().BoolVar(&flags.install, "install", false, "install the playwright driver and browser first")
	return cmd
}

func runCases(cmd *cobra.Command, opts *options, flags *runFlags) error {
	cfg, logger, err := opts.load(cmd)
	if err != nil {
		return err
	}
	data, err := opts.fixtures()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = flags.headless
	}
	workers := cfg.Runner.Workers
	if flags.workers > 0 {
		workers = flags.workers
	}

	settings := settingsFor(cfg, data)
	cases := suite.Filter(suite.All(settings), flags.suite, flags.filter)
	if len(cases) == 0 {
		return errors.New("no cases match the given suite and filter")
	}

	var launcher interfaces.Launcher
	if flags.dryRun {
		launcher = memdriver.NewLauncher(modelSite(cfg.BaseURL, settings).Install)
	} else {
		launcher, err = browser.NewLauncher(cmd.Context(), browser.Options{
			Engine:   cfg.Browser.Engine,
			Headless: cfg.Browser.Headless,
			SlowMo:   cfg.Browser.SlowMo,
			Viewport: cfg.Browser.Viewport,
			Timeouts: cfg.Timeouts,
			Install:  flags.install,
		}, logger)
		if err != nil {
			return err
		}
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	var artifacts interfaces.ArtifactStore
	if cfg.Screenshots.Enabled {
		artifacts, err = storage.NewOSArtifactStore(cfg.Screenshots.Path)
		if err != nil {
			return err
		}
	}

	logger.Infof("Running %d cases with %d workers", len(cases), workers)
	results := suite.NewRunner(launcher, artifacts, settings, workers, logger).Run(cmd.Context(), cases)

	summary := printReport(cmd.OutOrStdout(), results)
	if artifacts != nil {
		path, err := artifacts.SaveReport(results)
		if err != nil {
			logger.Warnf("Failed to save report: %v", err)
		} else {
			logger.WithField("path", path).Info("Report saved")
		}
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d cases failed", summary.Failed, len(results))
	}
	return nil
}

// settingsFor builds the case settings. Blank credentials and expected texts
// fall back to the test data; a blank invalid email becomes a fresh address.
func settingsFor(cfg *config.Config, data *fixtures.Data) suite.Settings {
	settings := suite.Settings{
		HomeURL:             cfg.HomeURL(),
		LoginURL:            cfg.LoginURL,
		DashboardURL:        cfg.DashboardURL(),
		Valid:               cfg.Credentials.Valid,
		Invalid:             cfg.Credentials.Invalid,
		Title:               cfg.Expected.Title,
		Heading:             cfg.Expected.Heading,
		Timeouts:            cfg.Timeouts,
		Viewports:           data.Viewports,
		Accounts:            data.LoginAccounts,
		RejectionMessage:    data.ErrorMessages.InvalidCredentials,
		ScreenshotOnFailure: cfg.Screenshots.Enabled && cfg.Screenshots.OnFailure,
	}
	if settings.Valid.Email == "" {
		if admin, err := data.User("admin"); err == nil {
			settings.Valid = admin
		}
	}
	if settings.Invalid.Email == "" {
		settings.Invalid.Email = fixtures.RandomEmail("test.com")
	}
	if settings.Title == "" {
		settings.Title = data.ExpectedText.PageTitle
	}
	if settings.Heading == "" {
		settings.Heading = data.ExpectedText.DashboardHeading
	}
	return settings
}

// modelSite builds the in-memory application knowing the valid account and
// every account expected to log in successfully
func modelSite(baseURL string, settings suite.Settings) *memdriver.Site {
	accounts := map[string]string{settings.Valid.Email: settings.Valid.Password}
	for _, a := range settings.Accounts {
		if a.Expected == entities.OutcomeSuccess {
			accounts[a.Email] = a.Password
		}
	}
	return memdriver.NewSite(baseURL, accounts)
}
