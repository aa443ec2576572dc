// Package suite holds the Authentication and Dashboard cases and the runner
// that executes them, each in its own browser session.
package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"empsd_automation/application/pages"
	"empsd_automation/application/session"
	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	SuiteAuthentication = "Authentication"
	SuiteDashboard      = "Dashboard"
)

// ErrSkip marks a case that decided not to run
var ErrSkip = errors.New("case skipped")

// Settings is everything cases read besides their page objects
type Settings struct {
	HomeURL      string
	LoginURL     string
	DashboardURL string
	Valid        entities.User
	Invalid      entities.User
	Title        string
	Heading      string
	Timeouts     entities.Timeouts
	Viewports    []entities.Viewport
	Accounts     []entities.LoginScenario

	// RejectionMessage, when set, is the text a shown login error must contain
	RejectionMessage string

	// ReadyWithin bounds the time from opening the login page to a ready dashboard
	ReadyWithin time.Duration
	// CaseTimeout bounds a single case, including session setup
	CaseTimeout time.Duration
	// ScreenshotOnFailure saves a screenshot of every failed case
	ScreenshotOnFailure bool
}

// Case is one named check
type Case struct {
	Suite string
	Name  string
	// Serial cases run one after another once the parallel ones finished
	Serial bool
	Run    func(ctx context.Context, env *Env) error
}

// ID returns "Suite/Name"
func (c Case) ID() string {
	return c.Suite + "/" + c.Name
}

// Env is what a case runs against. Every case gets a fresh one.
type Env struct {
	Settings  Settings
	Driver    interfaces.Driver
	Base      *pages.Base
	Login     *pages.LoginPage
	Dashboard *pages.DashboardPage
	Logger    *logrus.Entry
}

// NewLoginFlow - starts a login flow over the env's page objects
func (e *Env) NewLoginFlow() *pages.LoginFlow {
	return pages.NewLoginFlow(e.Login, e.Dashboard)
}

// Runner executes cases
type Runner struct {
	launcher  interfaces.Launcher
	artifacts interfaces.ArtifactStore
	settings  Settings
	workers   int
	logger    *logrus.Logger
}

// NewRunner - creates a runner. artifacts may be nil, which disables screenshots.
func NewRunner(launcher interfaces.Launcher, artifacts interfaces.ArtifactStore, settings Settings, workers int, logger *logrus.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if settings.Timeouts == (entities.Timeouts{}) {
		settings.Timeouts = entities.DefaultTimeouts()
	}
	if settings.ReadyWithin == 0 {
		settings.ReadyWithin = 10 * time.Second
	}
	if settings.CaseTimeout == 0 {
		settings.CaseTimeout = 2 * time.Minute
	}
	return &Runner{
		launcher:  launcher,
		artifacts: artifacts,
		settings:  settings,
		workers:   workers,
		logger:    logger,
	}
}

// Run executes cases and returns one result per case, in input order.
// Non-serial cases run on up to workers goroutines; a failing case never
// stops the others.
func (r *Runner) Run(ctx context.Context, cases []Case) []entities.CaseResult {
	results := make([]entities.CaseResult, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, c := range cases {
		if c.Serial {
			continue
		}
		g.Go(func() error {
			results[i] = r.runCase(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	for i, c := range cases {
		if c.Serial {
			results[i] = r.runCase(ctx, c)
		}
	}
	return results
}

func (r *Runner) runCase(ctx context.Context, c Case) entities.CaseResult {
	log := r.logger.WithFields(logrus.Fields{"suite": c.Suite, "case": c.Name})
	result := entities.CaseResult{Suite: c.Suite, Case: c.Name, Status: entities.CaseStatusRunning}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Status = entities.CaseStatusSkipped
		result.Message = err.Error()
		return result
	}

	caseCtx, cancel := context.WithTimeout(ctx, r.settings.CaseTimeout)
	defer cancel()

	driver, err := r.launcher.NewSession(caseCtx)
	if err != nil {
		return r.fail(log, result, fmt.Errorf("opening browser session: %w", err))
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Warnf("Failed to close session: %v", err)
		}
	}()

	if err := session.ClearBrowserData(caseCtx, driver); err != nil {
		return r.fail(log, result, err)
	}

	base := pages.NewBase(driver, r.settings.Timeouts, log)
	env := &Env{
		Settings:  r.settings,
		Driver:    driver,
		Base:      base,
		Login:     pages.NewLoginPage(base, r.settings.HomeURL, r.settings.LoginURL),
		Dashboard: pages.NewDashboardPage(base, r.settings.Heading),
		Logger:    log,
	}

	log.Info("Running case")
	err = c.Run(caseCtx, env)
	switch {
	case err == nil:
		result.Status = entities.CaseStatusPassed
		log.Info("Case passed")
		return result
	case errors.Is(err, ErrSkip):
		result.Status = entities.CaseStatusSkipped
		result.Message = err.Error()
		log.Info("Case skipped")
		return result
	}

	// the case context may be spent; give the evidence its own budget
	shotCtx, shotCancel := context.WithTimeout(context.WithoutCancel(ctx), r.settings.Timeouts.Medium)
	defer shotCancel()
	info := base.PageInfo(shotCtx)
	result.Page = &info
	if r.settings.ScreenshotOnFailure && r.artifacts != nil {
		result.Screenshot = r.screenshot(shotCtx, log, driver, c)
	}
	return r.fail(log, result, err)
}

func (r *Runner) fail(log *logrus.Entry, result entities.CaseResult, err error) entities.CaseResult {
	result.Status = entities.CaseStatusFailed
	result.Err = err
	result.Message = err.Error()
	log.Errorf("Case failed: %v", err)
	return result
}

func (r *Runner) screenshot(ctx context.Context, log *logrus.Entry, driver interfaces.Driver, c Case) string {
	data, err := driver.Screenshot(ctx)
	if err != nil {
		log.Warnf("Failed to take failure screenshot: %v", err)
		return ""
	}
	path, err := r.artifacts.SaveScreenshot(c.ID(), data)
	if err != nil {
		log.Warnf("Failed to save failure screenshot: %v", err)
		return ""
	}
	log.WithField("path", path).Info("Failure screenshot saved")
	return path
}

// Filter keeps the cases of suite (any suite when empty) whose name contains
// pattern, case-insensitively
func Filter(cases []Case, suite, pattern string) []Case {
	pattern = strings.ToLower(pattern)
	var out []Case
	for _, c := range cases {
		if suite != "" && !strings.EqualFold(c.Suite, suite) {
			continue
		}
		if pattern != "" && !strings.Contains(strings.ToLower(c.Name), pattern) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Summary counts results by status
type Summary struct {
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Summarize - totals up results
func Summarize(results []entities.CaseResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case entities.CaseStatusPassed:
			s.Passed++
		case entities.CaseStatusFailed:
			s.Failed++
		case entities.CaseStatusSkipped:
			s.Skipped++
		}
		s.Duration += r.Duration
	}
	return s
}

// OK reports whether nothing failed
func (s Summary) OK() bool {
	return s.Failed == 0
}
