// Package browser drives a real browser through playwright-go
package browser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"empsd_automation/application/wait"
	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

const (
	launchTimeout  = 60 * time.Second
	installTimeout = 5 * time.Minute
)

// Options configures the launched browser and its sessions
type Options struct {
	Engine   string // chromium, firefox or webkit
	Headless bool
	SlowMo   time.Duration
	Viewport entities.Viewport
	Timeouts entities.Timeouts
	// Install downloads the driver and browser when they are missing
	Install bool
}

// Launcher owns one playwright driver and one browser
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *logrus.Logger

	mu       sync.Mutex
	sessions []*session
}

var _ interfaces.Launcher = (*Launcher)(nil)

// NewLauncher - starts the playwright driver and launches the browser
func NewLauncher(ctx context.Context, opts Options, logger *logrus.Logger) (*Launcher, error) {
	if opts.Engine == "" {
		opts.Engine = "chromium"
	}
	if opts.Viewport.Width == 0 || opts.Viewport.Height == 0 {
		opts.Viewport = entities.Viewport{Width: 1280, Height: 720}
	}
	if opts.Timeouts == (entities.Timeouts{}) {
		opts.Timeouts = entities.DefaultTimeouts()
	}

	if opts.Install {
		if err := Install(ctx, logger, opts.Engine); err != nil {
			return nil, err
		}
	}

	var pw *playwright.Playwright
	retry := wait.DefaultRetryOptions()
	retry.Notify = func(err error, next time.Duration) {
		logger.Warnf("Playwright driver failed to start, retrying in %s: %v", next, err)
	}
	err := wait.Retry(ctx, retry, func(ctx context.Context) error {
		var err error
		pw, err = playwright.Run()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := engine(pw, opts.Engine)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Timeout:  playwright.Float(float64(launchTimeout.Milliseconds())),
		Args:     launchArgs(opts.Engine),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"engine":   opts.Engine,
		"version":  browser.Version(),
		"headless": opts.Headless,
	}).Info("Browser launched")

	return &Launcher{
		pw:      pw,
		browser: browser,
		opts:    opts,
		logger:  logger,
	}, nil
}

func engine(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", name)
	}
}

func launchArgs(engine string) []string {
	if engine != "chromium" {
		return nil
	}
	return []string{
		"--disable-popup-blocking",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		"--disable-setuid-sandbox",
		"--disable-infobars",
		"--disable-notifications",
	}
}

// NewSession - opens an isolated browser context with one page
func (l *Launcher) NewSession(ctx context.Context) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.opts.Viewport.Width,
			Height: l.opts.Viewport.Height,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	s := &session{
		context:  bctx,
		page:     page,
		timeouts: l.opts.Timeouts,
		launcher: l,
	}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

// forget drops a closed session so Close does not visit it again
func (l *Launcher) forget(s *session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions = slices.DeleteFunc(l.sessions, func(open *session) bool {
		return open == s
	})
}

// Close - closes every open session, the browser and the driver
func (l *Launcher) Close() error {
	l.mu.Lock()
	sessions := l.sessions
	l.sessions = nil
	l.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if l.browser != nil {
		if err := l.browser.Close(); err != nil && !closedErr(err) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		l.browser = nil
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		l.pw = nil
	}
	return errors.Join(errs...)
}

// Install downloads the playwright driver and the given browser engines.
// It gives up when ctx ends; the download itself cannot be interrupted.
func Install(ctx context.Context, logger *logrus.Logger, engines ...string) error {
	if len(engines) == 0 {
		engines = []string{"chromium"}
	}
	logger.Infof("Installing playwright browsers: %v", engines)

	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- playwright.Install(&playwright.RunOptions{Browsers: engines})
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to install playwright browsers: %w", err)
		}
		return nil
	case <-installCtx.Done():
		return fmt.Errorf("timeout waiting for playwright installation: %w", installCtx.Err())
	}
}

func closedErr(err error) bool {
	return errors.Is(err, playwright.ErrTargetClosed)
}
