package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
)

// session is one browser context with a single page
type session struct {
	context  playwright.BrowserContext
	page     playwright.Page
	timeouts entities.Timeouts
	launcher *Launcher
}

var _ interfaces.Driver = (*session)(nil)

// budget returns d in milliseconds, shortened to the deadline of ctx
func budget(ctx context.Context, d time.Duration) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d {
			d = remaining
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return playwright.Float(float64(d.Milliseconds()))
}

// wrap tags an engine error with sentinel, or with onTimeout when the engine
// gave up waiting
func wrap(sentinel, onTimeout error, what string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %w", onTimeout, what, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, what, err)
}

// Navigate - navigates to the specified URL
func (s *session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   budget(ctx, s.timeouts.Long),
	})
	if err != nil {
		return wrap(entities.ErrNavigation, entities.ErrNavigation, url, err)
	}
	return nil
}

func (s *session) CurrentURL() string {
	return s.page.URL()
}

func (s *session) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Title()
}

// WaitForLoadIdle - waits for network idle
func (s *session) WaitForLoadIdle(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: budget(ctx, timeout),
	})
	if err != nil {
		return wrap(entities.ErrTimeout, entities.ErrTimeout, "network idle", err)
	}
	return nil
}

// Resolve maps a query onto the matching playwright locator
func (s *session) Resolve(q entities.Query) interfaces.Element {
	var text interface{} = q.Value
	var name interface{} = q.Name
	if q.Pattern {
		re, err := q.Regexp()
		if err != nil {
			return &invalidElement{desc: q.String(), err: err}
		}
		if q.Kind == entities.CapabilityRole {
			name = re
		} else {
			text = re
		}
	}

	var loc playwright.Locator
	switch q.Kind {
	case entities.CapabilityRole:
		opts := playwright.PageGetByRoleOptions{Exact: playwright.Bool(q.Exact)}
		if q.Name != "" {
			opts.Name = name
		}
		loc = s.page.GetByRole(playwright.AriaRole(q.Value), opts)
	case entities.CapabilityText:
		loc = s.page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(q.Exact)})
	case entities.CapabilityLabel:
		loc = s.page.GetByLabel(text, playwright.PageGetByLabelOptions{Exact: playwright.Bool(q.Exact)})
	case entities.CapabilityPlaceholder:
		loc = s.page.GetByPlaceholder(text, playwright.PageGetByPlaceholderOptions{Exact: playwright.Bool(q.Exact)})
	case entities.CapabilityTestID:
		loc = s.page.GetByTestId(q.Value)
	case entities.CapabilityCSS:
		loc = s.page.Locator(q.Value)
	default:
		return &invalidElement{desc: q.String(), err: fmt.Errorf("unsupported query kind %q", q.Kind)}
	}
	return &element{loc: loc, desc: q.String(), timeouts: s.timeouts}
}

// Evaluate - runs a script in the page
func (s *session) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if arg == nil {
		return s.page.Evaluate(script)
	}
	return s.page.Evaluate(script, arg)
}

// WaitForPredicate - waits for a script to return a truthy value
func (s *session) WaitForPredicate(ctx context.Context, script string, arg any, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.WaitForFunction(script, arg, playwright.PageWaitForFunctionOptions{
		Timeout: budget(ctx, timeout),
	})
	if err != nil {
		return wrap(entities.ErrTimeout, entities.ErrTimeout, "page predicate", err)
	}
	return nil
}

// Pause - waits for d or until ctx ends
func (s *session) Pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Screenshot - takes a full-page screenshot
func (s *session) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  budget(ctx, s.timeouts.Medium),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return data, nil
}

func (s *session) SetViewport(ctx context.Context, v entities.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.SetViewportSize(v.Width, v.Height)
}

func (s *session) ClearCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.context.ClearCookies()
}

// Close - closes the context and its page
func (s *session) Close() error {
	if s.launcher != nil {
		s.launcher.forget(s)
	}
	if s.context == nil {
		return nil
	}
	err := s.context.Close()
	s.context = nil
	if err != nil && !closedErr(err) {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}
