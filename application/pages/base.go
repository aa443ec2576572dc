// Package pages holds the page objects of the EMPSD UI. Every page is built
// from a shared Base of interaction primitives plus its own element map.
package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empsd_automation/application/readiness"
	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// documentReadyScript holds once the document finished parsing and loading
const documentReadyScript = `() => document.readyState === "complete"`

// Base is the interaction vocabulary shared by all page objects. It owns the
// driver of one case and is injected into every page of that case.
type Base struct {
	driver   interfaces.Driver
	detector *readiness.Detector
	timeouts entities.Timeouts
	logger   *logrus.Entry
}

// NewBase - creates page primitives over driver
func NewBase(driver interfaces.Driver, timeouts entities.Timeouts, logger *logrus.Entry) *Base {
	return &Base{
		driver:   driver,
		detector: readiness.NewDetector(driver, 0, logger),
		timeouts: timeouts,
		logger:   logger,
	}
}

// Driver returns the underlying driver
func (b *Base) Driver() interfaces.Driver {
	return b.driver
}

// Detector returns the readiness detector bound to the driver
func (b *Base) Detector() *readiness.Detector {
	return b.detector
}

// Timeouts returns the configured timeout tiers
func (b *Base) Timeouts() entities.Timeouts {
	return b.timeouts
}

// Logger returns the case logger
func (b *Base) Logger() *logrus.Entry {
	return b.logger
}

// Navigate requests navigation to url. Failures wrap entities.ErrNavigation.
func (b *Base) Navigate(ctx context.Context, url string) error {
	b.logger.WithFields(logrus.Fields{"op": entities.InteractionNavigate, "url": url}).Info("Navigating")
	if err := b.driver.Navigate(ctx, url); err != nil {
		if errors.Is(err, entities.ErrNavigation) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", entities.ErrNavigation, url, err)
	}
	return nil
}

// WaitForLoad waits up to the long timeout for the page to become idle
func (b *Base) WaitForLoad(ctx context.Context) error {
	return b.WaitForLoadWithin(ctx, b.timeouts.Long)
}

// WaitForLoadWithin waits for network idle and then for the document to be
// fully loaded. Failures wrap entities.ErrTimeout.
func (b *Base) WaitForLoadWithin(ctx context.Context, timeout time.Duration) error {
	b.logger.WithFields(logrus.Fields{"op": entities.InteractionWait, "timeout": timeout}).Debug("Waiting for load")
	deadline := time.Now().Add(timeout)
	if err := b.driver.WaitForLoadIdle(ctx, timeout); err != nil {
		if errors.Is(err, entities.ErrTimeout) {
			return err
		}
		return fmt.Errorf("%w: waiting for load: %w", entities.ErrTimeout, err)
	}

	remaining := time.Until(deadline)
	if remaining <= 0 {
		remaining = b.timeouts.Short
	}
	if err := b.detector.AwaitScript(ctx, documentReadyScript, nil, remaining); err != nil {
		if errors.Is(err, entities.ErrTimeout) {
			return err
		}
		return fmt.Errorf("%w: %w", entities.ErrTimeout, err)
	}
	return nil
}

// CurrentURL returns the current page URL
func (b *Base) CurrentURL() string {
	return b.driver.CurrentURL()
}

// Title returns the page title
func (b *Base) Title(ctx context.Context) (string, error) {
	return b.driver.Title(ctx)
}

// Text returns the text content of el
func (b *Base) Text(ctx context.Context, el interfaces.Element) (string, error) {
	return el.TextContent(ctx)
}

// IsVisible reports whether el is visible
func (b *Base) IsVisible(ctx context.Context, el interfaces.Element) (bool, error) {
	return el.IsVisible(ctx)
}

// IsDisabled reports whether el is disabled
func (b *Base) IsDisabled(ctx context.Context, el interfaces.Element) (bool, error) {
	return el.IsDisabled(ctx)
}

// Click clicks el
func (b *Base) Click(ctx context.Context, el interfaces.Element) error {
	return el.Click(ctx)
}

// Fill replaces the value of el
func (b *Base) Fill(ctx context.Context, el interfaces.Element, value string) error {
	return el.Fill(ctx, value)
}

// Clear empties the value of el
func (b *Base) Clear(ctx context.Context, el interfaces.Element) error {
	return el.Clear(ctx)
}

// Wait pauses for d
func (b *Base) Wait(ctx context.Context, d time.Duration) error {
	return b.driver.Pause(ctx, d)
}

// Resolve returns a handle for q
func (b *Base) Resolve(q entities.Query) interfaces.Element {
	return b.driver.Resolve(q)
}

// ResolveByCapability returns a handle for an element found by kind and value,
// e.g. (CapabilityLabel, "Email")
func (b *Base) ResolveByCapability(kind entities.Capability, value string) interfaces.Element {
	return b.driver.Resolve(entities.Query{Kind: kind, Value: value})
}

// SetViewport resizes the page
func (b *Base) SetViewport(ctx context.Context, v entities.Viewport) error {
	b.logger.WithField("viewport", v.String()).Debug("Resizing viewport")
	return b.driver.SetViewport(ctx, v)
}

// Screenshot captures the current page
func (b *Base) Screenshot(ctx context.Context) ([]byte, error) {
	b.logger.WithField("op", entities.InteractionScreenshot).Debug("Capturing page")
	return b.driver.Screenshot(ctx)
}

// PageInfo returns what is currently rendered. Title errors are ignored.
func (b *Base) PageInfo(ctx context.Context) entities.PageInfo {
	title, _ := b.driver.Title(ctx)
	return entities.PageInfo{URL: b.driver.CurrentURL(), Title: title}
}
