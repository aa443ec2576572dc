// Package readiness blocks until a screen is actually interactive rather than
// merely navigated to.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empsd_automation/application/wait"
	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Condition is a predicate over the currently rendered page
type Condition interface {
	// Describe names the condition in logs and errors
	Describe() string

	// Check evaluates the condition once. Content that does not exist yet
	// must yield false, not an error.
	Check(ctx context.Context, d interfaces.Driver) (bool, error)
}

// Detector polls conditions against one driver
type Detector struct {
	driver   interfaces.Driver
	interval time.Duration
	logger   *logrus.Entry
}

// NewDetector - creates a detector polling at interval (wait.DefaultInterval when zero)
func NewDetector(driver interfaces.Driver, interval time.Duration, logger *logrus.Entry) *Detector {
	if interval <= 0 {
		interval = wait.DefaultInterval
	}
	return &Detector{
		driver:   driver,
		interval: interval,
		logger:   logger,
	}
}

// Await returns once cond holds. Evaluation errors are treated as "not yet"
// and the last one is reported if the deadline passes.
func (d *Detector) Await(ctx context.Context, cond Condition, timeout time.Duration) error {
	start := time.Now()
	polls := 0
	var lastErr error

	err := wait.Until(ctx, d.interval, timeout, func(ctx context.Context) (bool, error) {
		polls++
		ok, err := cond.Check(ctx, d.driver)
		if err != nil {
			lastErr = err
			return false, nil
		}
		return ok, nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrTimeout) && lastErr != nil {
			err = fmt.Errorf("%w (last error: %v)", err, lastErr)
		}
		d.logger.WithFields(logrus.Fields{
			"condition": cond.Describe(),
			"polls":     polls,
		}).Debugf("Condition not met: %v", err)
		return fmt.Errorf("waiting for %s: %w", cond.Describe(), err)
	}

	d.logger.WithFields(logrus.Fields{
		"condition": cond.Describe(),
		"polls":     polls,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Debug("Condition met")
	return nil
}

// AwaitScript waits for a page script to evaluate truthy, polling natively
// inside the browser
func (d *Detector) AwaitScript(ctx context.Context, script string, arg any, timeout time.Duration) error {
	if err := d.driver.WaitForPredicate(ctx, script, arg, timeout); err != nil {
		return fmt.Errorf("waiting for page predicate: %w", err)
	}
	return nil
}
