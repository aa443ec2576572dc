package browser

import (
	"context"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
)

const getAttributeScript = `(el, name) => el.getAttribute(name)`

type element struct {
	loc      playwright.Locator
	desc     string
	timeouts entities.Timeouts
}

var _ interfaces.Element = (*element)(nil)

func (e *element) Describe() string {
	return e.desc
}

func (e *element) First() interfaces.Element {
	return &element{loc: e.loc.First(), desc: e.desc + " >> nth=0", timeouts: e.timeouts}
}

func (e *element) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := e.loc.Count()
	if err != nil {
		return 0, wrap(entities.ErrAction, entities.ErrTimeout, "count "+e.desc, err)
	}
	return n, nil
}

// WaitFor - waits for the element to be attached
func (e *element) WaitFor(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: budget(ctx, timeout),
	})
	if err != nil {
		return wrap(entities.ErrAction, entities.ErrElementNotFound, e.desc, err)
	}
	return nil
}

// Click - clicks once the element is actionable
func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Click(playwright.LocatorClickOptions{Timeout: budget(ctx, e.timeouts.Medium)}); err != nil {
		return wrap(entities.ErrAction, entities.ErrAction, "click "+e.desc, err)
	}
	return nil
}

// Fill - replaces the value of an input
func (e *element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: budget(ctx, e.timeouts.Medium)}); err != nil {
		return wrap(entities.ErrAction, entities.ErrAction, "fill "+e.desc, err)
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Clear(playwright.LocatorClearOptions{Timeout: budget(ctx, e.timeouts.Medium)}); err != nil {
		return wrap(entities.ErrAction, entities.ErrAction, "clear "+e.desc, err)
	}
	return nil
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: budget(ctx, e.timeouts.Short)})
	if err != nil {
		return "", wrap(entities.ErrAction, entities.ErrElementNotFound, "text of "+e.desc, err)
	}
	return text, nil
}

func (e *element) AllTextContents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := e.loc.AllTextContents()
	if err != nil {
		return nil, wrap(entities.ErrAction, entities.ErrTimeout, "texts of "+e.desc, err)
	}
	return texts, nil
}

// IsVisible - reports visibility without waiting
func (e *element) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.loc.IsVisible()
	if err != nil {
		return false, wrap(entities.ErrAction, entities.ErrTimeout, "visibility of "+e.desc, err)
	}
	return ok, nil
}

func (e *element) IsDisabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.loc.IsDisabled(playwright.LocatorIsDisabledOptions{Timeout: budget(ctx, e.timeouts.Short)})
	if err != nil {
		return false, wrap(entities.ErrAction, entities.ErrElementNotFound, "disabled state of "+e.desc, err)
	}
	return ok, nil
}

// Attribute - reads an attribute; a null attribute is reported absent.
// "value" reads the live input value.
func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if name == "value" {
		v, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: budget(ctx, e.timeouts.Short)})
		if err != nil {
			return "", false, wrap(entities.ErrAction, entities.ErrElementNotFound, "value of "+e.desc, err)
		}
		return v, true, nil
	}
	v, err := e.loc.Evaluate(getAttributeScript, name, playwright.LocatorEvaluateOptions{Timeout: budget(ctx, e.timeouts.Short)})
	if err != nil {
		return "", false, wrap(entities.ErrAction, entities.ErrElementNotFound, "attribute "+name+" of "+e.desc, err)
	}
	s, ok := v.(string)
	return s, ok, nil
}

// invalidElement fails every call with the error of an unresolvable query
type invalidElement struct {
	desc string
	err  error
}

var _ interfaces.Element = (*invalidElement)(nil)

func (e *invalidElement) Describe() string                                 { return e.desc }
func (e *invalidElement) First() interfaces.Element                        { return e }
func (e *invalidElement) Count(context.Context) (int, error)               { return 0, e.err }
func (e *invalidElement) WaitFor(context.Context, time.Duration) error     { return e.err }
func (e *invalidElement) Click(context.Context) error                      { return e.err }
func (e *invalidElement) Fill(context.Context, string) error               { return e.err }
func (e *invalidElement) Clear(context.Context) error                      { return e.err }
func (e *invalidElement) TextContent(context.Context) (string, error)      { return "", e.err }
func (e *invalidElement) AllTextContents(context.Context) ([]string, error) { return nil, e.err }
func (e *invalidElement) IsVisible(context.Context) (bool, error)          { return false, e.err }
func (e *invalidElement) IsDisabled(context.Context) (bool, error)         { return false, e.err }
func (e *invalidElement) Attribute(context.Context, string) (string, bool, error) {
	return "", false, e.err
}
