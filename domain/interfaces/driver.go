package interfaces

import (
	"context"
	"time"

	"empsd_automation/domain/entities"
)

// Driver defines the browser automation primitives page objects are built on.
// One Driver is owned by one case for its whole lifetime.
type Driver interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the current page URL
	CurrentURL() string

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// WaitForLoadIdle waits until the network and DOM are idle
	WaitForLoadIdle(ctx context.Context, timeout time.Duration) error

	// Resolve returns a lazy handle for the query; nothing is looked up yet
	Resolve(q entities.Query) Element

	// Evaluate runs a script in the page and returns its result
	Evaluate(ctx context.Context, script string, arg any) (any, error)

	// WaitForPredicate waits until a script evaluates truthy in the page
	WaitForPredicate(ctx context.Context, script string, arg any, timeout time.Duration) error

	// Pause waits for a fixed duration
	Pause(ctx context.Context, d time.Duration) error

	// Screenshot takes a screenshot of the current page
	Screenshot(ctx context.Context) ([]byte, error)

	// SetViewport resizes the page
	SetViewport(ctx context.Context, v entities.Viewport) error

	// ClearCookies clears cookies of the browser context
	ClearCookies(ctx context.Context) error

	// Close closes the page and its browser context
	Close() error
}

// Element is a lazy reference to zero or more elements matched by a query
type Element interface {
	// Describe returns the query the handle was built from
	Describe() string

	// First narrows the handle to the first match in document order
	First() Element

	// Count returns the number of matches
	Count(ctx context.Context) (int, error)

	// WaitFor waits until at least one match is attached to the DOM
	WaitFor(ctx context.Context, timeout time.Duration) error

	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Clear(ctx context.Context) error

	TextContent(ctx context.Context) (string, error)
	AllTextContents(ctx context.Context) ([]string, error)

	IsVisible(ctx context.Context) (bool, error)
	IsDisabled(ctx context.Context) (bool, error)

	// Attribute returns the attribute value and whether it is present
	Attribute(ctx context.Context, name string) (string, bool, error)
}

// Launcher starts browser sessions, one per case
type Launcher interface {
	// NewSession opens a fresh, isolated browser context
	NewSession(ctx context.Context) (Driver, error)

	// Close stops the browser
	Close() error
}
