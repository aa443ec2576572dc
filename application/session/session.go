// Package session resets per-case browser state
package session

import (
	"context"
	"fmt"

	"empsd_automation/domain/interfaces"
)

// clearStorageScript empties web storage. Access throws on opaque origins
// such as about:blank, which counts as nothing to clear.
const clearStorageScript = `() => {
	try {
		window.localStorage.clear();
		window.sessionStorage.clear();
		return true;
	} catch (e) {
		return false;
	}
}`

// ClearBrowserData removes cookies and web storage of the driver's context
func ClearBrowserData(ctx context.Context, driver interfaces.Driver) error {
	if err := driver.ClearCookies(ctx); err != nil {
		return fmt.Errorf("clearing cookies: %w", err)
	}
	if _, err := driver.Evaluate(ctx, clearStorageScript, nil); err != nil {
		return fmt.Errorf("clearing storage: %w", err)
	}
	return nil
}
