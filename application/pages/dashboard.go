package pages

import (
	"context"
	"fmt"
	"strings"

	"empsd_automation/application/readiness"
	"empsd_automation/domain/entities"
)

// Logical elements of the dashboard
const (
	DashboardHeading      = "heading"
	DashboardNavigation   = "navigation"
	DashboardMainContent  = "mainContent"
	DashboardUserMenu     = "userMenu"
	DashboardLogoutButton = "logoutButton"
	DashboardHeadings     = "headings"
	DashboardMainLandmark = "mainLandmark"
)

// loginPathFragment marks URLs of the login screen
const loginPathFragment = "/login"

// DashboardElements returns the resolution map of the dashboard for a heading
// containing target
func DashboardElements(target string) map[string]entities.Resolution {
	return map[string]entities.Resolution{
		DashboardHeading: {
			Semantic:   entities.ByRole("heading", target),
			Structural: fmt.Sprintf(`h1:has-text(%q), h2:has-text(%q), [data-testid="empsd-heading"]`, target, target),
		},
		DashboardNavigation: {
			Semantic:   entities.ByRole("navigation", ""),
			Structural: `nav, .navigation, .sidebar, [role="navigation"]`,
		},
		DashboardMainContent: {
			Semantic:   entities.ByRole("main", ""),
			Structural: `main, [role="main"], .main-content, .dashboard-content`,
		},
		DashboardUserMenu: {
			Semantic:   entities.ByTestID("user-menu"),
			Structural: `[data-testid="user-menu"], .user-menu, .profile-menu, .avatar`,
		},
		DashboardLogoutButton: {
			Semantic:   entities.ByRoleMatching("menuitem", `logout|keluar`),
			Structural: `button:has-text("Logout"), a:has-text("Logout"), button:has-text("Keluar")`,
		},
		DashboardHeadings: {
			Semantic:   entities.ByRole("heading", ""),
			Structural: `h1, h2, h3, h4, h5, h6`,
		},
		DashboardMainLandmark: {
			Semantic:   entities.ByRole("main", ""),
			Structural: `main, [role="main"]`,
		},
	}
}

// DashboardPage wraps the EMPSD dashboard
type DashboardPage struct {
	base     *Base
	elements Elements
	heading  string
}

// NewDashboardPage - creates the dashboard page object. heading is the
// substring the dashboard title is expected to contain, e.g. "EMPSD".
func NewDashboardPage(base *Base, heading string) *DashboardPage {
	return &DashboardPage{
		base:     base,
		elements: mustElements("dashboard", DashboardElements(heading)),
		heading:  heading,
	}
}

// Elements returns the element map of the page
func (p *DashboardPage) Elements() Elements {
	return p.elements
}

// WaitForDashboardLoad waits for the page to settle and then for the
// expected heading to render
func (p *DashboardPage) WaitForDashboardLoad(ctx context.Context) error {
	if err := p.base.WaitForLoad(ctx); err != nil {
		return err
	}
	return p.base.Detector().Await(ctx, readiness.HeadingContains(p.heading), p.base.Timeouts().Long)
}

// VerifySuccessfulLogin reports whether the browser left the login screen and
// both the expected heading and the main content are visible
func (p *DashboardPage) VerifySuccessfulLogin(ctx context.Context) bool {
	if strings.Contains(p.base.CurrentURL(), loginPathFragment) {
		p.base.Logger().WithField("url", p.base.CurrentURL()).Debug("Still on login screen")
		return false
	}
	return p.IsEMPSDHeadingVisible(ctx) && p.IsMainContentVisible(ctx)
}

// IsEMPSDHeadingVisible reports whether the expected heading is visible
func (p *DashboardPage) IsEMPSDHeadingVisible(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, DashboardHeading, entities.InteractionVisibility, p.base.IsVisible)
}

// GetEMPSDHeadingText returns the trimmed text of the expected heading
func (p *DashboardPage) GetEMPSDHeadingText(ctx context.Context) (string, error) {
	return attempt[string](ctx, p.base, p.elements, DashboardHeading, entities.InteractionReadText, p.base.trimmedText)
}

// IsNavigationVisible reports whether the navigation area is visible
func (p *DashboardPage) IsNavigationVisible(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, DashboardNavigation, entities.InteractionVisibility, p.base.IsVisible)
}

// IsMainContentVisible reports whether the main content area is visible
func (p *DashboardPage) IsMainContentVisible(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, DashboardMainContent, entities.InteractionVisibility, p.base.IsVisible)
}

// IsUserMenuVisible reports whether the user menu trigger is visible
func (p *DashboardPage) IsUserMenuVisible(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, DashboardUserMenu, entities.InteractionVisibility, p.base.IsVisible)
}

// ClickUserMenu opens the user menu
func (p *DashboardPage) ClickUserMenu(ctx context.Context) error {
	return run(ctx, p.base, p.elements, DashboardUserMenu, entities.InteractionClick, p.base.Click)
}

// Logout opens the user menu, picks logout and waits for the login screen
func (p *DashboardPage) Logout(ctx context.Context) error {
	if err := p.ClickUserMenu(ctx); err != nil {
		return fmt.Errorf("opening user menu: %w", err)
	}
	if err := run(ctx, p.base, p.elements, DashboardLogoutButton, entities.InteractionClick, p.base.Click); err != nil {
		return fmt.Errorf("clicking logout: %w", err)
	}
	return p.base.Detector().Await(ctx, readiness.URLContains(loginPathFragment), p.base.Timeouts().Medium)
}

// GetPageTitle returns the document title
func (p *DashboardPage) GetPageTitle(ctx context.Context) (string, error) {
	return p.base.Title(ctx)
}

// HeadingCount returns the number of headings on the page
func (p *DashboardPage) HeadingCount(ctx context.Context) (int, error) {
	return count(ctx, p.base, p.elements, DashboardHeadings)
}

// MainLandmarkCount returns the number of main landmarks on the page
func (p *DashboardPage) MainLandmarkCount(ctx context.Context) (int, error) {
	return count(ctx, p.base, p.elements, DashboardMainLandmark)
}

// Headings returns a snapshot of every heading on the page. The structural
// selector is consulted when no element exposes the heading role.
func (p *DashboardPage) Headings(ctx context.Context) ([]entities.PageElement, error) {
	return collect(ctx, p.base, p.elements, DashboardHeadings)
}
