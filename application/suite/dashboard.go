package suite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"empsd_automation/application/readiness"
)

// DashboardCases returns the checks of the screen shown after login
func DashboardCases() []Case {
	return []Case{
		{Suite: SuiteDashboard, Name: "should load dashboard after login", Run: dashboardLoads},
		{Suite: SuiteDashboard, Name: "should display correct heading", Run: dashboardHeading},
		{Suite: SuiteDashboard, Name: "should display navigation elements", Run: dashboardNavigation},
		{Suite: SuiteDashboard, Name: "should have correct page title", Run: dashboardTitle},
		{Suite: SuiteDashboard, Name: "should be responsive across viewports", Run: dashboardResponsive},
		{Suite: SuiteDashboard, Name: "should load within the time budget", Run: dashboardPerformance},
		{Suite: SuiteDashboard, Name: "should redirect unauthenticated access to login", Run: dashboardUnauthenticated},
		{Suite: SuiteDashboard, Name: "should open the user menu and log out", Run: dashboardUserMenu},
		{Suite: SuiteDashboard, Name: "should expose headings and a main landmark", Run: dashboardAccessibility},
	}
}

// All returns the Authentication and Dashboard cases for settings
func All(settings Settings) []Case {
	return append(AuthenticationCases(settings.Accounts), DashboardCases()...)
}

func dashboardLoads(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	if err := env.Dashboard.WaitForDashboardLoad(ctx); err != nil {
		return err
	}
	return expect(env.Dashboard.VerifySuccessfulLogin(ctx), "dashboard not verified at %s", env.Base.CurrentURL())
}

func dashboardHeading(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	text, err := env.Dashboard.GetEMPSDHeadingText(ctx)
	if err != nil {
		return err
	}
	return expect(strings.Contains(text, env.Settings.Heading), "heading %q does not contain %q", text, env.Settings.Heading)
}

func dashboardNavigation(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	return firstErr(
		expect(env.Dashboard.IsNavigationVisible(ctx), "navigation not visible"),
		expect(env.Dashboard.IsMainContentVisible(ctx), "main content not visible"),
	)
}

func dashboardTitle(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	title, err := env.Dashboard.GetPageTitle(ctx)
	if err != nil {
		return err
	}
	return expect(strings.Contains(title, env.Settings.Title), "title %q does not contain %q", title, env.Settings.Title)
}

func dashboardResponsive(ctx context.Context, env *Env) error {
	if len(env.Settings.Viewports) == 0 {
		return fmt.Errorf("%w: no viewports configured", ErrSkip)
	}
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	for _, v := range env.Settings.Viewports {
		if err := env.Base.SetViewport(ctx, v); err != nil {
			return fmt.Errorf("viewport %s: %w", v, err)
		}
		err := firstErr(
			expect(env.Dashboard.IsEMPSDHeadingVisible(ctx), "heading not visible at %s", v),
			expect(env.Dashboard.IsMainContentVisible(ctx), "main content not visible at %s", v),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func dashboardPerformance(ctx context.Context, env *Env) error {
	start := time.Now()
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	elapsed := time.Since(start)
	env.Logger.WithField("elapsed", elapsed).Info("Dashboard ready")
	return expect(elapsed < env.Settings.ReadyWithin, "dashboard ready after %s, budget %s", elapsed, env.Settings.ReadyWithin)
}

func dashboardUnauthenticated(ctx context.Context, env *Env) error {
	if err := env.Base.Navigate(ctx, env.Settings.DashboardURL); err != nil {
		return err
	}
	err := env.Base.Detector().Await(ctx, readiness.URLContains("/login"), env.Settings.Timeouts.Medium)
	if err != nil {
		return fmt.Errorf("expected redirect to login, at %s: %w", env.Base.CurrentURL(), err)
	}
	return expect(env.Login.IsLoginFormVisible(ctx), "login form not visible after redirect")
}

func dashboardUserMenu(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	if !env.Dashboard.IsUserMenuVisible(ctx) {
		return fmt.Errorf("%w: no user menu rendered", ErrSkip)
	}
	if err := env.Dashboard.Logout(ctx); err != nil {
		return err
	}
	return expect(env.Login.IsLoginFormVisible(ctx), "login form not visible after logout")
}

func dashboardAccessibility(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	headings, err := env.Dashboard.HeadingCount(ctx)
	if err != nil {
		return err
	}
	mains, err := env.Dashboard.MainLandmarkCount(ctx)
	if err != nil {
		return err
	}
	return firstErr(
		expect(headings > 0, "no headings on the dashboard"),
		expect(mains > 0, "no main landmark on the dashboard"),
	)
}
