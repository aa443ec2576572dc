package suite

import (
	"context"
	"fmt"
	"strings"

	"empsd_automation/domain/entities"
)

// AuthenticationCases returns the login screen checks. One serial case is
// added per entry of accounts.
func AuthenticationCases(accounts []entities.LoginScenario) []Case {
	cases := []Case{
		{Suite: SuiteAuthentication, Name: "should display correct page title on home page", Run: homePageTitle},
		{Suite: SuiteAuthentication, Name: "should display login form", Run: loginFormDisplayed},
		{Suite: SuiteAuthentication, Name: "should login successfully with valid credentials", Run: validLogin},
		{Suite: SuiteAuthentication, Name: "should show error with invalid email", Run: invalidEmail},
		{Suite: SuiteAuthentication, Name: "should show error with invalid password", Run: invalidPassword},
		{Suite: SuiteAuthentication, Name: "should disable login with empty credentials", Run: emptyCredentials},
		{Suite: SuiteAuthentication, Name: "should toggle password visibility", Run: passwordToggle},
		{Suite: SuiteAuthentication, Name: "should clear the login form", Run: clearForm},
		{Suite: SuiteAuthentication, Name: "should display dashboard elements after login", Run: dashboardAfterLogin},
	}
	for _, account := range accounts {
		cases = append(cases, Case{
			Suite:  SuiteAuthentication,
			Name:   fmt.Sprintf("should handle login for %s account", account.Role),
			Serial: true,
			Run: func(ctx context.Context, env *Env) error {
				if account.Expected == entities.OutcomeSuccess {
					return loginAs(ctx, env, account.User())
				}
				return expectRejected(ctx, env, account.User())
			},
		})
	}
	return cases
}

func homePageTitle(ctx context.Context, env *Env) error {
	if err := env.Login.NavigateToHome(ctx); err != nil {
		return err
	}
	title, err := env.Base.Title(ctx)
	if err != nil {
		return err
	}
	return expect(strings.Contains(title, env.Settings.Title), "title %q does not contain %q", title, env.Settings.Title)
}

func loginFormDisplayed(ctx context.Context, env *Env) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	title, err := env.Base.Title(ctx)
	if err != nil {
		return err
	}
	return firstErr(
		expect(strings.Contains(title, env.Settings.Title), "title %q does not contain %q", title, env.Settings.Title),
		expect(env.Login.IsLoginFormVisible(ctx), "login form not visible"),
		expect(env.Login.IsPasswordMasked(ctx), "password not masked"),
	)
}

func validLogin(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	return expect(env.Dashboard.VerifySuccessfulLogin(ctx), "dashboard not shown after login, at %s", env.Base.CurrentURL())
}

func invalidEmail(ctx context.Context, env *Env) error {
	return expectRejected(ctx, env, entities.User{Email: env.Settings.Invalid.Email, Password: env.Settings.Valid.Password})
}

func invalidPassword(ctx context.Context, env *Env) error {
	return expectRejected(ctx, env, entities.User{Email: env.Settings.Valid.Email, Password: env.Settings.Invalid.Password})
}

func emptyCredentials(ctx context.Context, env *Env) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	if err := env.Login.ClearForm(ctx); err != nil {
		return err
	}
	state := env.Login.LoginButtonState(ctx)
	return expect(state == entities.ControlDisabled, "submit is %s with empty credentials", state)
}

func passwordToggle(ctx context.Context, env *Env) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	if err := env.Login.EnterPassword(ctx, env.Settings.Valid.Password); err != nil {
		return err
	}
	if err := expect(env.Login.IsPasswordMasked(ctx), "password not masked before toggle"); err != nil {
		return err
	}
	if err := env.Login.TogglePasswordVisibility(ctx); err != nil {
		return err
	}
	if err := expect(!env.Login.IsPasswordMasked(ctx), "password still masked after toggle"); err != nil {
		return err
	}
	if err := env.Login.TogglePasswordVisibility(ctx); err != nil {
		return err
	}
	return expect(env.Login.IsPasswordMasked(ctx), "password not masked after second toggle")
}

func clearForm(ctx context.Context, env *Env) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	if err := env.Login.EnterEmail(ctx, env.Settings.Valid.Email); err != nil {
		return err
	}
	if err := env.Login.EnterPassword(ctx, env.Settings.Valid.Password); err != nil {
		return err
	}
	if err := env.Login.ClearForm(ctx); err != nil {
		return err
	}
	email, err := env.Login.EmailValue(ctx)
	if err != nil {
		return err
	}
	return firstErr(
		expect(email == "", "email still %q after clearing", email),
		expect(env.Login.IsLoginButtonDisabled(ctx), "submit enabled after clearing"),
	)
}

func dashboardAfterLogin(ctx context.Context, env *Env) error {
	if err := loginAs(ctx, env, env.Settings.Valid); err != nil {
		return err
	}
	return firstErr(
		expect(env.Dashboard.IsEMPSDHeadingVisible(ctx), "dashboard heading not visible"),
		expect(env.Dashboard.IsNavigationVisible(ctx), "navigation not visible"),
		expect(env.Dashboard.IsMainContentVisible(ctx), "main content not visible"),
	)
}
