package pages

import (
	"context"
	"fmt"
	"strings"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
)

// Logical elements of the login screen
const (
	LoginEmailInput     = "emailInput"
	LoginPasswordInput  = "passwordInput"
	LoginSubmitButton   = "submitButton"
	LoginPasswordToggle = "passwordToggle"
	LoginErrorMessage   = "errorMessage"
	LoginForm           = "loginForm"
)

// LoginElements returns the resolution map of the login screen
func LoginElements() map[string]entities.Resolution {
	return map[string]entities.Resolution{
		LoginEmailInput: {
			Semantic:   entities.ByRoleMatching("textbox", `alamat email|email|username`),
			Structural: `input[type="email"], input[name="email"], #email, [placeholder*="email" i]`,
		},
		LoginPasswordInput: {
			Semantic:   entities.ByLabelMatching(`password|kata sandi`),
			Structural: `input[type="password"], input[name="password"], #password`,
		},
		LoginSubmitButton: {
			Semantic:   entities.ByRoleMatching("button", `masuk|login|sign in`),
			Structural: `button[type="submit"], button:has-text("Masuk"), button:has-text("Login"), button:has-text("Sign In")`,
		},
		LoginPasswordToggle: {
			Semantic:   entities.ByRoleMatching("button", `toggle password visibility|show password`),
			Structural: `[data-testid="password-toggle"], .password-toggle, button[aria-label*="password" i], button[title*="password" i], button:has-text("Toggle password visibility")`,
		},
		LoginErrorMessage: {
			Semantic:   entities.ByRole("alert", ""),
			Structural: `.error-message, .invalid-feedback, .error, .alert, [role="alert"]`,
		},
		LoginForm: {
			Structural: `form`,
		},
	}
}

// LoginPage wraps the EMPSD login screen
type LoginPage struct {
	base     *Base
	elements Elements
	homeURL  string
	loginURL string
}

// NewLoginPage - creates the login page object
func NewLoginPage(base *Base, homeURL, loginURL string) *LoginPage {
	return &LoginPage{
		base:     base,
		elements: mustElements("login", LoginElements()),
		homeURL:  homeURL,
		loginURL: loginURL,
	}
}

// Elements returns the element map of the page
func (p *LoginPage) Elements() Elements {
	return p.elements
}

// NavigateToHome opens the application root and waits for it to load
func (p *LoginPage) NavigateToHome(ctx context.Context) error {
	if err := p.base.Navigate(ctx, p.homeURL); err != nil {
		return err
	}
	return p.base.WaitForLoad(ctx)
}

// NavigateToLogin opens the login screen and waits for it to load
func (p *LoginPage) NavigateToLogin(ctx context.Context) error {
	if err := p.base.Navigate(ctx, p.loginURL); err != nil {
		return err
	}
	return p.base.WaitForLoad(ctx)
}

// EnterEmail fills the email field. The value is passed through unvalidated.
func (p *LoginPage) EnterEmail(ctx context.Context, email string) error {
	return run(ctx, p.base, p.elements, LoginEmailInput, entities.InteractionFill, func(ctx context.Context, el interfaces.Element) error {
		return p.base.Fill(ctx, el, email)
	})
}

// EnterPassword fills the password field
func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return run(ctx, p.base, p.elements, LoginPasswordInput, entities.InteractionFill, func(ctx context.Context, el interfaces.Element) error {
		return p.base.Fill(ctx, el, password)
	})
}

// TogglePasswordVisibility clicks the show/hide password control
func (p *LoginPage) TogglePasswordVisibility(ctx context.Context) error {
	return run(ctx, p.base, p.elements, LoginPasswordToggle, entities.InteractionClick, p.base.Click)
}

// ClickLogin submits the form
func (p *LoginPage) ClickLogin(ctx context.Context) error {
	return run(ctx, p.base, p.elements, LoginSubmitButton, entities.InteractionClick, p.base.Click)
}

// Login fills both fields and submits. It is not idempotent: every call
// submits once. A missing password toggle does not abort the login.
func (p *LoginPage) Login(ctx context.Context, email, password string, togglePassword bool) error {
	p.base.Logger().WithField("email", email).Info("Logging in")

	if err := p.EnterEmail(ctx, email); err != nil {
		return fmt.Errorf("entering email: %w", err)
	}
	if err := p.EnterPassword(ctx, password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}
	if togglePassword {
		if err := p.TogglePasswordVisibility(ctx); err != nil {
			p.base.Logger().Warnf("Password visibility toggle unavailable: %v", err)
		}
	}
	if err := p.ClickLogin(ctx); err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}
	return nil
}

// ClearForm empties both credential fields
func (p *LoginPage) ClearForm(ctx context.Context) error {
	if err := run(ctx, p.base, p.elements, LoginEmailInput, entities.InteractionClear, p.base.Clear); err != nil {
		return fmt.Errorf("clearing email: %w", err)
	}
	if err := run(ctx, p.base, p.elements, LoginPasswordInput, entities.InteractionClear, p.base.Clear); err != nil {
		return fmt.Errorf("clearing password: %w", err)
	}
	return nil
}

// IsLoginFormVisible reports whether email, password and submit are all visible
func (p *LoginPage) IsLoginFormVisible(ctx context.Context) bool {
	for _, name := range []string{LoginEmailInput, LoginPasswordInput, LoginSubmitButton} {
		if !observe(ctx, p.base, p.elements, name, entities.InteractionVisibility, p.base.IsVisible) {
			return false
		}
	}
	return true
}

// IsLoginButtonDisabled reports whether the submit control was observed
// disabled. An unknown state reads as false.
func (p *LoginPage) IsLoginButtonDisabled(ctx context.Context) bool {
	return p.LoginButtonState(ctx) == entities.ControlDisabled
}

// LoginButtonState distinguishes an enabled submit control from one that
// could not be inspected. The native disabled state is asked first through
// both locators; a control reported enabled is then checked for
// aria-disabled or a disabled class, which non-native buttons use.
func (p *LoginPage) LoginButtonState(ctx context.Context) entities.ControlState {
	disabled, err := attempt[bool](ctx, p.base, p.elements, LoginSubmitButton, entities.InteractionDisabled, p.base.IsDisabled)
	if err != nil {
		p.base.Logger().Debugf("Submit state unknown: %v", err)
		return entities.ControlUnknown
	}
	if disabled {
		return entities.ControlDisabled
	}

	marked, err := attempt[bool](ctx, p.base, p.elements, LoginSubmitButton, entities.InteractionDisabled, markedDisabled)
	if err != nil {
		return entities.ControlEnabled
	}
	if marked {
		return entities.ControlDisabled
	}
	return entities.ControlEnabled
}

func markedDisabled(ctx context.Context, el interfaces.Element) (bool, error) {
	if v, ok, err := el.Attribute(ctx, "aria-disabled"); err != nil {
		return false, err
	} else if ok && strings.EqualFold(v, "true") {
		return true, nil
	}
	if _, ok, err := el.Attribute(ctx, "disabled"); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}
	class, _, err := el.Attribute(ctx, "class")
	if err != nil {
		return false, err
	}
	for _, c := range strings.Fields(class) {
		if c == "disabled" || strings.HasSuffix(c, "-disabled") {
			return true, nil
		}
	}
	return false, nil
}

// IsPasswordMasked reports whether the password field renders as a password input
func (p *LoginPage) IsPasswordMasked(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, LoginPasswordInput, entities.InteractionVisibility, func(ctx context.Context, el interfaces.Element) (bool, error) {
		typ, _, err := el.Attribute(ctx, "type")
		return typ == "password", err
	})
}

// IsErrorMessageVisible reports whether a login error is shown
func (p *LoginPage) IsErrorMessageVisible(ctx context.Context) bool {
	return observe(ctx, p.base, p.elements, LoginErrorMessage, entities.InteractionVisibility, p.base.IsVisible)
}

// ErrorMessage returns the login error text, if one is shown
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, bool) {
	text, err := attempt[string](ctx, p.base, p.elements, LoginErrorMessage, entities.InteractionReadText, p.base.trimmedText)
	if err != nil || text == "" {
		return "", false
	}
	return text, true
}

// EmailValue returns the current value of the email field
func (p *LoginPage) EmailValue(ctx context.Context) (string, error) {
	return attempt[string](ctx, p.base, p.elements, LoginEmailInput, entities.InteractionReadText, func(ctx context.Context, el interfaces.Element) (string, error) {
		v, _, err := el.Attribute(ctx, "value")
		return v, err
	})
}
