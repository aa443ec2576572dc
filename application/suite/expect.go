package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"empsd_automation/application/pages"
	"empsd_automation/domain/entities"
)

// ErrAssertion marks a failed expectation inside a case
var ErrAssertion = errors.New("assertion failed")

func expect(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// firstErr returns the first non-nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// loginAs opens the login screen and runs a full login flow for user,
// which must end on a ready dashboard
func loginAs(ctx context.Context, env *Env, user entities.User) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	state, err := env.NewLoginFlow().Run(ctx, user.Email, user.Password)
	if err != nil {
		return fmt.Errorf("login as %s: %w", user.Email, err)
	}
	return expect(state == pages.StateReady, "login as %s ended %s, want %s", user.Email, state, pages.StateReady)
}

// expectRejected submits user and checks the login screen stays put
func expectRejected(ctx context.Context, env *Env, user entities.User) error {
	if err := env.Login.NavigateToLogin(ctx); err != nil {
		return err
	}
	state, err := env.NewLoginFlow().Run(ctx, user.Email, user.Password)
	if err != nil {
		return fmt.Errorf("login as %s: %w", user.Email, err)
	}
	if err := firstErr(
		expect(state == pages.StateRejected, "login as %s ended %s, want %s", user.Email, state, pages.StateRejected),
		expect(env.Login.IsLoginFormVisible(ctx), "login form not visible after rejected login"),
	); err != nil {
		return err
	}
	want := env.Settings.RejectionMessage
	if msg, shown := env.Login.ErrorMessage(ctx); shown && want != "" {
		return expect(strings.Contains(msg, want), "login error %q does not contain %q", msg, want)
	}
	return nil
}
