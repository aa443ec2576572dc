package pages

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"empsd_automation/application/wait"
	"empsd_automation/domain/entities"

	"github.com/sirupsen/logrus"
)

// AuthState represents a stage of the login-then-verify flow
type AuthState string

const (
	StateUnauthenticated AuthState = "unauthenticated"
	StateSubmitting      AuthState = "submitting"
	StateAuthenticated   AuthState = "authenticated"
	StateRejected        AuthState = "rejected"
	StateReady           AuthState = "ready"
)

// Terminal reports whether no further transition can happen from s
func (s AuthState) Terminal() bool {
	return s == StateReady || s == StateRejected
}

// LoginFlow drives one login attempt and infers its outcome from what the
// screen renders. It never relies on HTTP status or navigation events.
type LoginFlow struct {
	login     *LoginPage
	dashboard *DashboardPage
	state     AuthState
	history   []AuthState
}

// NewLoginFlow - creates a flow in the unauthenticated state
func NewLoginFlow(login *LoginPage, dashboard *DashboardPage) *LoginFlow {
	return &LoginFlow{
		login:     login,
		dashboard: dashboard,
		state:     StateUnauthenticated,
		history:   []AuthState{StateUnauthenticated},
	}
}

// State returns the current state
func (f *LoginFlow) State() AuthState {
	return f.state
}

// History returns every state the flow passed through, in order
func (f *LoginFlow) History() []AuthState {
	return slices.Clone(f.history)
}

func (f *LoginFlow) transition(to AuthState) {
	f.login.base.Logger().WithFields(logrus.Fields{
		"from": f.state,
		"to":   to,
	}).Debug("Login flow transition")
	f.state = to
	f.history = append(f.history, to)
}

// Run submits the credentials and waits for the outcome. A rejected login is
// reported through the returned state, not as an error. An error means the
// outcome could not be determined; the state then tells how far the flow got.
func (f *LoginFlow) Run(ctx context.Context, email, password string) (AuthState, error) {
	if f.state != StateUnauthenticated {
		return f.state, fmt.Errorf("login flow already %s", f.state)
	}

	if err := f.login.Login(ctx, email, password, true); err != nil {
		return f.state, err
	}
	f.transition(StateSubmitting)

	if err := f.dashboard.WaitForDashboardLoad(ctx); err != nil {
		if !errors.Is(err, entities.ErrTimeout) {
			return f.state, err
		}
		if f.login.IsLoginFormVisible(ctx) {
			f.transition(StateRejected)
			return f.state, nil
		}
		return f.state, fmt.Errorf("no dashboard and no login form after submit: %w", err)
	}
	f.transition(StateAuthenticated)

	timeout := f.dashboard.base.Timeouts().Medium
	err := wait.Until(ctx, wait.DefaultInterval, timeout, func(ctx context.Context) (bool, error) {
		return f.dashboard.IsMainContentVisible(ctx), nil
	})
	if err != nil {
		return f.state, fmt.Errorf("waiting for main content: %w", err)
	}
	f.transition(StateReady)
	return f.state, nil
}
