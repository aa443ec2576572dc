package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlternatives(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{"single", "#email", []string{"#email"}},
		{"disjunction", `input[type="email"], input[name="email"], #email`, []string{`input[type="email"]`, `input[name="email"]`, "#email"}},
		{"comma in quotes", `button:has-text("Log in, now"), .submit`, []string{`button:has-text("Log in, now")`, ".submit"}},
		{"comma in attribute", `[data-x='a,b'],main`, []string{`[data-x='a,b']`, "main"}},
		{"empty parts dropped", " , main ,", []string{"main"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Alternatives(tt.selector))
		})
	}
}

func TestResolutionValidate(t *testing.T) {
	assert.NoError(t, Resolution{Semantic: ByLabel("Email")}.Validate())
	assert.NoError(t, Resolution{Structural: "#email"}.Validate())
	assert.Error(t, Resolution{}.Validate())
	assert.Error(t, Resolution{Semantic: BySelector("#email")}.Validate(), "css is not a semantic capability")
}

func TestQueryString(t *testing.T) {
	assert.Equal(t, `role=heading[name="EMPSD"]`, ByRole("heading", "EMPSD").String())
	assert.Equal(t, "label=Email", ByLabel("Email").String())
	assert.Equal(t, "role=button[name=/masuk|login/i]", ByRoleMatching("button", "masuk|login").String())
	assert.Equal(t, "label=/password|kata sandi/i", ByLabelMatching("password|kata sandi").String())
	assert.True(t, Query{}.IsZero())
	assert.False(t, BySelector("main").Semantic())
}

func TestQueryRegexp(t *testing.T) {
	re, err := ByRoleMatching("textbox", "alamat email|email|username").Regexp()
	require.NoError(t, err)
	assert.True(t, re.MatchString("Alamat Email"))
	assert.True(t, re.MatchString("USERNAME"))
	assert.False(t, re.MatchString("Password"))

	re, err = ByLabelMatching("kata sandi").Regexp()
	require.NoError(t, err)
	assert.True(t, re.MatchString("Kata Sandi"))

	_, err = ByRoleMatching("button", "masuk(").Regexp()
	assert.Error(t, err)
}

func TestResolutionErrorUnwrapsStructuralFailure(t *testing.T) {
	err := &ResolutionError{
		Page:       "login",
		Element:    "submitButton",
		Semantic:   ErrElementNotFound,
		Structural: ErrAction,
	}

	require.ErrorIs(t, err, ErrAction)
	assert.False(t, errors.Is(err, ErrElementNotFound))
	assert.Contains(t, err.Error(), "semantic: element not found")

	semanticOnly := &ResolutionError{Page: "login", Element: "form", Semantic: ErrElementNotFound}
	assert.ErrorIs(t, semanticOnly, ErrElementNotFound)
}
