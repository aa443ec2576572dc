package fixtures

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"empsd_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	admin, err := d.User("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@vhiweb.com", admin.Email)
	assert.Equal(t, "admin", admin.Role)

	assert.Equal(t, "EMPSD", d.ExpectedText.DashboardHeading)
	assert.Equal(t, "PLN EMPSD", d.ExpectedText.PageTitle)
	assert.Equal(t, "Invalid email or password", d.ErrorMessages.InvalidCredentials)

	require.Len(t, d.LoginAccounts, 2)
	assert.Equal(t, entities.OutcomeSuccess, d.LoginAccounts[0].Expected)
	assert.Equal(t, entities.User{Email: "invalid@test.com", Password: "wrongpassword", Role: "invalid"}, d.LoginAccounts[1].User())

	require.Len(t, d.Viewports, 4)
	assert.Equal(t, entities.Viewport{Name: "mobile", Width: 375, Height: 667}, d.Viewports[3])
}

func TestUnknownUser(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	_, err = d.User("root")
	assert.ErrorContains(t, err, "root")
}

func TestParse_InvalidOutcome(t *testing.T) {
	_, err := Parse([]byte(`
loginAccounts:
  - role: admin
    email: admin@vhiweb.com
    password: x
    expectedResult: maybe
`))
	assert.ErrorContains(t, err, "expectedResult")
}

func TestParse_InvalidViewport(t *testing.T) {
	_, err := Parse([]byte("viewports:\n  - width: 0\n    height: 10\n"))
	assert.ErrorContains(t, err, "viewports[0]")
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("users: [a, b"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  qa:\n    email: qa@test.com\n    password: pw\n"), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	qa, err := d.User("qa")
	require.NoError(t, err)
	assert.Equal(t, "qa@test.com", qa.Email)

	d, err = Load("")
	require.NoError(t, err)
	assert.Contains(t, d.Users, "admin")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRandomEmail(t *testing.T) {
	a, b := RandomEmail(""), RandomEmail("embrio.id")

	assert.Regexp(t, regexp.MustCompile(`^test_\d+_[0-9a-f]{6}@test\.com$`), a)
	assert.Regexp(t, regexp.MustCompile(`@embrio\.id$`), b)
	assert.NotEqual(t, a, RandomEmail(""))
}

func TestRandomString(t *testing.T) {
	for _, n := range []int{0, 1, 8, 40} {
		assert.Len(t, RandomString(n), n)
	}
	assert.NotEqual(t, RandomString(16), RandomString(16))
}
