package suite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/infrastructure/browser/memdriver"
	"empsd_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testBaseURL = "https://empsd.test"
	validEmail  = "admin@vhiweb.com"
	validPass   = "Admin123@"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSettings(site *memdriver.Site) Settings {
	return Settings{
		HomeURL:      site.HomeURL(),
		LoginURL:     site.LoginURL(),
		DashboardURL: site.DashboardURL(),
		Valid:        entities.User{Email: validEmail, Password: validPass},
		Invalid:      entities.User{Email: "invalid@test.com", Password: "wrongpassword"},
		Title:        "PLN EMPSD",
		Heading:      "EMPSD",
		Timeouts: entities.Timeouts{
			Short:    20 * time.Millisecond,
			Medium:   300 * time.Millisecond,
			Long:     300 * time.Millisecond,
			VeryLong: time.Second,
		},
		Viewports: []entities.Viewport{
			{Name: "desktop", Width: 1920, Height: 1080},
			{Name: "laptop", Width: 1280, Height: 720},
			{Name: "tablet", Width: 768, Height: 1024},
			{Name: "mobile", Width: 375, Height: 667},
		},
		Accounts: []entities.LoginScenario{
			{Role: "admin", Email: validEmail, Password: validPass, Expected: entities.OutcomeSuccess},
			{Role: "invalid", Email: "invalid@test.com", Password: "wrongpassword", Expected: entities.OutcomeFailure},
		},
		RejectionMessage:    "Invalid email or password",
		CaseTimeout:         10 * time.Second,
		ScreenshotOnFailure: true,
	}
}

type fixture struct {
	site      *memdriver.Site
	launcher  *memdriver.Launcher
	fs        afero.Fs
	settings  Settings
	logs      *logtest.Hook
	newRunner func(workers int) *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	site := memdriver.NewSite(testBaseURL, map[string]string{validEmail: validPass})
	launcher := memdriver.NewLauncher(site.Install)
	t.Cleanup(func() { launcher.Close() })

	fs := afero.NewMemMapFs()
	store, err := storage.NewArtifactStore(fs, "artifacts")
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{site: site, launcher: launcher, fs: fs, settings: testSettings(site), logs: hook}
	f.newRunner = func(workers int) *Runner {
		return NewRunner(launcher, store, f.settings, workers, logger)
	}
	return f
}

func TestAllCasesPassAgainstModelledSite(t *testing.T) {
	f := newFixture(t)
	cases := All(f.settings)
	require.Len(t, cases, 9+2+9)

	results := f.newRunner(4).Run(context.Background(), cases)
	require.Len(t, results, len(cases))
	for i, r := range results {
		assert.Equal(t, cases[i].Suite, r.Suite)
		assert.Equal(t, cases[i].Name, r.Case)
		assert.Equal(t, entities.CaseStatusPassed, r.Status, "%s: %s", r.Case, r.Message)
	}

	summary := Summarize(results)
	assert.True(t, summary.OK())
	assert.Equal(t, len(cases), summary.Passed)
	assert.Len(t, f.launcher.Pages(), len(cases))
}

func TestRunner_ClearsBrowserDataFirst(t *testing.T) {
	f := newFixture(t)
	results := f.newRunner(1).Run(context.Background(), []Case{{
		Suite: SuiteAuthentication,
		Name:  "noop",
		Run:   func(ctx context.Context, env *Env) error { return nil },
	}})
	require.Equal(t, entities.CaseStatusPassed, results[0].Status)

	pages := f.launcher.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, []string{"clear_cookies", "evaluate"}, pages[0].Calls())
}

func TestRunner_FailureTakesScreenshot(t *testing.T) {
	f := newFixture(t)
	results := f.newRunner(1).Run(context.Background(), []Case{{
		Suite: SuiteDashboard,
		Name:  "always fails",
		Run: func(ctx context.Context, env *Env) error {
			if err := env.Login.NavigateToLogin(ctx); err != nil {
				return err
			}
			return expect(false, "forced")
		},
	}})

	r := results[0]
	assert.Equal(t, entities.CaseStatusFailed, r.Status)
	assert.ErrorIs(t, r.Err, ErrAssertion)
	assert.Contains(t, r.Message, "forced")
	require.NotNil(t, r.Page)
	assert.Equal(t, f.site.LoginURL(), r.Page.URL)
	assert.Equal(t, "PLN EMPSD", r.Page.Title)

	require.NotEmpty(t, r.Screenshot)
	assert.Contains(t, r.Screenshot, "Dashboard_always_fails_")
	data, err := afero.ReadFile(f.fs, r.Screenshot)
	require.NoError(t, err)
	assert.Equal(t, "memdriver:"+f.site.LoginURL(), string(data))
}

func TestRunner_NoScreenshotWhenDisabled(t *testing.T) {
	f := newFixture(t)
	f.settings.ScreenshotOnFailure = false
	results := f.newRunner(1).Run(context.Background(), []Case{{
		Suite: SuiteDashboard,
		Name:  "fails",
		Run:   func(ctx context.Context, env *Env) error { return errors.New("boom") },
	}})
	assert.Equal(t, entities.CaseStatusFailed, results[0].Status)
	assert.Empty(t, results[0].Screenshot)
}

func TestRunner_Skip(t *testing.T) {
	f := newFixture(t)
	f.settings.Viewports = nil
	results := f.newRunner(1).Run(context.Background(), Filter(DashboardCases(), "", "responsive"))
	require.Len(t, results, 1)
	assert.Equal(t, entities.CaseStatusSkipped, results[0].Status)
	assert.Equal(t, 1, Summarize(results).Skipped)
}

func TestRunner_SerialCasesRunAfterParallelOnes(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var order []string
	record := func(name string, d time.Duration) func(ctx context.Context, env *Env) error {
		return func(ctx context.Context, env *Env) error {
			if err := env.Driver.Pause(ctx, d); err != nil {
				return err
			}
			time.Sleep(d)
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}
	cases := []Case{
		{Suite: "s", Name: "serial-1", Serial: true, Run: record("serial-1", 0)},
		{Suite: "s", Name: "parallel-1", Run: record("parallel-1", 30*time.Millisecond)},
		{Suite: "s", Name: "serial-2", Serial: true, Run: record("serial-2", 0)},
		{Suite: "s", Name: "parallel-2", Run: record("parallel-2", 10*time.Millisecond)},
	}

	results := f.newRunner(2).Run(context.Background(), cases)
	for _, r := range results {
		assert.Equal(t, entities.CaseStatusPassed, r.Status)
	}
	require.Len(t, order, 4)
	assert.ElementsMatch(t, []string{"parallel-1", "parallel-2"}, order[:2])
	assert.Equal(t, []string{"serial-1", "serial-2"}, order[2:])
}

func TestRunner_SessionFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.launcher.Close())

	results := f.newRunner(1).Run(context.Background(), DashboardCases()[:1])
	assert.Equal(t, entities.CaseStatusFailed, results[0].Status)
	assert.Contains(t, results[0].Message, "opening browser session")
}

func TestRunner_CancelledContextSkips(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := f.newRunner(1).Run(ctx, AuthenticationCases(nil)[:2])
	for _, r := range results {
		assert.Equal(t, entities.CaseStatusSkipped, r.Status)
	}
	assert.Empty(t, f.launcher.Pages())
}

func TestRunner_InvalidLoginCaseFailsWhenAccepted(t *testing.T) {
	f := newFixture(t)
	// the modelled site accepts the "invalid" account
	f.site.Accounts["invalid@test.com"] = "wrongpassword"

	results := f.newRunner(1).Run(context.Background(), Filter(AuthenticationCases(f.settings.Accounts), SuiteAuthentication, "invalid account"))
	require.Len(t, results, 1)
	assert.Equal(t, entities.CaseStatusFailed, results[0].Status)
	assert.ErrorIs(t, results[0].Err, ErrAssertion)
}

func TestRunner_RejectionMessageMismatchFails(t *testing.T) {
	f := newFixture(t)
	f.settings.RejectionMessage = "Email atau kata sandi salah"

	results := f.newRunner(1).Run(context.Background(), Filter(AuthenticationCases(nil), SuiteAuthentication, "invalid password"))
	require.Len(t, results, 1)
	assert.Equal(t, entities.CaseStatusFailed, results[0].Status)
	assert.ErrorIs(t, results[0].Err, ErrAssertion)
	assert.Contains(t, results[0].Message, `"Invalid email or password" does not contain "Email atau kata sandi salah"`)
}

func TestFilter(t *testing.T) {
	cases := All(Settings{})
	assert.Len(t, Filter(cases, "dashboard", ""), len(DashboardCases()))
	assert.Len(t, Filter(cases, SuiteAuthentication, ""), 9)
	assert.Len(t, Filter(cases, "", "PASSWORD"), 2)
	assert.Empty(t, Filter(cases, "Checkout", ""))
}

func TestAuthenticationCases_AccountsAreSerial(t *testing.T) {
	cases := AuthenticationCases([]entities.LoginScenario{{Role: "admin", Expected: entities.OutcomeSuccess}})
	last := cases[len(cases)-1]
	assert.True(t, last.Serial)
	assert.Equal(t, "should handle login for admin account", last.Name)
	assert.Equal(t, "Authentication/should handle login for admin account", last.ID())
}
