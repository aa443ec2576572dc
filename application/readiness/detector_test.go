package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
	"empsd_automation/infrastructure/browser/memdriver"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetector(t *testing.T, page *memdriver.Page) *Detector {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewDetector(page, 5*time.Millisecond, logrus.NewEntry(logger))
}

func heading(id, text string) *memdriver.Node {
	return &memdriver.Node{ID: id, Role: "heading", Name: text, Text: text, Selectors: []string{"h1"}}
}

func TestHeadingContains_Present(t *testing.T) {
	page := memdriver.New()
	page.Render("PLN EMPSD", heading("title", "Welcome to EMPSD Dashboard"))

	ok, err := HeadingContains("EMPSD").Check(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHeadingContains_Loading(t *testing.T) {
	page := memdriver.New()
	page.Render("PLN EMPSD", heading("title", "Loading…"))

	ok, err := HeadingContains("EMPSD").Check(context.Background(), page)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHeadingContains_NoHeadingYet(t *testing.T) {
	page := memdriver.New()

	ok, err := HeadingContains("EMPSD").Check(context.Background(), page)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHeadingContains_StructuralHeading(t *testing.T) {
	page := memdriver.New()
	page.Render("PLN EMPSD", &memdriver.Node{ID: "title", Text: "EMPSD", Selectors: []string{"h2"}})

	ok, err := HeadingContains("EMPSD").Check(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, ok, "h2 without an explicit role still counts as a heading")
}

func TestDetectorAwait_TimesOutWhileLoading(t *testing.T) {
	page := memdriver.New()
	page.Render("PLN EMPSD", heading("title", "Loading…"))
	d := newDetector(t, page)

	err := d.Await(context.Background(), HeadingContains("EMPSD"), 40*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Contains(t, err.Error(), `heading containing "EMPSD"`)
}

func TestDetectorAwait_ResolvesWhenHeadingRenders(t *testing.T) {
	page := memdriver.New()
	page.Render("PLN EMPSD", heading("title", "Loading…"))
	d := newDetector(t, page)

	timer := time.AfterFunc(20*time.Millisecond, func() {
		page.Update("title", func(n *memdriver.Node) { n.Text = "Welcome to EMPSD Dashboard" })
	})
	defer timer.Stop()

	err := d.Await(context.Background(), HeadingContains("EMPSD"), time.Second)
	assert.NoError(t, err)
}

func TestDetectorAwait_ToleratesEvaluationErrors(t *testing.T) {
	page := memdriver.New()
	d := newDetector(t, page)
	calls := 0
	flaky := conditionFunc(func(ctx context.Context) (bool, error) {
		calls++
		if calls < 3 {
			return false, errors.New("execution context was destroyed")
		}
		return true, nil
	})

	require.NoError(t, d.Await(context.Background(), flaky, time.Second))
	assert.Equal(t, 3, calls)
}

func TestDetectorAwait_ReportsLastError(t *testing.T) {
	page := memdriver.New()
	d := newDetector(t, page)
	broken := conditionFunc(func(ctx context.Context) (bool, error) {
		return false, errors.New("execution context was destroyed")
	})

	err := d.Await(context.Background(), broken, 30*time.Millisecond)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Contains(t, err.Error(), "execution context was destroyed")
}

func TestDetectorAwaitScript(t *testing.T) {
	page := memdriver.New()
	page.OnScript("() => window.ready", func(p *memdriver.Page, arg any) (any, error) { return false, nil })
	d := newDetector(t, page)

	err := d.AwaitScript(context.Background(), "() => window.ready", nil, 10*time.Millisecond)
	assert.ErrorIs(t, err, entities.ErrTimeout)

	assert.NoError(t, d.AwaitScript(context.Background(), "() => true", nil, 10*time.Millisecond))
}

func TestURLContainsAndElementVisible(t *testing.T) {
	page := memdriver.New()
	page.Route("https://empsd.test/login", func(p *memdriver.Page) {
		p.Render("PLN EMPSD", &memdriver.Node{ID: "form", Selectors: []string{"form"}})
	})
	require.NoError(t, page.Navigate(context.Background(), "https://empsd.test/login"))

	ok, err := URLContains("login").Check(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ElementVisible(entities.BySelector("form")).Check(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, ok)
}

type conditionFunc func(ctx context.Context) (bool, error)

func (f conditionFunc) Describe() string { return "test condition" }

func (f conditionFunc) Check(ctx context.Context, _ interfaces.Driver) (bool, error) {
	return f(ctx)
}
