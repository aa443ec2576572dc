package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"empsd_automation/domain/entities"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveScreenshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewArtifactStore(fs, "test-results/screenshots")
	require.NoError(t, err)
	store.(*artifactStore).now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	path, err := store.SaveScreenshot("Authentication / Login with admin", []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, "test-results/screenshots", filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "Authentication_Login_with_admin_2026-01-02T03-04-05.000Z_"), base)
	assert.True(t, strings.HasSuffix(base, ".png"))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestSaveScreenshot_UniqueNames(t *testing.T) {
	store, err := NewArtifactStore(afero.NewMemMapFs(), "out")
	require.NoError(t, err)

	a, err := store.SaveScreenshot("case", []byte("1"))
	require.NoError(t, err)
	b, err := store.SaveScreenshot("case", []byte("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveScreenshot_Rejects(t *testing.T) {
	store, err := NewArtifactStore(afero.NewMemMapFs(), "out")
	require.NoError(t, err)

	_, err = store.SaveScreenshot("case", nil)
	assert.Error(t, err)

	_, err = NewArtifactStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "screenshot", sanitize("  /// "))
	assert.Equal(t, "a_b.c-d", sanitize("a b.c-d"))
}

func TestReportRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewArtifactStore(fs, "out")
	require.NoError(t, err)

	empty, err := LoadReport(fs, "out")
	require.NoError(t, err)
	assert.Empty(t, empty)

	results := []entities.CaseResult{
		{Suite: "Authentication", Case: "Login Page Verification", Status: entities.CaseStatusPassed, Duration: time.Second},
		{Suite: "Dashboard", Case: "Performance Check", Status: entities.CaseStatusFailed, Message: "too slow"},
	}
	path, err := store.SaveReport(results)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", ReportFile), path)

	got, err := LoadReport(fs, "out")
	require.NoError(t, err)
	assert.Equal(t, results, got)
}
