package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ReportFile is the name of the run report inside the artifact directory
const ReportFile = "report.json"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type artifactStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewArtifactStore - creates artifact storage rooted at dir on fs
func NewArtifactStore(fs afero.Fs, dir string) (interfaces.ArtifactStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &artifactStore{fs: fs, dir: dir, now: time.Now}, nil
}

// NewOSArtifactStore - creates artifact storage on the local disk
func NewOSArtifactStore(dir string) (interfaces.ArtifactStore, error) {
	return NewArtifactStore(afero.NewOsFs(), dir)
}

func (s *artifactStore) Dir() string {
	return s.dir
}

// SaveScreenshot - writes data as <name>_<timestamp>_<id>.png
func (s *artifactStore) SaveScreenshot(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty screenshot")
	}
	stamp := s.now().UTC().Format("2006-01-02T15-04-05.000Z")
	file := fmt.Sprintf("%s_%s_%s.png", sanitize(name), stamp, uuid.NewString()[:8])
	path := filepath.Join(s.dir, file)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// SaveReport - writes results as JSON, replacing any earlier report
func (s *artifactStore) SaveReport(results []entities.CaseResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, ReportFile)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// LoadReport - reads the report written by SaveReport; a missing report is empty
func LoadReport(fs afero.Fs, dir string) ([]entities.CaseResult, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, ReportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.CaseResult{}, nil
		}
		return nil, err
	}

	var results []entities.CaseResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func sanitize(name string) string {
	name = strings.Trim(unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if name == "" {
		return "screenshot"
	}
	return name
}
