package interfaces

import "empsd_automation/domain/entities"

// ArtifactStore persists artifacts produced while running cases
type ArtifactStore interface {
	// SaveScreenshot stores a PNG screenshot and returns where it was written
	SaveScreenshot(name string, data []byte) (string, error)

	// SaveReport stores the results of a run and returns where it was written
	SaveReport(results []entities.CaseResult) (string, error)

	// Dir returns the directory artifacts are written to
	Dir() string
}
