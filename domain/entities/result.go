package entities

import "time"

// CaseStatus represents the status of a suite case
type CaseStatus string

const (
	CaseStatusRunning CaseStatus = "running"
	CaseStatusPassed  CaseStatus = "passed"
	CaseStatusFailed  CaseStatus = "failed"
	CaseStatusSkipped CaseStatus = "skipped"
)

// CaseResult is the outcome of one executed case
type CaseResult struct {
	Suite      string        `json:"suite"`
	Case       string        `json:"case"`
	Status     CaseStatus    `json:"status"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
	Message    string        `json:"message,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
	Page       *PageInfo     `json:"page,omitempty"`
}

// Failed reports whether the case failed
func (r CaseResult) Failed() bool {
	return r.Status == CaseStatusFailed
}
