package cli

import (
	"fmt"
	"io"
	"time"

	"empsd_automation/application/suite"
	"empsd_automation/domain/entities"

	"github.com/fatih/color"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	skipColor  = color.New(color.FgYellow)
	faintColor = color.New(color.Faint)
)

// printReport writes one line per result plus a summary and returns the summary
func printReport(w io.Writer, results []entities.CaseResult) suite.Summary {
	for _, r := range results {
		mark, c := "✓", passColor
		switch r.Status {
		case entities.CaseStatusFailed:
			mark, c = "✗", failColor
		case entities.CaseStatusSkipped:
			mark, c = "-", skipColor
		}
		c.Fprintf(w, "%s %s › %s", mark, r.Suite, r.Case)
		faintColor.Fprintf(w, " (%s)\n", r.Duration.Round(time.Millisecond))

		if r.Status != entities.CaseStatusPassed && r.Message != "" {
			fmt.Fprintf(w, "    %s\n", r.Message)
		}
		if r.Screenshot != "" {
			faintColor.Fprintf(w, "    screenshot: %s\n", r.Screenshot)
		}
	}

	s := suite.Summarize(results)
	fmt.Fprintln(w)
	passColor.Fprintf(w, "Passed: %d", s.Passed)
	fmt.Fprint(w, "  ")
	failColor.Fprintf(w, "Failed: %d", s.Failed)
	fmt.Fprint(w, "  ")
	skipColor.Fprintf(w, "Skipped: %d", s.Skipped)
	faintColor.Fprintf(w, "  (total %s)\n", s.Duration.Round(time.Millisecond))
	return s
}
