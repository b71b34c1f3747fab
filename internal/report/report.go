package report

import (
	"math"
	"time"

	"github.com/shakedco/deploycheck/internal/verify"
)

// Summary holds the aggregate counts for one run. Total is always the
// sum of the three outcome counts.
type Summary struct {
	Total              int `json:"total"`
	Passed             int `json:"passed"`
	Failed             int `json:"failed"`
	Warnings           int `json:"warnings"`
	SuccessRatePercent int `json:"successRatePercent"`
}

// Report is the immutable summary of one full orchestrator run. It is
// constructed exactly once, from the complete result sequence, and never
// mutated afterwards.
type Report struct {
	RunID           string               `json:"runId"`
	GeneratedAt     time.Time            `json:"generatedAt"`
	DurationSeconds int                  `json:"durationSeconds"`
	Summary         Summary              `json:"summary"`
	Results         []verify.ProbeResult `json:"results"`
}

// Degraded reports whether any check failed or warned.
func (r Report) Degraded() bool {
	return r.Summary.Failed > 0 || r.Summary.Warnings > 0
}

// Generate builds the report for a completed run. Aside from reading the
// clock for GeneratedAt, it is a pure function of the result sequence.
func Generate(runID string, results []verify.ProbeResult, startedAt time.Time) Report {
	now := time.Now().UTC()
	return Report{
		RunID:           runID,
		GeneratedAt:     now,
		DurationSeconds: int(now.Sub(startedAt).Seconds()),
		Summary:         Summarize(results),
		Results:         results,
	}
}

// Summarize tallies the result sequence. Identical inputs always yield
// identical summaries.
func Summarize(results []verify.ProbeResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case verify.StatusPass:
			s.Passed++
		case verify.StatusWarning:
			s.Warnings++
		default:
			s.Failed++
		}
	}
	s.Total = len(results)
	s.SuccessRatePercent = successRate(s.Passed, s.Total)
	return s
}

// successRate is round(100*passed/total), half-up. An empty run is
// defined as 0, not a division crash.
func successRate(passed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(passed*100)/float64(total) + 0.5))
}
