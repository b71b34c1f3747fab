package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakedco/deploycheck/internal/verify"
)

func fixtureReport() Report {
	return Report{
		RunID:           "00000000-0000-0000-0000-000000000000",
		GeneratedAt:     time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		DurationSeconds: 12,
		Summary:         Summary{Total: 3, Passed: 1, Failed: 1, Warnings: 1, SuccessRatePercent: 33},
		Results: []verify.ProbeResult{
			{
				Name:        "Tracker Content",
				Status:      verify.StatusWarning,
				Message:     "page reachable but expected content \"My Tasks\" not found",
				Timestamp:   time.Date(2025, 3, 14, 10, 29, 50, 0, time.UTC),
				ArtifactRef: "snapshots/tracker-content.html",
			},
			{
				Name:      "Process: tracker-api",
				Status:    verify.StatusPass,
				Message:   "service is running",
				Timestamp: time.Date(2025, 3, 14, 10, 29, 52, 0, time.UTC),
			},
			{
				Name:        "Web",
				Status:      verify.StatusFail,
				Message:     "connection refused: nothing listening at http://localhost:3000",
				Timestamp:   time.Date(2025, 3, 14, 10, 29, 55, 0, time.UTC),
				ArtifactRef: "snapshots/web.html",
			},
		},
	}
}

// The JSON layout is the machine interface; the golden file pins field
// order and naming across runs.
func TestRenderJSON_Golden(t *testing.T) {
	out, err := RenderJSON(fixtureReport())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_json", out)
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	out, err := RenderJSON(fixtureReport())
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, fixtureReport(), back)
}

func TestRenderHTML_PresentsReportData(t *testing.T) {
	out, err := RenderHTML(fixtureReport())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "00000000-0000-0000-0000-000000000000")
	assert.Contains(t, html, "Tracker Content")
	assert.Contains(t, html, "Process: tracker-api")
	assert.Contains(t, html, "33%")
	assert.Contains(t, html, `class="fail"`)
	assert.Contains(t, html, `class="warning"`)
	assert.Contains(t, html, "snapshots/web.html")
	// Omitted snapshots render no link.
	assert.NotContains(t, html, `href=""`)
}

func TestRenderHTML_DeterministicForSameReport(t *testing.T) {
	a, err := RenderHTML(fixtureReport())
	require.NoError(t, err)
	b, err := RenderHTML(fixtureReport())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
