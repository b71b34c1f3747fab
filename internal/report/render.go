package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"time"
)

// RenderJSON encodes the report with a stable field order so consecutive
// runs can be diffed by machines.
func RenderJSON(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// RenderHTML renders a self-contained document from the report. It is a
// pure function of the Report value and presents nothing that is not in
// the JSON rendering.
func RenderHTML(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"rfc3339": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Deployment Verification Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f0f0f0; }
.pass { color: #1a7f37; font-weight: bold; }
.fail { color: #b42318; font-weight: bold; }
.warning { color: #9a6700; font-weight: bold; }
.meta { color: #666; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>Deployment Verification Report</h1>
<p class="meta">run {{.RunID}} &middot; generated {{rfc3339 .GeneratedAt}} &middot; took {{.DurationSeconds}}s</p>
<table>
<tr><th>Total</th><th>Passed</th><th>Failed</th><th>Warnings</th><th>Success rate</th></tr>
<tr>
<td>{{.Summary.Total}}</td>
<td class="pass">{{.Summary.Passed}}</td>
<td class="fail">{{.Summary.Failed}}</td>
<td class="warning">{{.Summary.Warnings}}</td>
<td>{{.Summary.SuccessRatePercent}}%</td>
</tr>
</table>
<table>
<tr><th>Check</th><th>Status</th><th>Message</th><th>Time</th><th>Snapshot</th></tr>
{{range .Results}}<tr>
<td>{{.Name}}</td>
<td class="{{.Status}}">{{.Status}}</td>
<td>{{.Message}}</td>
<td>{{rfc3339 .Timestamp}}</td>
<td>{{if .ArtifactRef}}<a href="{{.ArtifactRef}}">{{.ArtifactRef}}</a>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`
