package report

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Write renders both artifacts into dir and returns their paths. Both
// files are attempted even if one fails; the errors are combined.
func Write(dir string, r Report) (jsonPath, htmlPath string, err error) {
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return "", "", mkErr
	}

	jsonPath = filepath.Join(dir, "report.json")
	htmlPath = filepath.Join(dir, "report.html")

	jb, jErr := RenderJSON(r)
	if jErr == nil {
		jErr = os.WriteFile(jsonPath, jb, 0o644)
	}
	hb, hErr := RenderHTML(r)
	if hErr == nil {
		hErr = os.WriteFile(htmlPath, hb, 0o644)
	}

	return jsonPath, htmlPath, multierr.Append(jErr, hErr)
}
