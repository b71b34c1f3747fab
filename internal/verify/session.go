package verify

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Session is the shared capability probes use to capture a page snapshot
// for the report. It is acquired once per run by the orchestrator and
// released unconditionally at run end. Tests inject a fake.
type Session interface {
	// Capture fetches the page at url and stores its source under the
	// given name, returning a reference relative to the run's artifacts
	// directory.
	Capture(ctx context.Context, name, url string) (string, error)
	Close() error
}

const maxSnapshotBytes = 2 << 20

// PageSession captures page sources over HTTP into the snapshots
// subdirectory of a run's artifacts directory.
type PageSession struct {
	Client *http.Client
	dir    string
}

// NewPageSession creates the snapshots directory for one run. An error
// here means no snapshots can be taken at all and aborts the run.
func NewPageSession(runDir string, timeout time.Duration) (*PageSession, error) {
	dir := filepath.Join(runDir, "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PageSession{
		Client: &http.Client{Timeout: timeout},
		dir:    dir,
	}, nil
}

func (s *PageSession) Capture(ctx context.Context, name, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return "", err
	}

	file := slug(name) + ".html"
	if err := os.WriteFile(filepath.Join(s.dir, file), body, 0o644); err != nil {
		return "", err
	}
	return filepath.Join("snapshots", file), nil
}

func (s *PageSession) Close() error {
	s.Client.CloseIdleConnections()
	return nil
}

// slug turns a check name into a safe snapshot filename.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
