package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ContentCheck declares a page whose body must contain a marker string.
type ContentCheck struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Marker    string `yaml:"marker"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

func (c ContentCheck) timeoutMS() int {
	if c.TimeoutMS <= 0 {
		return defaultTimeoutMS
	}
	return c.TimeoutMS
}

const maxContentBytes = 4 << 20

// ContentProbe fetches a page and verifies it serves the expected
// content. A reachable page missing the marker is a warning, not a fail:
// the service is up but serving something unexpected.
type ContentProbe struct {
	Client  *http.Client
	Session Session
	Logger  *zap.Logger
}

func NewContentProbe(session Session, logger *zap.Logger) *ContentProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentProbe{
		Client:  &http.Client{},
		Session: session,
		Logger:  logger,
	}
}

func (p *ContentProbe) Check(ctx context.Context, chk ContentCheck) ProbeResult {
	timeout := time.Duration(chk.timeoutMS()) * time.Millisecond
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, chk.URL, nil)
	if err != nil {
		return p.result(ctx, chk, StatusFail, "invalid probe request: "+err.Error())
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, syscall.ECONNREFUSED):
			return p.result(ctx, chk, StatusFail, fmt.Sprintf("connection refused: nothing listening at %s", chk.URL))
		case isTimeout(err):
			return p.result(ctx, chk, StatusFail, fmt.Sprintf("no response within %dms", chk.timeoutMS()))
		default:
			return p.result(ctx, chk, StatusFail, err.Error())
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.result(ctx, chk, StatusFail, (&StatusError{Code: resp.StatusCode}).Error())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return p.result(ctx, chk, StatusFail, "reading page body: "+err.Error())
	}

	if chk.Marker != "" && !strings.Contains(string(body), chk.Marker) {
		return p.result(ctx, chk, StatusWarning,
			fmt.Sprintf("page reachable but expected content %q not found", chk.Marker))
	}

	r := ProbeResult{
		Name:      chk.Name,
		Status:    StatusPass,
		Message:   "page serves expected content",
		Timestamp: time.Now().UTC(),
	}
	return r
}

// result builds a non-pass outcome and attaches a snapshot of the page.
func (p *ContentProbe) result(ctx context.Context, chk ContentCheck, st Status, msg string) ProbeResult {
	p.Logger.Warn("content_check_flagged",
		zap.String("check", chk.Name),
		zap.String("status", string(st)),
		zap.String("reason", msg),
	)
	r := ProbeResult{
		Name:      chk.Name,
		Status:    st,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	}
	if p.Session != nil {
		if ref, err := p.Session.Capture(ctx, chk.Name, chk.URL); err == nil {
			r.ArtifactRef = ref
		}
	}
	return r
}
