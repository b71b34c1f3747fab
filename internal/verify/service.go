package verify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Endpoint is one declared service to verify.
type Endpoint struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeout_ms"`

	// Primary marks the endpoint whose page is snapshotted even on a
	// passing check, for audit purposes.
	Primary bool `yaml:"primary"`
}

const defaultTimeoutMS = 5000

func (e Endpoint) timeoutMS() int {
	if e.TimeoutMS <= 0 {
		return defaultTimeoutMS
	}
	return e.TimeoutMS
}

// ServiceProbe performs a single reachability check against one endpoint.
// It never returns an error: every transport failure is converted into a
// fail result with a message describing what went wrong.
type ServiceProbe struct {
	Client  *http.Client
	Session Session
	Logger  *zap.Logger
}

func NewServiceProbe(session Session, logger *zap.Logger) *ServiceProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceProbe{
		Client:  &http.Client{},
		Session: session,
		Logger:  logger,
	}
}

// Check probes the endpoint once. HTTP 200 passes; a refused connection,
// a timeout, any other status, and any other transport error each fail
// with a distinct message. Failing checks get a page snapshot attached;
// so does a passing check on the primary endpoint.
func (p *ServiceProbe) Check(ctx context.Context, ep Endpoint) ProbeResult {
	timeout := time.Duration(ep.timeoutMS()) * time.Millisecond
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return p.fail(ctx, ep, "invalid probe request: "+err.Error())
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, syscall.ECONNREFUSED):
			return p.fail(ctx, ep, fmt.Sprintf("connection refused: nothing listening at %s", ep.URL))
		case isTimeout(err):
			return p.fail(ctx, ep, fmt.Sprintf("no response within %dms", ep.timeoutMS()))
		default:
			return p.fail(ctx, ep, err.Error())
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.fail(ctx, ep, (&StatusError{Code: resp.StatusCode}).Error())
	}

	r := ProbeResult{
		Name:      ep.Name,
		Status:    StatusPass,
		Message:   fmt.Sprintf("HTTP 200 OK in %dms", time.Since(start).Milliseconds()),
		Timestamp: time.Now().UTC(),
	}
	if ep.Primary {
		r.ArtifactRef = p.snapshot(ctx, ep)
	}
	p.Logger.Debug("service_checked",
		zap.String("endpoint", ep.Name),
		zap.String("url", ep.URL),
		zap.Int("status", resp.StatusCode),
	)
	return r
}

func (p *ServiceProbe) fail(ctx context.Context, ep Endpoint, msg string) ProbeResult {
	p.Logger.Warn("service_check_failed",
		zap.String("endpoint", ep.Name),
		zap.String("url", ep.URL),
		zap.String("reason", msg),
	)
	return ProbeResult{
		Name:        ep.Name,
		Status:      StatusFail,
		Message:     msg,
		Timestamp:   time.Now().UTC(),
		ArtifactRef: p.snapshot(ctx, ep),
	}
}

// snapshot is best-effort: a capture failure is logged and leaves the
// result without an artifact, it never changes the check outcome.
func (p *ServiceProbe) snapshot(ctx context.Context, ep Endpoint) string {
	if p.Session == nil {
		return ""
	}
	ref, err := p.Session.Capture(ctx, ep.Name, ep.URL)
	if err != nil {
		p.Logger.Warn("snapshot_failed",
			zap.String("endpoint", ep.Name),
			zap.Error(err),
		)
		return ""
	}
	return ref
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
