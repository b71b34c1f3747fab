package verify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeSession records captures so probes can be tested without a real
// page-fetching session.
type fakeSession struct {
	captures []string
	closed   bool
	err      error
}

func (f *fakeSession) Capture(ctx context.Context, name, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.captures = append(f.captures, name)
	return "snapshots/" + slug(name) + ".html", nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func TestServiceProbe_Status200Passes(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}))
	defer s.Close()

	p := NewServiceProbe(nil, nil)
	out := p.Check(context.Background(), Endpoint{Name: "API Health", URL: s.URL, TimeoutMS: 5000})
	if out.Status != StatusPass {
		t.Fatalf("want pass, got %+v", out)
	}
	if !strings.Contains(out.Message, "200") {
		t.Fatalf("want message to record the status, got %q", out.Message)
	}
	if out.Timestamp.IsZero() {
		t.Fatalf("want timestamp set")
	}
}

func TestServiceProbe_UnexpectedStatusFails(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 503)
	}))
	defer s.Close()

	p := NewServiceProbe(nil, nil)
	out := p.Check(context.Background(), Endpoint{Name: "api", URL: s.URL})
	if out.Status != StatusFail {
		t.Fatalf("want fail, got %+v", out)
	}
	if !strings.Contains(out.Message, "503") {
		t.Fatalf("want numeric status in message, got %q", out.Message)
	}
}

func TestServiceProbe_RefusedConnectionFails(t *testing.T) {
	// Grab a port that nothing listens on anymore.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	p := NewServiceProbe(nil, nil)
	out := p.Check(context.Background(), Endpoint{Name: "web", URL: url})
	if out.Status != StatusFail {
		t.Fatalf("want fail, got %+v", out)
	}
	if !strings.Contains(out.Message, "refused") {
		t.Fatalf("want refusal message, got %q", out.Message)
	}
}

func TestServiceProbe_TimeoutFailsDistinctly(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	sess := &fakeSession{err: errors.New("capture also times out")}
	p := NewServiceProbe(sess, nil)
	out := p.Check(context.Background(), Endpoint{Name: "slow", URL: s.URL, TimeoutMS: 50})
	if out.Status != StatusFail {
		t.Fatalf("want fail, got %+v", out)
	}
	if !strings.Contains(out.Message, "no response within 50ms") {
		t.Fatalf("want timeout message, got %q", out.Message)
	}
	if strings.Contains(out.Message, "refused") {
		t.Fatalf("timeout must be distinct from refusal, got %q", out.Message)
	}
}

func TestServiceProbe_FailureCapturesSnapshot(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", 500)
	}))
	defer s.Close()

	sess := &fakeSession{}
	p := NewServiceProbe(sess, nil)
	out := p.Check(context.Background(), Endpoint{Name: "API", URL: s.URL})
	if out.ArtifactRef == "" {
		t.Fatalf("want snapshot attached on failure, got %+v", out)
	}
	if len(sess.captures) != 1 {
		t.Fatalf("want one capture, got %v", sess.captures)
	}
}

func TestServiceProbe_PrimaryPassCapturesSnapshot(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer s.Close()

	sess := &fakeSession{}
	p := NewServiceProbe(sess, nil)

	out := p.Check(context.Background(), Endpoint{Name: "Web", URL: s.URL, Primary: true})
	if out.Status != StatusPass || out.ArtifactRef == "" {
		t.Fatalf("want primary pass with snapshot, got %+v", out)
	}

	out = p.Check(context.Background(), Endpoint{Name: "API", URL: s.URL})
	if out.ArtifactRef != "" {
		t.Fatalf("non-primary pass must not snapshot, got %+v", out)
	}
}

func TestServiceProbe_SnapshotFailureDoesNotChangeOutcome(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", 500)
	}))
	defer s.Close()

	sess := &fakeSession{err: errors.New("browser gone")}
	p := NewServiceProbe(sess, nil)
	out := p.Check(context.Background(), Endpoint{Name: "API", URL: s.URL})
	if out.Status != StatusFail {
		t.Fatalf("want fail, got %+v", out)
	}
	if out.ArtifactRef != "" {
		t.Fatalf("failed capture must leave artifact empty, got %q", out.ArtifactRef)
	}
}
