package httpapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server exposes the latest verification run's artifacts read-only, so
// operators and dashboards can fetch the report without shelling into
// the box. It never mutates the artifacts directory.
type Server struct {
	Logger       *zap.Logger
	ArtifactsDir string
	Limit        *rate.Limiter
}

func NewServer(logger *zap.Logger, artifactsDir string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Logger:       logger,
		ArtifactsDir: artifactsDir,
		Limit:        rate.NewLimiter(rate.Limit(20), 40),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(s.throttle)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/report.html", http.StatusFound)
	})
	r.Get("/report.json", s.artifact("report.json", "application/json"))
	r.Get("/report.html", s.artifact("report.html", "text/html; charset=utf-8"))
	r.Get("/snapshots/{name}", s.handleSnapshot)

	return r
}

// latestRunDir resolves the most recently modified run directory.
func (s *Server) latestRunDir() (string, error) {
	entries, err := os.ReadDir(s.ArtifactsDir)
	if err != nil {
		return "", err
	}
	var latest string
	var latestMod time.Time
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = e.Name()
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", errors.New("no runs recorded")
	}
	return filepath.Join(s.ArtifactsDir, latest), nil
}

func (s *Server) artifact(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, err := s.latestRunDir()
		if err != nil {
			http.Error(w, "no report available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, filepath.Join(dir, name))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	dir, err := s.latestRunDir()
	if err != nil {
		http.Error(w, "no report available", http.StatusNotFound)
		return
	}
	// Base strips any path traversal from the URL parameter.
	name := filepath.Base(chi.URLParam(r, "name"))
	http.ServeFile(w, r, filepath.Join(dir, "snapshots", name))
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Limit.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}
