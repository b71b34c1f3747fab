package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shakedco/deploycheck/internal/config"
	"github.com/shakedco/deploycheck/internal/httpapi"
	"github.com/shakedco/deploycheck/internal/logging"
)

// NewServeCommand creates the serve command: a read-only HTTP view of
// the latest run's artifacts.
func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest report and snapshots over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return Fatal("loading config", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, opts.Verbose)
	if err != nil {
		return Fatal("initializing logging", err)
	}
	defer logger.Sync()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := httpapi.NewServer(logger, cfg.ArtifactsDir)
	srv := &http.Server{Addr: cfg.ServeAddr, Handler: api.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve_listen", zap.String("addr", cfg.ServeAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return Fatal("report server", err)
		}
	case <-ctx.Done():
		logger.Info("serve_shutdown")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return Fatal("report server shutdown", err)
		}
	}
	return nil
}
