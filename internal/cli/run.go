package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shakedco/deploycheck/internal/config"
	"github.com/shakedco/deploycheck/internal/logging"
	"github.com/shakedco/deploycheck/internal/notify"
	"github.com/shakedco/deploycheck/internal/report"
	"github.com/shakedco/deploycheck/internal/verify"
)

// NewRunCommand creates the run command: one full verification pass.
func NewRunCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run all verification scenarios and write the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerification(cmd, opts)
		},
	}
}

func runVerification(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return Fatal("loading config", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, opts.Verbose)
	if err != nil {
		return Fatal("initializing logging", err)
	}
	defer logger.Sync()

	runID := uuid.NewString()
	runDir := filepath.Join(cfg.ArtifactsDir, runID)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	// Operator abort tears down the session and reports what was
	// collected so far.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan := verify.Plan{
		Content:   cfg.Tracker,
		Expected:  cfg.Processes.Expected,
		Manager:   verify.NewPM2(cfg.Processes.PM2Bin),
		Endpoints: cfg.Endpoints,
		Logger:    logger,
	}
	orch := verify.NewOrchestrator(logger, func() (verify.Session, error) {
		return verify.NewPageSession(runDir, 10*time.Second)
	}, plan.Scenarios)

	startedAt := time.Now().UTC()
	logger.Info("run_started",
		zap.String("run_id", runID),
		zap.Int("endpoints", len(cfg.Endpoints)),
		zap.Int("expected_processes", len(cfg.Processes.Expected)),
	)

	results, err := orch.Run(ctx)
	if err != nil {
		return &ExitError{Code: ExitFatal, Message: "verification aborted", Err: err}
	}

	rep := report.Generate(runID, results, startedAt)
	jsonPath, htmlPath, err := report.Write(runDir, rep)
	if err != nil {
		return Fatal("writing report", err)
	}
	logger.Info("report_written",
		zap.String("run_id", runID),
		zap.String("json", jsonPath),
		zap.String("html", htmlPath),
		zap.Int("success_rate", rep.Summary.SuccessRatePercent),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "checks: %d  passed: %d  failed: %d  warnings: %d  success: %d%%\n",
		rep.Summary.Total, rep.Summary.Passed, rep.Summary.Failed,
		rep.Summary.Warnings, rep.Summary.SuccessRatePercent)
	fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", htmlPath)

	if rep.Degraded() {
		notifyDegraded(cfg, logger, rep)
		return &ExitError{
			Code: ExitDegraded,
			Message: fmt.Sprintf("verification degraded: %d failed, %d warnings",
				rep.Summary.Failed, rep.Summary.Warnings),
		}
	}
	return nil
}

// notifyDegraded is best-effort and never changes the exit code. It uses
// its own context so an operator abort doesn't suppress the alert.
func notifyDegraded(cfg config.Config, logger *zap.Logger, rep report.Report) {
	var notifiers notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifiers = append(notifiers, s)
	}
	if len(notifiers) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	title := "Deployment verification degraded"
	text := fmt.Sprintf("run %s: passed %d/%d (%d%%), %d failed, %d warnings",
		rep.RunID, rep.Summary.Passed, rep.Summary.Total,
		rep.Summary.SuccessRatePercent, rep.Summary.Failed, rep.Summary.Warnings)
	if err := notifiers.Send(ctx, title, text); err != nil {
		logger.Warn("notify_failed", zap.Error(err))
	}
}
