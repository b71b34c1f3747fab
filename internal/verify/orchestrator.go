package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// State of one orchestrator run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Scenario is a named group of probes evaluated together. A failure
// inside one scenario never prevents the remaining scenarios from
// running.
type Scenario struct {
	Name string
	Run  func(ctx context.Context) []ProbeResult
}

// SessionFactory acquires the shared session for one run.
type SessionFactory func() (Session, error)

// Orchestrator runs a fixed, declared sequence of scenarios against one
// shared session. Scenarios execute strictly one at a time in declared
// order; each scenario's results are appended to the collector before
// the next scenario starts.
type Orchestrator struct {
	logger    *zap.Logger
	factory   SessionFactory
	build     func(Session) []Scenario
	collector *Collector
	state     State
}

func NewOrchestrator(logger *zap.Logger, factory SessionFactory, build func(Session) []Scenario) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		logger:    logger,
		factory:   factory,
		build:     build,
		collector: NewCollector(),
		state:     StateIdle,
	}
}

// Run executes every scenario in order and returns the collected result
// sequence. The only error it can return is a *SessionError: the session
// could not be acquired, the run is aborted, and no results exist. Any
// failure inside a scenario is converted into a fail result and the run
// continues. Cancelling ctx stops the run after the current scenario;
// results collected so far are still returned.
func (o *Orchestrator) Run(ctx context.Context) ([]ProbeResult, error) {
	o.state = StateRunning

	sess, err := o.factory()
	if err != nil {
		o.state = StateAborted
		var se *SessionError
		if !errors.As(err, &se) {
			err = &SessionError{Err: err}
		}
		o.logger.Error("run_aborted", zap.Error(err))
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			o.logger.Warn("session_close_failed", zap.Error(cerr))
		}
	}()

	for _, sc := range o.build(sess) {
		if ctx.Err() != nil {
			o.logger.Warn("run_interrupted", zap.String("next_scenario", sc.Name))
			break
		}
		for _, r := range o.runScenario(ctx, sc) {
			o.collector.Record(r)
		}
	}

	o.state = StateCompleted
	return o.collector.All(), nil
}

func (o *Orchestrator) State() State { return o.state }

// runScenario isolates one scenario: a panic inside it becomes a single
// fail result so the scenario still contributes exactly one entry.
func (o *Orchestrator) runScenario(ctx context.Context, sc Scenario) (results []ProbeResult) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("scenario_panicked",
				zap.String("scenario", sc.Name),
				zap.Any("panic", rec),
			)
			results = []ProbeResult{{
				Name:      sc.Name,
				Status:    StatusFail,
				Message:   fmt.Sprintf("scenario error: %v", rec),
				Timestamp: time.Now().UTC(),
			}}
		}
	}()

	start := time.Now()
	results = sc.Run(ctx)
	o.logger.Info("scenario_done",
		zap.String("scenario", sc.Name),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return results
}
