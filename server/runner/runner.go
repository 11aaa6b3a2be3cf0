// Package runner manages background run execution for the server: starting
// runs, refusing concurrent ones, tracking the current run, and keeping a
// history of completed runs with their per-entity results and logs.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/repovault/repovault/logging"
	"github.com/repovault/repovault/orchestrator"
)

// DefaultHistorySize bounds the in-memory history when no store is given.
const DefaultHistorySize = 50

// ErrRunInProgress is returned when a run is requested while one is active.
var ErrRunInProgress = errors.New("run already in progress")

// RunFunc executes one orchestrated run. The runner installs the hook so
// entity logs are captured for the status and history endpoints. A fresh
// RunFunc invocation happens per run, so configuration and client state can
// be rebuilt each time.
type RunFunc func(ctx context.Context, op orchestrator.Operation, hook logging.LoggerHook) (*orchestrator.Report, error)

// Runner executes runs in the background, one at a time.
type Runner struct {
	logger *slog.Logger
	run    RunFunc
	store  StateStore

	mu         sync.Mutex
	state      RunState
	current    RunSummary
	lastReport *orchestrator.Report
	collector  *logging.LogCollector
}

// Option configures a Runner.
type Option func(*Runner)

// WithStateStore configures the runner to persist history in the store.
func WithStateStore(store StateStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// New creates a Runner. History defaults to an in-memory store.
func New(logger *slog.Logger, run RunFunc, opts ...Option) *Runner {
	r := &Runner{
		logger: logger,
		run:    run,
		store:  NewMemoryStore(DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts a run in the background. Returns ErrRunInProgress if one is
// already active.
func (r *Runner) Run(op orchestrator.Operation) error {
	if !r.tryStart(op) {
		return ErrRunInProgress
	}

	r.logger.Info("starting run", "operation", op)
	go r.execute(op)
	return nil
}

// IsRunning reports whether a run is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == RunStateRunning
}

// Status returns the current run status. While running it includes the
// logs captured so far; when idle it reflects the last completed run.
func (r *Runner) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := RunStatus{State: r.state, RunSummary: r.current}
	if r.state == RunStateRunning {
		if r.collector != nil {
			status.Logs = r.collector.AllLogs()
		}
		return status
	}
	if r.lastReport != nil {
		status.Results = r.lastReport.Results
	}
	return status
}

// Results returns the per-entity results of the last completed run, or nil.
func (r *Runner) Results() []orchestrator.ExecutionResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastReport == nil {
		return nil
	}
	return r.lastReport.Results
}

// History returns summaries of completed runs, most recent first.
func (r *Runner) History() []RunSummary {
	return r.store.History()
}

// Record returns the full record of one completed run.
func (r *Runner) Record(id string) (RunRecord, bool) {
	return r.store.Record(id)
}

func (r *Runner) tryStart(op orchestrator.Operation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RunStateRunning {
		return false
	}

	now := time.Now()
	r.state = RunStateRunning
	r.current = RunSummary{Operation: op, StartedAt: &now}
	r.current.ID = r.current.CalculateID()
	r.lastReport = nil
	r.collector = logging.NewLogCollector()
	return true
}

func (r *Runner) execute(op orchestrator.Operation) {
	hook := logging.NewCapturingLoggerHook(r.collector)
	report, err := r.run(context.Background(), op, hook)
	r.finish(report, err)
}

func (r *Runner) finish(report *orchestrator.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.state = RunStateIdle
	r.current.EndedAt = &now
	r.lastReport = report

	switch {
	case err != nil:
		r.current.Error = err.Error()
		r.logger.Error("run aborted", "operation", r.current.Operation, "error", err)
	case report != nil:
		r.current.Success = report.Success
		r.logger.Info("run finished",
			"operation", r.current.Operation,
			"success", report.Success,
			"duration", report.Duration())
	}

	record := RunRecord{RunSummary: r.current}
	if report != nil {
		record.Results = report.Results
	}
	if r.collector != nil {
		record.Logs = r.collector.AllLogs()
	}
	if err := r.store.Save(record); err != nil {
		r.logger.Error("failed to save run record", "error", err)
	}
}
