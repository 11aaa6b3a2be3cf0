// Package cron schedules automatic save runs for the server.
//
// Trigger wraps a Runnable and starts it according to a cron schedule. It
// is started once and runs until the context is cancelled.
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/repovault/repovault/orchestrator"
)

// ErrInvalidCronSpec is returned when the cron specification cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// Runnable is implemented by anything the scheduler can start a run on.
type Runnable interface {
	Run(op orchestrator.Operation) error
}

// Trigger starts save runs according to a cron schedule.
type Trigger struct {
	spec     string
	schedule cron.Schedule
	runnable Runnable
	logger   *slog.Logger
}

// NewTrigger creates a Trigger from a standard 5-field cron spec
// (minute, hour, day, month, weekday).
func NewTrigger(spec string, runnable Runnable, logger *slog.Logger) (*Trigger, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}

	return &Trigger{
		spec:     spec,
		schedule: schedule,
		runnable: runnable,
		logger:   logger,
	}, nil
}

// Start launches the scheduling loop in a goroutine. Returns immediately;
// the goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled run time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		next := t.schedule.Next(time.Now())
		wait := time.Until(next)

		t.logger.Debug("waiting for next scheduled run", "next_run", next, "wait", wait)

		select {
		case <-ctx.Done():
			t.logger.Info("scheduler shutting down")
			return
		case <-time.After(wait):
			t.executeRun()
		}
	}
}

func (t *Trigger) executeRun() {
	t.logger.Info("starting scheduled save run")

	if err := t.runnable.Run(orchestrator.OperationSave); err != nil {
		t.logger.Warn("scheduled run not started", "error", err)
	}
}
