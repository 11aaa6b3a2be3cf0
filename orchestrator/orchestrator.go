package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/logging"
	"github.com/repovault/repovault/metrics"
	"github.com/repovault/repovault/registry"
	"github.com/repovault/repovault/strategy"
)

const (
	// DefaultWorkers bounds concurrency within one execution level.
	DefaultWorkers = 4

	// DefaultEntityTimeout caps one entity's pipeline invocation.
	DefaultEntityTimeout = 10 * time.Minute
)

// Orchestrator drives one save or restore run: discover the entity
// catalog, resolve configuration, validate dependencies, partition into
// levels, then execute levels in order with bounded concurrency inside
// each level. Failures are isolated to the entity they occur in.
type Orchestrator struct {
	operation Operation

	descriptors []entity.Descriptor
	values      map[string]string
	strict      bool
	workers     int
	timeout     time.Duration

	factory  *strategy.Factory
	services *strategy.Context

	logger     *slog.Logger
	loggerHook logging.LoggerHook
	runMetrics *metrics.RunMetrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDescriptors overrides the entity catalog. The default is the
// built-in catalog.
func WithDescriptors(descriptors []entity.Descriptor) Option {
	return func(o *Orchestrator) {
		o.descriptors = descriptors
	}
}

// WithConfigValues provides the configKey to raw value map used to enable
// and select entities.
func WithConfigValues(values map[string]string) Option {
	return func(o *Orchestrator) {
		o.values = values
	}
}

// WithStrict makes a disabled dependency a fatal configuration error
// instead of cascading the disable.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// WithWorkers bounds concurrency within a level. Values below 1 keep the
// default.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.workers = n
		}
	}
}

// WithEntityTimeout caps each entity's pipeline invocation.
func WithEntityTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger.With("component", "orchestrator")
	}
}

// WithFactory sets the strategy factory. Required for Run.
func WithFactory(factory *strategy.Factory) Option {
	return func(o *Orchestrator) {
		o.factory = factory
	}
}

// WithServices sets the service context strategies are built from.
func WithServices(services *strategy.Context) Option {
	return func(o *Orchestrator) {
		o.services = services
	}
}

// WithLoggerHook wraps the logger handed to each entity's execution,
// letting the server capture per-entity logs for a run.
func WithLoggerHook(hook logging.LoggerHook) Option {
	return func(o *Orchestrator) {
		o.loggerHook = hook
	}
}

// WithMetrics records run and entity metrics into m.
func WithMetrics(m *metrics.RunMetrics) Option {
	return func(o *Orchestrator) {
		o.runMetrics = m
	}
}

// NewSave creates an orchestrator for the save direction.
func NewSave(opts ...Option) *Orchestrator {
	return newOrchestrator(OperationSave, opts)
}

// NewRestore creates an orchestrator for the restore direction.
func NewRestore(opts ...Option) *Orchestrator {
	return newOrchestrator(OperationRestore, opts)
}

func newOrchestrator(op Operation, opts []Option) *Orchestrator {
	o := &Orchestrator{
		operation:   op,
		descriptors: entity.Catalog(),
		workers:     DefaultWorkers,
		timeout:     DefaultEntityTimeout,
		services:    strategy.NewContext(),
		logger:      slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// prepare walks the discover, configure, validate and schedule phases and
// returns the computed levels. Any error here is fatal: no entity has run.
func (o *Orchestrator) prepare() (*registry.Registry, [][]*registry.Entity, error) {
	reg, err := registry.New(o.descriptors, registry.WithLogger(o.logger))
	if err != nil {
		return nil, nil, err
	}
	if err := reg.ConfigureFrom(o.values); err != nil {
		return nil, nil, err
	}
	if err := reg.ValidateDependencies(o.strict); err != nil {
		return nil, nil, err
	}
	levels, err := reg.ComputeLevels()
	if err != nil {
		return nil, nil, err
	}
	return reg, levels, nil
}

// Plan resolves configuration and returns the execution levels as entity
// names, without running anything.
func (o *Orchestrator) Plan() ([][]string, error) {
	_, levels, err := o.prepare()
	if err != nil {
		return nil, err
	}

	plan := make([][]string, len(levels))
	for i, level := range levels {
		names := make([]string, len(level))
		for j, e := range level {
			names[j] = e.Name()
		}
		plan[i] = names
	}
	return plan, nil
}

// Run executes the full state machine. A nil error means the run reached
// the end of its levels; inspect Report.Success and the per-entity results
// for partial failure. A non-nil error means the run aborted before any
// entity executed.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if o.factory == nil {
		return nil, fmt.Errorf("no strategy factory configured")
	}

	start := time.Now()
	o.logger.Info("starting run", "operation", o.operation, "strict", o.strict, "workers", o.workers)

	_, levels, err := o.prepare()
	if err != nil {
		o.logger.Error("run aborted", "operation", o.operation, "error", err)
		return nil, err
	}

	enabled := 0
	for _, level := range levels {
		enabled += len(level)
	}
	o.logger.Info("run scheduled", "levels", len(levels), "entities", enabled)

	results := o.executeLevels(ctx, levels)

	report := &Report{
		Operation: o.operation,
		Results:   results,
		Success:   true,
		StartedAt: start,
		EndedAt:   time.Now(),
	}
	for _, res := range results {
		if res.Status == Failed {
			report.Success = false
			break
		}
	}

	o.recordRunMetrics(report)
	o.logger.Info("run finished",
		"operation", o.operation,
		"success", report.Success,
		"entities", len(report.Results),
		"duration", report.Duration())
	return report, nil
}

func (o *Orchestrator) recordRunMetrics(report *Report) {
	if o.runMetrics == nil {
		return
	}
	op := string(o.operation)

	o.runMetrics.RunDuration.With(prometheus.Labels{"operation": op}).Set(report.Duration().Seconds())
	success := 0.0
	if report.Success {
		success = 1.0
	}
	o.runMetrics.RunSuccess.With(prometheus.Labels{"operation": op}).Set(success)

	for _, res := range report.Results {
		labels := prometheus.Labels{"operation": op, "entity": res.Entity}
		o.runMetrics.EntityItems.With(labels).Set(float64(res.Items))
		o.runMetrics.EntityDuration.With(labels).Set(res.Duration.Seconds())
		if res.Status != Succeeded {
			o.runMetrics.EntityFailures.With(prometheus.Labels{
				"operation": op,
				"entity":    res.Entity,
				"status":    string(res.Status),
			}).Inc()
		}
	}
}
