package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/repovault/repovault/registry"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// executeLevels runs each level to completion before the next starts.
// Entities within a level run concurrently on a bounded worker pool. The
// returned results follow level order, discovery order within a level.
func (o *Orchestrator) executeLevels(ctx context.Context, levels [][]*registry.Entity) []ExecutionResult {
	run := runctx.New()
	results := make([]ExecutionResult, 0)
	byName := make(map[string]ExecutionResult)

	for i, level := range levels {
		o.logger.Info("executing level", "level", i, "entities", len(level))

		levelResults := make([]ExecutionResult, len(level))
		sem := make(chan struct{}, o.workers)
		var wg sync.WaitGroup

		for j, e := range level {
			wg.Add(1)
			sem <- struct{}{}
			go func(slot int, e *registry.Entity) {
				defer wg.Done()
				defer func() { <-sem }()
				levelResults[slot] = o.executeEntity(ctx, e, run, byName)
			}(j, e)
		}
		wg.Wait()

		// Publish into byName only after the whole level settled, so
		// upstream checks never observe a partially-executed level.
		for _, res := range levelResults {
			byName[res.Entity] = res
			results = append(results, res)
		}
	}

	return results
}

// executeEntity produces the terminal result for one entity.
func (o *Orchestrator) executeEntity(ctx context.Context, e *registry.Entity, run *runctx.RunContext, upstream map[string]ExecutionResult) ExecutionResult {
	name := e.Name()
	logger := o.logger.With("entity", name)
	if o.loggerHook != nil {
		logger = o.loggerHook.LoggerForEntity(logger, name)
	}

	// Build the strategy first: a missing service is reported even when an
	// upstream failure would also have skipped this entity.
	var (
		save    strategy.SaveStrategy
		restore strategy.RestoreStrategy
		err     error
	)
	if o.operation == OperationSave {
		save, err = o.factory.CreateSave(e, o.services)
	} else {
		restore, err = o.factory.CreateRestore(e, o.services)
	}
	if err != nil {
		var creation *strategy.CreationError
		if errors.As(err, &creation) {
			logger.Warn("entity skipped, services missing", "error", err)
			return ExecutionResult{Entity: name, Status: SkippedMissingService, Detail: err.Error()}
		}
		logger.Error("strategy construction failed", "error", err)
		return ExecutionResult{Entity: name, Status: Failed, Detail: err.Error()}
	}

	// Upstream failures are detected from recorded results, never by
	// attempting the pipeline.
	for _, dep := range e.Descriptor.Dependencies {
		res, ok := upstream[dep]
		if !ok {
			continue // dependency was disabled, cascade already vetted this
		}
		if res.Status != Succeeded {
			logger.Warn("entity skipped, upstream did not succeed", "dependency", dep, "dependency_status", res.Status)
			return ExecutionResult{
				Entity: name,
				Status: SkippedUpstreamFailure,
				Detail: fmt.Sprintf("dependency %q finished with status %s", dep, res.Status),
			}
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("entity not started, run cancelled", "error", err)
		return ExecutionResult{Entity: name, Status: Failed, Detail: fmt.Sprintf("cancelled: %v", err)}
	}

	logger.Info("executing entity")
	start := time.Now()

	pipelineCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var items int
	if o.operation == OperationSave {
		items, err = o.runSave(pipelineCtx, save, run)
	} else {
		items, err = o.runRestore(pipelineCtx, restore, run)
	}
	duration := time.Since(start)

	if err != nil {
		detail := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			detail = fmt.Sprintf("timed out after %s: %v", o.timeout, err)
		}
		logger.Error("entity failed", "error", err, "duration", duration)
		return ExecutionResult{Entity: name, Status: Failed, Items: items, Detail: detail, Duration: duration}
	}

	logger.Info("entity succeeded", "items", items, "duration", duration)
	return ExecutionResult{Entity: name, Status: Succeeded, Items: items, Duration: duration}
}

// runSave drives collect, transform, persist and the optional publish.
func (o *Orchestrator) runSave(ctx context.Context, s strategy.SaveStrategy, run *runctx.RunContext) (items int, err error) {
	defer recoverPanic(&err)

	collected, err := s.Collect(ctx)
	if err != nil {
		return 0, fmt.Errorf("collecting: %w", err)
	}
	transformed, err := s.Transform(ctx, collected, run)
	if err != nil {
		return 0, fmt.Errorf("transforming: %w", err)
	}
	items, err = s.Persist(ctx, transformed)
	if err != nil {
		return items, fmt.Errorf("persisting: %w", err)
	}

	if p, ok := s.(strategy.Publisher); ok {
		if err := p.Publish(run); err != nil {
			return items, fmt.Errorf("publishing: %w", err)
		}
	}
	return items, nil
}

// runRestore drives read, then transform and write per item, and the
// optional publish. Items dropped via ErrSkipItem are not counted.
func (o *Orchestrator) runRestore(ctx context.Context, s strategy.RestoreStrategy, run *runctx.RunContext) (items int, err error) {
	defer recoverPanic(&err)

	saved, err := s.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading: %w", err)
	}

	for _, item := range saved {
		payload, err := s.Transform(ctx, item, run)
		if errors.Is(err, strategy.ErrSkipItem) {
			continue
		}
		if err != nil {
			return items, fmt.Errorf("transforming: %w", err)
		}

		if _, err := s.Write(ctx, payload); err != nil {
			if errors.Is(err, strategy.ErrSkipItem) {
				continue
			}
			return items, fmt.Errorf("writing: %w", err)
		}
		items++
	}

	if p, ok := s.(strategy.Publisher); ok {
		if err := p.Publish(run); err != nil {
			return items, fmt.Errorf("publishing: %w", err)
		}
	}
	return items, nil
}

// recoverPanic converts a strategy panic into an error so a misbehaving
// strategy cannot take down the whole run.
func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}
