// Package orchestrator runs a complete save or restore across all enabled
// entity types.
//
// # Run lifecycle
//
// A run moves through fixed phases: discover the entity catalog, resolve
// configuration values, validate dependencies, partition the enabled
// entities into execution levels, then execute the levels in order. Any
// error before execution aborts the run with no side effects; from the
// first executed entity onward the run always completes and reports every
// entity's outcome.
//
// # Levels and concurrency
//
// Levels are a topological partition of the enabled dependency graph:
// level 0 holds entities with no enabled dependencies, level k entities
// whose dependencies all sit in earlier levels. A level must fully settle
// before the next starts; inside a level entities run concurrently on a
// bounded worker pool. This is the only cross-entity ordering guarantee.
//
// # Failure isolation
//
// Each entity ends in exactly one terminal status. A pipeline error,
// panic, or timeout yields Failed for that entity alone; entities in later
// levels that depend on it are recorded as SkippedUpstreamFailure without
// being invoked. An entity whose required services are absent from the
// strategy context is recorded as SkippedMissingService. The run's overall
// success is false only when some entity actually Failed.
//
// # Shared values
//
// Strategies may publish values for later levels through a write-once run
// context: writers in level k finish before readers in level k+1 start, so
// reads never race with writes.
package orchestrator
