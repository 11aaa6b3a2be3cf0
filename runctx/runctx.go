// Package runctx provides the write-once value store shared across one
// orchestrator run. Entities in one execution level publish values that
// entities in later levels consume; because levels are barriers, a reader
// never races a writer. Writing the same key twice is a programming error
// and fails loudly instead of silently overwriting.
package runctx

import (
	"fmt"
	"sync"
)

// Well-known keys published by the built-in strategies.
const (
	// KeyMilestonesByID maps remote milestone IDs to milestone numbers.
	// Published by the milestones save strategy.
	KeyMilestonesByID = "milestones.by_id"

	// KeyMilestoneNumbers maps saved milestone numbers to the numbers
	// assigned on re-creation. Published by the milestones restore strategy.
	KeyMilestoneNumbers = "milestones.numbers"

	// KeyIssueNumbers maps saved issue numbers to re-created numbers.
	KeyIssueNumbers = "issues.numbers"

	// KeySavedIssueNumbers lists the issue numbers captured by the issues
	// save strategy, for dependents that fetch per-issue data.
	KeySavedIssueNumbers = "issues.saved"

	// KeyPullNumbers maps saved pull request numbers to re-created numbers.
	KeyPullNumbers = "pulls.numbers"

	// KeySavedPullNumbers lists the pull request numbers captured by the
	// pulls save strategy, for dependents that fetch per-pull data.
	KeySavedPullNumbers = "pulls.saved"
)

// RunContext is the append-only, write-once key/value store for one run.
type RunContext struct {
	mu     sync.Mutex
	values map[string]any
}

// New creates an empty RunContext.
func New() *RunContext {
	return &RunContext{values: make(map[string]any)}
}

// Put stores a value under key. Each key may be written at most once per
// run; a second write returns an error.
func (c *RunContext) Put(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.values[key]; exists {
		return fmt.Errorf("run context key %q written twice", key)
	}
	c.values[key] = value
	return nil
}

// Get returns the value stored under key.
func (c *RunContext) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Keys returns the keys written so far.
func (c *RunContext) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	return out
}

// NumberMap returns the map[int]int stored under key, or an empty map when
// the key is absent. A value of the wrong type returns an error: the built-in
// keys are contracts between strategies, not free-form data.
func NumberMap(c *RunContext, key string) (map[int]int, error) {
	v, ok := c.Get(key)
	if !ok {
		return map[int]int{}, nil
	}
	m, ok := v.(map[int]int)
	if !ok {
		return nil, fmt.Errorf("run context key %q holds %T, want map[int]int", key, v)
	}
	return m, nil
}

// NumberList returns the []int stored under key, or nil when absent.
func NumberList(c *RunContext, key string) ([]int, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, nil
	}
	l, ok := v.([]int)
	if !ok {
		return nil, fmt.Errorf("run context key %q holds %T, want []int", key, v)
	}
	return l, nil
}
