package orchestrator

import "time"

// Operation distinguishes the two run directions.
type Operation string

const (
	OperationSave    Operation = "save"
	OperationRestore Operation = "restore"
)

// Status is the terminal state of one entity within a run.
type Status string

const (
	// Succeeded means the entity's pipeline completed.
	Succeeded Status = "succeeded"

	// Failed means the pipeline started and returned an error, panicked,
	// timed out, or the run was cancelled before the entity started.
	Failed Status = "failed"

	// SkippedUpstreamFailure means a dependency from an earlier level did
	// not succeed, so the pipeline was never invoked.
	SkippedUpstreamFailure Status = "skipped_upstream_failure"

	// SkippedMissingService means the strategy could not be built because
	// required services were absent from the context.
	SkippedMissingService Status = "skipped_missing_service"
)

// ExecutionResult records the outcome of one entity, attempted or skipped.
type ExecutionResult struct {
	Entity   string        `json:"entity"`
	Status   Status        `json:"status"`
	Items    int           `json:"items"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is the complete outcome of a run. Results follow level order,
// with discovery order breaking ties within a level.
type Report struct {
	Operation Operation         `json:"operation"`
	Results   []ExecutionResult `json:"results"`

	// Success is false when any entity failed. Skipped entities do not
	// by themselves make a run unsuccessful.
	Success bool `json:"success"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Result returns the result for the named entity, if present.
func (r *Report) Result(entity string) (ExecutionResult, bool) {
	for _, res := range r.Results {
		if res.Entity == entity {
			return res, true
		}
	}
	return ExecutionResult{}, false
}
