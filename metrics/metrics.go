package metrics

import "github.com/prometheus/client_golang/prometheus"

// RunMetrics bundles the metrics recorded during a save or restore run.
// All metrics carry an "operation" label ("save" or "restore") and the
// per-entity ones an "entity" label.
type RunMetrics struct {
	// RunDuration is the wall time of the whole run in seconds.
	RunDuration GaugeVec

	// RunSuccess is 1 when the run succeeded, 0 otherwise.
	RunSuccess GaugeVec

	// EntityItems is the number of items processed per entity.
	EntityItems GaugeVec

	// EntityDuration is the wall time per entity in seconds.
	EntityDuration GaugeVec

	// EntityFailures counts entity executions that did not succeed,
	// labelled with the terminal status.
	EntityFailures CounterVec
}

// NewRunMetrics registers the run metrics with reg.
func NewRunMetrics(reg Registry) (*RunMetrics, error) {
	m := &RunMetrics{}
	var err error

	m.RunDuration, err = reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "run_duration_seconds",
		Help: "Wall time of the completed run.",
	}, []string{"operation"})
	if err != nil {
		return nil, err
	}

	m.RunSuccess, err = reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "run_success",
		Help: "Whether the run succeeded (1) or not (0).",
	}, []string{"operation"})
	if err != nil {
		return nil, err
	}

	m.EntityItems, err = reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "entity_items",
		Help: "Number of items processed for an entity type.",
	}, []string{"operation", "entity"})
	if err != nil {
		return nil, err
	}

	m.EntityDuration, err = reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "entity_duration_seconds",
		Help: "Wall time spent executing an entity type.",
	}, []string{"operation", "entity"})
	if err != nil {
		return nil, err
	}

	m.EntityFailures, err = reg.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_failures_total",
		Help: "Entity executions that ended in a non-success status.",
	}, []string{"operation", "entity", "status"})
	if err != nil {
		return nil, err
	}

	return m, nil
}
