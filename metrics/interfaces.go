// Package metrics provides Prometheus-compatible metrics for save and
// restore runs.
//
// Two registry implementations exist:
//   - ScrapeRegistry for the server, exposing metrics over HTTP
//   - PushRegistry for one-shot CLI runs, pushing to a remote write endpoint
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gauge is a metric holding a single value that can go up and down.
type Gauge interface {
	// Set sets the Gauge to the given value.
	Set(float64)
}

// Counter is a monotonically increasing metric.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()
	// Add adds the given value to the counter. It panics if the value is negative.
	Add(float64)
}

// GaugeVec is a Gauge with labels.
type GaugeVec interface {
	// With returns the Gauge for the given Labels.
	With(prometheus.Labels) Gauge
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	// With returns the Counter for the given Labels.
	With(prometheus.Labels) Counter
}

// Registry creates and registers metrics. Implementations hide the
// difference between push and scrape delivery.
type Registry interface {
	// NewGauge creates and registers a new Gauge.
	NewGauge(opts prometheus.GaugeOpts) (Gauge, error)

	// NewGaugeVec creates and registers a new GaugeVec.
	NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error)

	// NewCounter creates and registers a new Counter.
	NewCounter(opts prometheus.CounterOpts) (Counter, error)

	// NewCounterVec creates and registers a new CounterVec.
	NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error)
}

// NopRegistry is a Registry whose metrics discard every update. It is the
// default when monitoring is not configured.
type NopRegistry struct{}

func (NopRegistry) NewGauge(prometheus.GaugeOpts) (Gauge, error) { return nopGauge{}, nil }

func (NopRegistry) NewGaugeVec(prometheus.GaugeOpts, []string) (GaugeVec, error) {
	return nopGaugeVec{}, nil
}

func (NopRegistry) NewCounter(prometheus.CounterOpts) (Counter, error) { return nopCounter{}, nil }

func (NopRegistry) NewCounterVec(prometheus.CounterOpts, []string) (CounterVec, error) {
	return nopCounterVec{}, nil
}

type nopGauge struct{}

func (nopGauge) Set(float64) {}

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopGaugeVec struct{}

func (nopGaugeVec) With(prometheus.Labels) Gauge { return nopGauge{} }

type nopCounterVec struct{}

func (nopCounterVec) With(prometheus.Labels) Counter { return nopCounter{} }
