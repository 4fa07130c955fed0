// Package metrics exposes the domain scheduler's internal state as
// Prometheus gauges: run-queue depth, active worker count, and watchdog
// reset count (SPEC_FULL.md §4 domain stack). These are instrumentation on
// top of the realtime path, not inside it — every update here is a plain
// atomic-backed gauge set, never a mutex taken from a worker's hot path.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain groups the gauges one domain instance reports. Multiple domains in
// one process should each get their own Domain with a distinct name label.
type Domain struct {
	RunQueueDepth   prometheus.Gauge
	ActiveWorkers   prometheus.Gauge
	WatchdogResets  prometheus.Counter
	LockWatchdogHit prometheus.Counter
}

// NewDomain creates and registers the gauge set for a domain named name
// against reg. Passing a fresh prometheus.NewRegistry() per domain keeps
// tests isolated from the global default registry.
func NewDomain(reg prometheus.Registerer, name string) *Domain {
	d := &Domain{
		RunQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pulsarengine",
			Subsystem:   "domain",
			Name:        "run_queue_depth",
			Help:        "Number of nodes currently queued to run.",
			ConstLabels: prometheus.Labels{"domain": name},
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pulsarengine",
			Subsystem:   "domain",
			Name:        "active_workers",
			Help:        "Number of worker goroutines currently executing a node.",
			ConstLabels: prometheus.Labels{"domain": name},
		}),
		WatchdogResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsarengine",
			Subsystem:   "driver",
			Name:        "watchdog_resets_total",
			Help:        "Number of times the IO deadline watchdog was reset without firing.",
			ConstLabels: prometheus.Labels{"domain": name},
		}),
		LockWatchdogHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsarengine",
			Subsystem:   "domain",
			Name:        "lock_watchdog_hits_total",
			Help:        "Number of times a node's execute ran past the configured lock watchdog bound.",
			ConstLabels: prometheus.Labels{"domain": name},
		}),
	}
	reg.MustRegister(d.RunQueueDepth, d.ActiveWorkers, d.WatchdogResets, d.LockWatchdogHit)
	return d
}
