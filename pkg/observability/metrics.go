// Package observability wires lattice dispatch hooks into Prometheus
// metrics. The engine stays metric-free; hosts attach a Collector through
// Machine.SetHooks when they want instrumentation.
package observability

import (
	"strconv"

	"github.com/aretw0/lattice"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the dispatch metrics for one or more machines.
type Collector struct {
	dispatches  *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewCollector creates and registers the dispatch metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_dispatches_total",
				Help: "Total dispatch attempts by result.",
			},
			[]string{"result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_transitions_total",
				Help: "Completed transitions by edge.",
			},
			[]string{"from", "to", "event"},
		),
	}
	reg.MustRegister(c.dispatches, c.transitions)
	return c
}

// Hooks builds lattice hooks that feed the collector. The stringers label the
// transition metric; nil stringers fall back to decimal ordinals.
func Hooks[S, E lattice.Ordinal](c *Collector, stateName func(S) string, eventName func(E) string) lattice.Hooks[S, E] {
	if stateName == nil {
		stateName = func(s S) string { return strconv.FormatInt(int64(s), 10) }
	}
	if eventName == nil {
		eventName = func(e E) string { return strconv.FormatInt(int64(e), 10) }
	}

	return lattice.Hooks[S, E]{
		OnTransition: func(from, to S, event E) {
			c.dispatches.WithLabelValues(lattice.Ok.String()).Inc()
			c.transitions.WithLabelValues(stateName(from), stateName(to), eventName(event)).Inc()
		},
		OnRejected: func(S, E) {
			c.dispatches.WithLabelValues(lattice.GuardRejected.String()).Inc()
		},
		OnMiss: func(S, E) {
			c.dispatches.WithLabelValues(lattice.NoTransition.String()).Inc()
		},
	}
}
