package observability

import (
	"testing"

	"github.com/aretw0/lattice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phase int

const (
	idle phase = iota
	busy
)

type trigger int

const start trigger = 0

func phaseName(p phase) string {
	if p == idle {
		return "idle"
	}
	return "busy"
}

func TestCollectorCountsDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	col := NewCollector(reg)

	m := lattice.New[phase, trigger, lattice.None](idle,
		lattice.WithHooks[phase, trigger, lattice.None](
			Hooks(col, phaseName, func(trigger) string { return "start" }),
		),
	)
	m.Add(lattice.Transition[phase, trigger, lattice.None]{Src: idle, Event: start, Dst: busy})

	require.Equal(t, lattice.Ok, m.Fire(start))
	require.Equal(t, lattice.NoTransition, m.Fire(start))

	assert.Equal(t, 1.0, testutil.ToFloat64(col.dispatches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.dispatches.WithLabelValues("no_transition")))
	assert.Equal(t, 0.0, testutil.ToFloat64(col.dispatches.WithLabelValues("guard_rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.transitions.WithLabelValues("idle", "busy", "start")))
}

func TestHooksDefaultToOrdinalLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	col := NewCollector(reg)

	m := lattice.New[phase, trigger, lattice.None](idle,
		lattice.WithHooks[phase, trigger, lattice.None](Hooks[phase, trigger](col, nil, nil)),
	)
	m.Add(lattice.Transition[phase, trigger, lattice.None]{Src: idle, Event: start, Dst: busy})

	require.Equal(t, lattice.Ok, m.Fire(start))

	assert.Equal(t, 1.0, testutil.ToFloat64(col.transitions.WithLabelValues("0", "1", "0")))
}
