package lattice

import (
	"io"
	"log/slog"
	"sort"
	"time"
)

// Machine is a table-driven finite state machine. It owns a transition table
// keyed by (state, event) pairs and a single current-state cell, and executes
// one synchronous transition attempt per Dispatch call.
//
// S and E identify states and events; C is the caller-owned context type
// passed by reference to guards and actions. Use None when no context is
// needed.
//
// A Machine performs no internal locking. Within one instance, Add and
// Dispatch must be serialized by the caller; distinct instances share no
// state and need no coordination.
type Machine[S, E Ordinal, C any] struct {
	table   map[uint64]Transition[S, E, C]
	current S

	hooks    Hooks[S, E]
	logger   *slog.Logger
	stateStr func(S) string
	eventStr func(E) string
}

// Option configures a Machine at construction time.
type Option[S, E Ordinal, C any] func(*Machine[S, E, C])

// WithLogger sets a structured logger for dispatch tracing.
// The default logger discards everything.
func WithLogger[S, E Ordinal, C any](logger *slog.Logger) Option[S, E, C] {
	return func(m *Machine[S, E, C]) {
		m.logger = logger
	}
}

// WithHooks registers observability callbacks invoked during Dispatch.
func WithHooks[S, E Ordinal, C any](hooks Hooks[S, E]) Option[S, E, C] {
	return func(m *Machine[S, E, C]) {
		m.hooks = hooks
	}
}

// WithStateStringer overrides how states are rendered in graph exports and
// logs. The default renders the ordinal as a decimal integer.
func WithStateStringer[S, E Ordinal, C any](fn func(S) string) Option[S, E, C] {
	return func(m *Machine[S, E, C]) {
		m.stateStr = fn
	}
}

// WithEventStringer overrides how events are rendered in graph exports and
// logs. The default renders the ordinal as a decimal integer.
func WithEventStringer[S, E Ordinal, C any](fn func(E) string) Option[S, E, C] {
	return func(m *Machine[S, E, C]) {
		m.eventStr = fn
	}
}

// SetHooks replaces the observability callbacks after construction.
// Like Add, it must not race with Dispatch.
func (m *Machine[S, E, C]) SetHooks(hooks Hooks[S, E]) {
	m.hooks = hooks
}

// New creates a Machine positioned at the given initial state, with an empty
// transition table.
func New[S, E Ordinal, C any](initial S, opts ...Option[S, E, C]) *Machine[S, E, C] {
	m := &Machine[S, E, C]{
		table:   make(map[uint64]Transition[S, E, C]),
		current: initial,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return m
}

// Add stores a transition in the table, keyed by its (Src, Event) pair.
// Inserting over an existing pair silently replaces the prior entry
// (last write wins); Add never fails. The table may be mutated at any point
// in the machine's lifetime, though not concurrently with Dispatch.
func (m *Machine[S, E, C]) Add(tr Transition[S, E, C]) {
	m.table[key(tr.Src, tr.Event)] = tr
}

// Lookup returns the transition registered for the given pair, if any.
// It is a pure read and never touches the current state.
func (m *Machine[S, E, C]) Lookup(s S, e E) (Transition[S, E, C], bool) {
	tr, ok := m.table[key(s, e)]
	return tr, ok
}

// Remove erases the transition registered for the given pair, if any.
func (m *Machine[S, E, C]) Remove(s S, e E) {
	delete(m.table, key(s, e))
}

// Dispatch executes one transition attempt for the given event against the
// current state:
//
//  1. If no transition is registered for (current, event), nothing happens
//     and the result is NoTransition.
//  2. If the transition carries a guard and it evaluates false, nothing
//     happens and the result is GuardRejected.
//  3. Otherwise the action (if any) runs with the context, the current state
//     becomes the transition's destination, and the result is Ok.
//
// ctx is forwarded untouched to the guard and action; the machine never
// retains it. Context-free machines should use Fire instead. Self-transitions
// are valid and still run their action.
func (m *Machine[S, E, C]) Dispatch(event E, ctx *C) Result {
	tr, ok := m.table[key(m.current, event)]
	if !ok {
		if m.hooks.OnMiss != nil {
			m.hooks.OnMiss(m.current, event)
		}
		m.logger.Debug("dispatch: no transition",
			"state", m.stateLabel(m.current),
			"event", m.eventLabel(event),
		)
		return NoTransition
	}

	if tr.Guard != nil && !tr.Guard(ctx) {
		if m.hooks.OnRejected != nil {
			m.hooks.OnRejected(m.current, event)
		}
		m.logger.Debug("dispatch: guard rejected",
			"state", m.stateLabel(m.current),
			"event", m.eventLabel(event),
		)
		return GuardRejected
	}

	if tr.Action != nil {
		tr.Action(ctx)
	}

	from := m.current
	m.current = tr.Dst

	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(from, tr.Dst, event)
	}
	m.logger.Debug("dispatch: ok",
		"from", m.stateLabel(from),
		"to", m.stateLabel(tr.Dst),
		"event", m.eventLabel(event),
	)
	return Ok
}

// Fire dispatches an event without a context. Guards and actions of the
// matched transition receive a nil context pointer.
func (m *Machine[S, E, C]) Fire(event E) Result {
	return m.Dispatch(event, nil)
}

// Current returns the current state. Pure read, never fails.
func (m *Machine[S, E, C]) Current() S {
	return m.current
}

// Can reports whether a transition is registered for the given event in the
// current state. It does not evaluate guards.
func (m *Machine[S, E, C]) Can(event E) bool {
	_, ok := m.table[key(m.current, event)]
	return ok
}

// Len returns the number of registered transitions.
func (m *Machine[S, E, C]) Len() int {
	return len(m.table)
}

// Transitions returns all registered transitions sorted by source, event and
// destination ordinals. The sort keeps graph exports and iteration stable
// regardless of map order.
func (m *Machine[S, E, C]) Transitions() []Transition[S, E, C] {
	trs := make([]Transition[S, E, C], 0, len(m.table))
	for _, tr := range m.table {
		trs = append(trs, tr)
	}
	sort.Slice(trs, func(i, j int) bool {
		if trs[i].Src != trs[j].Src {
			return uint32(trs[i].Src) < uint32(trs[j].Src)
		}
		if trs[i].Event != trs[j].Event {
			return uint32(trs[i].Event) < uint32(trs[j].Event)
		}
		return uint32(trs[i].Dst) < uint32(trs[j].Dst)
	})
	return trs
}

// Snapshot is a serializable checkpoint of the current-state cell.
// It captures no part of the transition table; restoring assumes a machine
// built from the same transitions.
type Snapshot struct {
	State     uint32    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot captures the current state for persistence via a
// ports.SnapshotStore.
func (m *Machine[S, E, C]) Snapshot() Snapshot {
	return Snapshot{
		State:     uint32(m.current),
		UpdatedAt: time.Now().UTC(),
	}
}

// Restore repositions the machine at the snapshot's state.
func (m *Machine[S, E, C]) Restore(snap Snapshot) {
	m.current = S(snap.State)
}
