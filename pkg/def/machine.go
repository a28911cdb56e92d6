package def

import (
	"fmt"
	"strconv"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/registry"
)

// State is the ordinal state type of compiled machines.
type State uint32

// Event is the ordinal event type of compiled machines.
type Event uint32

// Context is the variable bag guards read and actions mutate. It is owned by
// the compiled machine and shared across dispatches.
type Context struct {
	Vars map[string]any
}

// Machine is a compiled definition: a lattice machine plus the name tables
// that map ordinals back to the declarative names.
//
// Like the underlying engine, a Machine is not safe for concurrent use;
// callers serialize access.
type Machine struct {
	fsm *lattice.Machine[State, Event, Context]
	def *Definition
	ctx *Context

	states     map[string]State
	events     map[string]Event
	stateNames []string
	eventNames []string
}

type buildConfig struct {
	allowUnbound bool
	machineOpts  []lattice.Option[State, Event, Context]
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithUnboundAllowed makes Build tolerate guard and action names missing from
// the registry: unbound guards always pass and unbound actions do nothing.
// Meant for inspection tooling (graph export, validation, dry runs), not for
// production dispatch.
func WithUnboundAllowed() BuildOption {
	return func(c *buildConfig) {
		c.allowUnbound = true
	}
}

// WithMachineOptions forwards options to the underlying lattice machine.
func WithMachineOptions(opts ...lattice.Option[State, Event, Context]) BuildOption {
	return func(c *buildConfig) {
		c.machineOpts = append(c.machineOpts, opts...)
	}
}

// Build compiles the definition into a runnable machine, binding guard and
// action names through the registry. A nil registry is treated as empty.
func (d *Definition) Build(reg *registry.Registry, opts ...BuildOption) (*Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = registry.New()
	}

	stateNames := d.stateNames()
	eventNames := d.eventNames()

	states := make(map[string]State, len(stateNames))
	for i, n := range stateNames {
		states[n] = State(i)
	}
	events := make(map[string]Event, len(eventNames))
	for i, n := range eventNames {
		events[n] = Event(i)
	}

	machineOpts := []lattice.Option[State, Event, Context]{
		lattice.WithStateStringer[State, Event, Context](func(s State) string {
			if int(s) < len(stateNames) {
				return stateNames[s]
			}
			return strconv.FormatUint(uint64(s), 10)
		}),
		lattice.WithEventStringer[State, Event, Context](func(e Event) string {
			if int(e) < len(eventNames) {
				return eventNames[e]
			}
			return strconv.FormatUint(uint64(e), 10)
		}),
	}
	machineOpts = append(machineOpts, cfg.machineOpts...)

	fsm := lattice.New[State, Event, Context](states[d.Initial], machineOpts...)

	for _, t := range d.Transitions {
		tr := lattice.Transition[State, Event, Context]{
			Src:   states[t.From],
			Event: events[t.On],
			Dst:   states[t.To],
		}

		if t.Guard != "" {
			gf, ok := reg.Guard(t.Guard)
			if !ok && !cfg.allowUnbound {
				return nil, fmt.Errorf("%w: %q", ErrUnknownGuard, t.Guard)
			}
			if ok {
				tr.Guard = func(c *Context) bool {
					if c == nil {
						return gf(nil)
					}
					return gf(c.Vars)
				}
			}
		}

		if t.Action != "" {
			af, ok := reg.Action(t.Action)
			if !ok && !cfg.allowUnbound {
				return nil, fmt.Errorf("%w: %q", ErrUnknownAction, t.Action)
			}
			if ok {
				tr.Action = func(c *Context) {
					if c == nil {
						af(nil)
						return
					}
					af(c.Vars)
				}
			}
		}

		fsm.Add(tr)
	}

	return &Machine{
		fsm:        fsm,
		def:        d,
		ctx:        &Context{Vars: make(map[string]any)},
		states:     states,
		events:     events,
		stateNames: stateNames,
		eventNames: eventNames,
	}, nil
}

// Dispatch attempts one transition for the named event against the machine's
// own context. Unknown event names return ErrUnknownEvent and leave the
// machine untouched.
func (m *Machine) Dispatch(event string) (lattice.Result, error) {
	ev, ok := m.events[event]
	if !ok {
		return lattice.NoTransition, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return m.fsm.Dispatch(ev, m.ctx), nil
}

// State returns the name of the current state.
func (m *Machine) State() string {
	return m.StateName(m.fsm.Current())
}

// Vars exposes the machine's variable bag for host reads and seeding.
func (m *Machine) Vars() map[string]any {
	return m.ctx.Vars
}

// Events returns all event names in ordinal order.
func (m *Machine) Events() []string {
	out := make([]string, len(m.eventNames))
	copy(out, m.eventNames)
	return out
}

// Available returns the event names with a registered transition from the
// current state, guards not considered.
func (m *Machine) Available() []string {
	var out []string
	for i, n := range m.eventNames {
		if m.fsm.Can(Event(i)) {
			out = append(out, n)
		}
	}
	return out
}

// Can reports whether a transition exists for the named event in the current
// state. Unknown names report false.
func (m *Machine) Can(event string) bool {
	ev, ok := m.events[event]
	return ok && m.fsm.Can(ev)
}

// StateName renders a state ordinal using the definition's name table.
func (m *Machine) StateName(s State) string {
	if int(s) < len(m.stateNames) {
		return m.stateNames[s]
	}
	return strconv.FormatUint(uint64(s), 10)
}

// EventName renders an event ordinal using the definition's name table.
func (m *Machine) EventName(e Event) string {
	if int(e) < len(m.eventNames) {
		return m.eventNames[e]
	}
	return strconv.FormatUint(uint64(e), 10)
}

// SetHooks wires observability callbacks into the underlying engine.
func (m *Machine) SetHooks(hooks lattice.Hooks[State, Event]) {
	m.fsm.SetHooks(hooks)
}

// DOT exports the machine as a Graphviz digraph with named labels.
func (m *Machine) DOT() string {
	return m.fsm.DOT()
}

// Mermaid exports the machine as a Mermaid flowchart with named labels.
func (m *Machine) Mermaid() string {
	return m.fsm.Mermaid()
}

// Snapshot captures the current state for persistence.
func (m *Machine) Snapshot() lattice.Snapshot {
	return m.fsm.Snapshot()
}

// Restore repositions the machine at the snapshot's state, rejecting
// ordinals outside the definition's domain.
func (m *Machine) Restore(snap lattice.Snapshot) error {
	if int(snap.State) >= len(m.stateNames) {
		return fmt.Errorf("%w: ordinal %d", ErrUnknownState, snap.State)
	}
	m.fsm.Restore(snap)
	return nil
}

// Definition returns the source definition.
func (m *Machine) Definition() *Definition {
	return m.def
}
