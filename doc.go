/*
Package lattice is a generic, embeddable finite-state-machine core: a
table-driven dispatcher mapping a (current state, incoming event) pair to a
destination state, optionally gated by a guard predicate and followed by a
side-effecting action.

It is a building block for event-driven and control-loop applications, not a
framework: there are no timers, no goroutines, no I/O and no locking inside
the engine. A caller constructs a machine with an initial state, registers
transitions, then drives it synchronously with Dispatch (or Fire when no
context is involved).

# Concept

States and events are caller-supplied enum-like values with an integer
underlying type. The engine packs their ordinals into a 64-bit composite key,
giving O(1) lookup regardless of domain size. Each (state, event) pair
addresses at most one transition; re-adding a pair replaces the previous
entry.

Dispatch has exactly three outcomes: Ok (transition performed), NoTransition
(no entry for the pair) and GuardRejected (the guard declined). Guards are
read-only predicates; actions may mutate the caller's context and are assumed
infallible.

# Usage

	type Door int
	const (
		Locked Door = iota
		Unlocked
	)

	type Input int
	const Coin Input = 0

	m := lattice.New[Door, Input, lattice.None](Locked)
	m.Add(lattice.Transition[Door, Input, lattice.None]{
		Src: Locked, Event: Coin, Dst: Unlocked,
	})

	m.Fire(Coin)  // lattice.Ok, m.Current() == Unlocked
	m.Fire(Coin)  // lattice.NoTransition, state unchanged

Machines with external data use a context type instead of None; guards see it
read-only, actions may mutate it. The DOT and Mermaid methods export the table
as a directed graph for external renderers.

Declarative YAML definitions live in pkg/def, persistence and transport
adapters under pkg/adapters, and Prometheus instrumentation in
pkg/observability. The engine itself stays dependency-free and safe to call
from latency-sensitive code.
*/
package lattice
