package lattice

// Ordinal constrains State and Event type parameters to types with an integer
// underlying representation (typically enums declared with iota).
//
// The transition table addresses entries by packing the state ordinal and the
// event ordinal into the two halves of a 64-bit key, so each domain must fit
// within 32 bits of ordinal space. Wider values are truncated to their low
// 32 bits, which can make distinct pairs collide; keeping ordinals inside
// 32 bits is part of the caller contract.
type Ordinal interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// None is the unit context for machines that carry no external data.
// Guards and actions of a Machine[S, E, None] receive a nil pointer and
// must not dereference it.
type None struct{}

// Guard is a predicate gating whether a transition proceeds.
// It must be free of observable side effects and treat the context as
// read-only. A nil Guard means the transition is unconditionally eligible.
type Guard[C any] func(ctx *C) bool

// Action is a side-effecting routine executed when a transition proceeds.
// It may mutate the context and is contractually infallible: any failure has
// to be communicated through the context, never to the engine. A nil Action
// performs no side effect besides the state change.
type Action[C any] func(ctx *C)

// Transition describes one edge of the machine: an event arriving while the
// machine sits in Src moves it to Dst, gated by Guard and followed by Action.
type Transition[S, E Ordinal, C any] struct {
	Src    S
	Event  E
	Dst    S
	Guard  Guard[C]
	Action Action[C]
}

// Result is the outcome of a single dispatch attempt. The taxonomy is total:
// dispatch never fails in any other way.
type Result int

const (
	// Ok means the transition was performed and the current state updated.
	Ok Result = iota

	// NoTransition means no entry exists for the (current state, event) pair.
	// The current state is unchanged and no guard or action ran.
	NoTransition

	// GuardRejected means a transition exists but its guard declined it.
	// The current state is unchanged and the action did not run.
	GuardRejected
)

// String returns a stable lower-snake label, used in logs and metrics.
func (r Result) String() string {
	switch r {
	case Ok:
		return "ok"
	case NoTransition:
		return "no_transition"
	case GuardRejected:
		return "guard_rejected"
	default:
		return "unknown"
	}
}

// Hooks are optional observability callbacks invoked by Dispatch.
// They run synchronously on the dispatching goroutine and should return
// promptly. Nil fields are skipped.
type Hooks[S, E Ordinal] struct {
	// OnTransition fires after the current state has been updated.
	OnTransition func(from, to S, event E)

	// OnRejected fires when a guard declines a transition.
	OnRejected func(state S, event E)

	// OnMiss fires when no transition is registered for the pair.
	OnMiss func(state S, event E)
}

// key packs a (state, event) pair into the composite table address:
// state ordinal in bits [63:32], event ordinal in bits [31:0].
func key[S, E Ordinal](s S, e E) uint64 {
	return uint64(uint32(s))<<32 | uint64(uint32(e))
}
