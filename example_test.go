package lattice_test

import (
	"fmt"

	"github.com/aretw0/lattice"
)

// ExampleMachine demonstrates the classic coin-operated turnstile without an
// external context.
func ExampleMachine() {
	type turnstile int
	const (
		tLocked turnstile = iota
		tUnlocked
	)

	type input int
	const tCoin input = 0

	m := lattice.New[turnstile, input, lattice.None](tLocked)
	m.Add(lattice.Transition[turnstile, input, lattice.None]{
		Src: tLocked, Event: tCoin, Dst: tUnlocked,
	})

	fmt.Println(m.Fire(tCoin))
	fmt.Println(m.Fire(tCoin))
	fmt.Println(m.Current() == tUnlocked)
	// Output:
	// ok
	// no_transition
	// true
}

// ExampleMachine_Dispatch shows a guarded transition over a mutable context.
func ExampleMachine_Dispatch() {
	type account struct {
		balance int
	}

	type state int
	const (
		open state = iota
		closed
	)

	type event int
	const settle event = 0

	m := lattice.New[state, event, account](open)
	m.Add(lattice.Transition[state, event, account]{
		Src: open, Event: settle, Dst: closed,
		Guard:  func(a *account) bool { return a.balance == 0 },
		Action: func(a *account) { a.balance = -1 },
	})

	acct := &account{balance: 10}
	fmt.Println(m.Dispatch(settle, acct))

	acct.balance = 0
	fmt.Println(m.Dispatch(settle, acct))
	// Output:
	// guard_rejected
	// ok
}

// ExampleMachine_DOT exports a machine for rendering with Graphviz.
func ExampleMachine_DOT() {
	type phase int
	const (
		idle phase = iota
		busy
	)

	type trigger int
	const start trigger = 0

	names := func(p phase) string {
		if p == idle {
			return "Idle"
		}
		return "Busy"
	}

	m := lattice.New[phase, trigger, lattice.None](idle,
		lattice.WithStateStringer[phase, trigger, lattice.None](names),
		lattice.WithEventStringer[phase, trigger, lattice.None](func(trigger) string { return "Start" }),
	)
	m.Add(lattice.Transition[phase, trigger, lattice.None]{Src: idle, Event: start, Dst: busy})

	fmt.Print(m.DOT())
	// Output:
	// digraph FSM {
	//   rankdir=LR;
	//   "Idle" -> "Busy" [label="Start"];
	// }
}
