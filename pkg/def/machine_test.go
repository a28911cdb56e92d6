package def_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/def"
	"github.com/aretw0/lattice/pkg/registry"
)

const guardedYAML = `
name: turnstile
initial: locked
transitions:
  - { from: locked, on: coin, to: unlocked, guard: has_credit, action: consume }
  - { from: unlocked, on: push, to: locked }
`

func newTestRegistry() *registry.Registry {
	reg := registry.New()
	reg.RegisterGuard("has_credit", func(vars map[string]any) bool {
		credit, _ := vars["credit"].(int)
		return credit > 0
	})
	reg.RegisterAction("consume", func(vars map[string]any) {
		credit, _ := vars["credit"].(int)
		vars["credit"] = credit - 1
	})
	return reg
}

func TestBuildAndDispatch(t *testing.T) {
	d, err := def.Parse([]byte(guardedYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	m, err := d.Build(newTestRegistry())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if m.State() != "locked" {
		t.Fatalf("expected initial state locked, got %q", m.State())
	}

	// Guard rejects without credit.
	res, err := m.Dispatch("coin")
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if res != lattice.GuardRejected {
		t.Fatalf("expected GuardRejected, got %v", res)
	}
	if m.State() != "locked" {
		t.Errorf("state changed on rejection: %q", m.State())
	}

	// With credit the action consumes it and the machine unlocks.
	m.Vars()["credit"] = 1
	res, err = m.Dispatch("coin")
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if res != lattice.Ok {
		t.Fatalf("expected Ok, got %v", res)
	}
	if m.State() != "unlocked" {
		t.Errorf("expected unlocked, got %q", m.State())
	}
	if m.Vars()["credit"] != 0 {
		t.Errorf("expected action to consume credit, got %v", m.Vars()["credit"])
	}

	res, err = m.Dispatch("push")
	if err != nil || res != lattice.Ok {
		t.Fatalf("push: got %v, %v", res, err)
	}
	if m.State() != "locked" {
		t.Errorf("expected locked after push, got %q", m.State())
	}
}

func TestDispatch_UnknownEvent(t *testing.T) {
	d, _ := def.Parse([]byte(turnstileYAML))
	m, err := d.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	_, err = m.Dispatch("kick")
	if !errors.Is(err, def.ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
	if m.State() != "locked" {
		t.Errorf("state changed on unknown event: %q", m.State())
	}
}

func TestBuild_UnknownGuard(t *testing.T) {
	d, _ := def.Parse([]byte(guardedYAML))

	if _, err := d.Build(registry.New()); !errors.Is(err, def.ErrUnknownGuard) {
		t.Errorf("expected ErrUnknownGuard, got %v", err)
	}
}

func TestBuild_UnboundAllowed(t *testing.T) {
	d, _ := def.Parse([]byte(guardedYAML))

	m, err := d.Build(nil, def.WithUnboundAllowed())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Unbound guard passes, unbound action is a no-op.
	res, err := m.Dispatch("coin")
	if err != nil || res != lattice.Ok {
		t.Fatalf("expected Ok with unbound guard, got %v, %v", res, err)
	}
	if m.State() != "unlocked" {
		t.Errorf("expected unlocked, got %q", m.State())
	}
}

func TestAvailableAndCan(t *testing.T) {
	d, _ := def.Parse([]byte(turnstileYAML))
	m, err := d.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := m.Available(); len(got) != 1 || got[0] != "coin" {
		t.Errorf("Available at locked = %v, want [coin]", got)
	}
	if !m.Can("coin") || m.Can("push") || m.Can("kick") {
		t.Errorf("unexpected Can results at locked")
	}

	if got := m.Events(); len(got) != 2 {
		t.Errorf("Events = %v, want both events", got)
	}
}

func TestGraphExportUsesNames(t *testing.T) {
	d, _ := def.Parse([]byte(turnstileYAML))
	m, err := d.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dot := m.DOT()
	if !strings.Contains(dot, `"locked" -> "unlocked" [label="coin"];`) {
		t.Errorf("DOT missing named edge:\n%s", dot)
	}

	mermaid := m.Mermaid()
	if !strings.Contains(mermaid, `s0["locked"]`) {
		t.Errorf("Mermaid missing named node:\n%s", mermaid)
	}
}

func TestSnapshotRestore(t *testing.T) {
	d, _ := def.Parse([]byte(turnstileYAML))
	m, _ := d.Build(nil)

	if _, err := m.Dispatch("coin"); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()

	other, _ := d.Build(nil)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if other.State() != "unlocked" {
		t.Errorf("restored state = %q, want unlocked", other.State())
	}

	bad := lattice.Snapshot{State: 99}
	if err := other.Restore(bad); !errors.Is(err, def.ErrUnknownState) {
		t.Errorf("expected ErrUnknownState, got %v", err)
	}
}

func TestExplicitDomainsFixOrdinals(t *testing.T) {
	d := def.Definition{
		Initial: "b",
		States:  []string{"a", "b"},
		Events:  []string{"x", "y"},
		Transitions: []def.Transition{
			{From: "b", On: "y", To: "a"},
		},
	}

	m, err := d.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if m.StateName(0) != "a" || m.StateName(1) != "b" {
		t.Errorf("explicit state order not honored")
	}
	if m.EventName(0) != "x" || m.EventName(1) != "y" {
		t.Errorf("explicit event order not honored")
	}
	if m.State() != "b" {
		t.Errorf("initial state = %q, want b", m.State())
	}
}
