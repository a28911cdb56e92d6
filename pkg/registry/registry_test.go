package registry_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/registry"
)

func TestRegisterAndLookup(t *testing.T) {
	r := registry.New()

	if _, ok := r.Guard("missing"); ok {
		t.Error("expected missing guard to be absent")
	}
	if _, ok := r.Action("missing"); ok {
		t.Error("expected missing action to be absent")
	}

	r.RegisterGuard("has_credit", func(vars map[string]any) bool {
		credit, _ := vars["credit"].(int)
		return credit > 0
	})
	r.RegisterAction("consume", func(vars map[string]any) {
		vars["consumed"] = true
	})

	guard, ok := r.Guard("has_credit")
	if !ok {
		t.Fatal("expected registered guard")
	}
	if guard(map[string]any{"credit": 0}) {
		t.Error("guard should reject zero credit")
	}
	if !guard(map[string]any{"credit": 2}) {
		t.Error("guard should accept positive credit")
	}

	action, ok := r.Action("consume")
	if !ok {
		t.Fatal("expected registered action")
	}
	vars := map[string]any{}
	action(vars)
	if vars["consumed"] != true {
		t.Error("action did not mutate vars")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := registry.New()
	r.RegisterGuard("g", func(map[string]any) bool { return false })
	r.RegisterGuard("g", func(map[string]any) bool { return true })

	guard, _ := r.Guard("g")
	if !guard(nil) {
		t.Error("expected last registration to win")
	}
}
