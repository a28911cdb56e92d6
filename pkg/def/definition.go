// Package def loads declarative machine definitions and compiles them into
// runnable lattice machines. A definition names its states and events and
// lists transitions that reference guards and actions by name; the host binds
// those names to Go functions through a registry.Registry.
package def

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Transition is one declarative edge of the machine.
type Transition struct {
	From   string `yaml:"from" mapstructure:"from"`
	On     string `yaml:"on" mapstructure:"on"`
	To     string `yaml:"to" mapstructure:"to"`
	Guard  string `yaml:"guard,omitempty" mapstructure:"guard"`
	Action string `yaml:"action,omitempty" mapstructure:"action"`
}

// Definition is a declarative machine description.
//
// States and Events are optional: when present they fix the ordinal order and
// act as a closed domain; when absent both are derived from Initial and the
// transitions in first-appearance order.
type Definition struct {
	Name        string       `yaml:"name,omitempty" mapstructure:"name"`
	Doc         string       `yaml:"doc,omitempty" mapstructure:"doc"`
	Initial     string       `yaml:"initial" mapstructure:"initial"`
	States      []string     `yaml:"states,omitempty" mapstructure:"states"`
	Events      []string     `yaml:"events,omitempty" mapstructure:"events"`
	Transitions []Transition `yaml:"transitions" mapstructure:"transitions"`
}

// Parse reads a YAML definition and validates it.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return FromMap(raw)
}

// FromMap decodes a definition from an untyped map, as produced by YAML, JSON
// or configuration loaders, and validates it.
func FromMap(raw map[string]any) (*Definition, error) {
	var d Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &d,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks structural consistency: a known initial state, complete
// transitions, no duplicate names in explicit domains, and domains that fit
// the 32-bit ordinal space of the engine.
func (d *Definition) Validate() error {
	if d.Initial == "" {
		return fmt.Errorf("%w: initial state is required", ErrInvalidDefinition)
	}

	for i, t := range d.Transitions {
		if t.From == "" || t.On == "" || t.To == "" {
			return fmt.Errorf("%w: transition %d must set from, on and to", ErrInvalidDefinition, i)
		}
	}

	if err := checkDomain("states", d.States); err != nil {
		return err
	}
	if err := checkDomain("events", d.Events); err != nil {
		return err
	}

	if len(d.States) > 0 {
		known := toSet(d.States)
		if !known[d.Initial] {
			return fmt.Errorf("%w: initial state %q not in states", ErrInvalidDefinition, d.Initial)
		}
		for i, t := range d.Transitions {
			if !known[t.From] {
				return fmt.Errorf("%w: transition %d references unknown state %q", ErrInvalidDefinition, i, t.From)
			}
			if !known[t.To] {
				return fmt.Errorf("%w: transition %d references unknown state %q", ErrInvalidDefinition, i, t.To)
			}
		}
	}
	if len(d.Events) > 0 {
		known := toSet(d.Events)
		for i, t := range d.Transitions {
			if !known[t.On] {
				return fmt.Errorf("%w: transition %d references unknown event %q", ErrInvalidDefinition, i, t.On)
			}
		}
	}

	if len(d.stateNames()) > math.MaxUint32 || len(d.eventNames()) > math.MaxUint32 {
		return fmt.Errorf("%w: domain exceeds 32-bit ordinal space", ErrInvalidDefinition)
	}

	return nil
}

func checkDomain(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%w: empty name in %s", ErrInvalidDefinition, kind)
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate %q in %s", ErrInvalidDefinition, n, kind)
		}
		seen[n] = true
	}
	return nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// stateNames returns the state domain in ordinal order: the explicit States
// list, or first-appearance order starting with Initial.
func (d *Definition) stateNames() []string {
	if len(d.States) > 0 {
		return d.States
	}

	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	add(d.Initial)
	for _, t := range d.Transitions {
		add(t.From)
		add(t.To)
	}
	return names
}

// eventNames returns the event domain in ordinal order.
func (d *Definition) eventNames() []string {
	if len(d.Events) > 0 {
		return d.Events
	}

	var names []string
	seen := make(map[string]bool)
	for _, t := range d.Transitions {
		if t.On != "" && !seen[t.On] {
			seen[t.On] = true
			names = append(names, t.On)
		}
	}
	return names
}
