// Package registry maps guard and action names from declarative machine
// definitions to Go implementations. Definitions reference behavior by name;
// the host application registers the matching functions before Build.
package registry

import "sync"

// GuardFunc evaluates a named guard against the machine's variable bag.
// It must be side-effect free.
type GuardFunc func(vars map[string]any) bool

// ActionFunc runs a named action. It may mutate the variable bag and must not
// fail; failures are communicated through the bag itself.
type ActionFunc func(vars map[string]any)

// Registry manages the available guards and actions.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	guards  map[string]GuardFunc
	actions map[string]ActionFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		guards:  make(map[string]GuardFunc),
		actions: make(map[string]ActionFunc),
	}
}

// RegisterGuard adds a guard under the given name.
// If the name exists, it is overwritten.
func (r *Registry) RegisterGuard(name string, fn GuardFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = fn
}

// RegisterAction adds an action under the given name.
// If the name exists, it is overwritten.
func (r *Registry) RegisterAction(name string, fn ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// Guard looks up a guard by name.
func (r *Registry) Guard(name string) (GuardFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.guards[name]
	return fn, ok
}

// Action looks up an action by name.
func (r *Registry) Action(name string) (ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}
