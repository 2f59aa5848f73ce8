// Package engine defines the execution-engine contract the gateway governs.
// The real browser/automation runtime lives outside this module; anything
// exposing a registry of named actions can sit behind the interceptor without
// changing its individual action implementations.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAction is returned when an invocation names an unregistered action.
var ErrUnknownAction = fmt.Errorf("unknown action")

// ActionFunc executes one named action with its parameter set.
type ActionFunc func(ctx context.Context, params map[string]any) (any, error)

// Engine is the uniform invoke-by-name contract the interceptor wraps. No
// per-action special-casing: the gateway governs whatever the engine
// enumerates.
type Engine interface {
	// Invoke runs the named action and returns its result or an
	// execution-layer error.
	Invoke(ctx context.Context, name string, params map[string]any) (any, error)

	// Actions enumerates the registered action names.
	Actions() []string
}

// Registry is an in-memory Engine used by the demo and by tests as a stand-in
// for a browser runtime. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]ActionFunc
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]ActionFunc)}
}

// Register adds a named action. Registering an existing name is an error so
// governed actions cannot be silently replaced after gateway construction.
func (r *Registry) Register(name string, fn ActionFunc) error {
	if name == "" {
		return fmt.Errorf("action name is required")
	}
	if fn == nil {
		return fmt.Errorf("action %q: func is required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("action %q already registered", name)
	}
	r.actions[name] = fn
	return nil
}

// Invoke runs a registered action.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return fn(ctx, params)
}

// Actions returns the registered action names, sorted for stable enumeration.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
