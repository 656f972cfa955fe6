package viewlint

import "fmt"

// Registry maps rule names to factories. It is an explicit value handed to
// configuration loading; there is no process-wide registration state.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under the given name. Duplicate names are an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("registry: name and factory are required")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("registry: rule %q already registered", name)
	}
	r.names = append(r.names, name)
	r.factories[name] = f
	return nil
}

// Lookup returns the factory for name. The boolean result is the normal
// not-found path; no error value is raised for unknown rules.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered rule names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
