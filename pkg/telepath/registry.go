package telepath

import "sync"

// Constructor builds a value from the decoded arguments of a typed node.
// Arity and argument types are the constructor's own contract; returning
// an error aborts the Unpack call that invoked it.
type Constructor func(args []any) (any, error)

// Registry maps type names to constructors.
//
// Registration is expected to finish before decoding starts. Lookups and
// registrations are nonetheless safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
	order []string // Insertion order for deterministic listing
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
		order: make([]string, 0),
	}
}

// Register associates name with ctor, replacing any earlier registration.
// It panics if ctor is nil.
func (r *Registry) Register(name string, ctor Constructor) {
	if ctor == nil {
		panic("telepath: Register constructor is nil for " + name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; !exists {
		r.order = append(r.order, name)
	}
	r.ctors[name] = ctor
}

// RegisterFunc registers a constructor with a concrete result type.
func RegisterFunc[T any](r *Registry, name string, fn func(args []any) (T, error)) {
	if fn == nil {
		panic("telepath: RegisterFunc constructor is nil for " + name)
	}
	r.Register(name, func(args []any) (any, error) {
		v, err := fn(args)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Lookup returns the constructor registered for name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[name]
	return ctor, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ctors)
}
