package internal

import (
	"maps"
	"slices"
	"sync"
)

// MiddlewareRegistry maps middleware names used in route declarations to
// their implementation.
type MiddlewareRegistry struct {
	mu    sync.RWMutex
	named map[string]Middleware
}

// NewMiddlewareRegistry returns an empty registry.
func NewMiddlewareRegistry() *MiddlewareRegistry {
	return &MiddlewareRegistry{named: make(map[string]Middleware)}
}

// Register adds or replaces a named middleware.
func (r *MiddlewareRegistry) Register(name string, mw Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.named[name] = mw
}

// Get returns the named middleware.
func (r *MiddlewareRegistry) Get(name string) (Middleware, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mw, ok := r.named[name]
	return mw, ok
}

// Names returns the registered names in sorted order.
func (r *MiddlewareRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.named))
}

// chain resolves names into middleware for the route. The first name wraps
// outermost and runs first.
func (r *MiddlewareRegistry) chain(route Route) ([]Middleware, error) {
	out := make([]Middleware, 0, len(route.Middleware))
	for _, name := range route.Middleware {
		mw, ok := r.Get(name)
		if !ok {
			return nil, &UnsupportedMiddlewareError{Name: name, Method: route.Method, Path: route.Path}
		}
		out = append(out, mw)
	}
	return out, nil
}
