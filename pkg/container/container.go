package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Container lazily builds and caches one instance per key for its lifetime.
// It is safe for concurrent use.
type Container struct {
	loader   func() *Registry
	registry *Registry
	loadOnce sync.Once

	mu        sync.RWMutex
	instances map[string]any
	group     singleflight.Group
}

// New creates a container whose registry is produced by loader on first access.
// The loader runs exactly once, even under concurrent first calls.
//
// Example:
//
//	c := container.New(func() *container.Registry {
//	    return container.NewRegistry().
//	        Core("database", func() (any, error) { return db.Connect(ctx, cfg) }).
//	        Repository("userRepository", func() (any, error) { ... })
//	})
func New(loader func() *Registry) *Container {
	return &Container{
		loader:    loader,
		instances: make(map[string]any),
	}
}

// NewFromRegistry creates a container over an already-built registry.
func NewFromRegistry(r *Registry) *Container {
	return New(func() *Registry { return r })
}

func (c *Container) load() *Registry {
	c.loadOnce.Do(func() {
		if c.loader != nil {
			c.registry = c.loader()
		}
		if c.registry == nil {
			c.registry = NewRegistry()
		}
	})
	return c.registry
}

// Get returns the instance for key, constructing it on first use.
// Unknown keys return *UnresolvedDependencyError and leave the cache untouched.
// Factory errors are returned joined with ErrFactory and are not cached.
func (c *Container) Get(key string) (any, error) {
	c.mu.RLock()
	inst, ok := c.instances[key]
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}

	factory, ok := c.load().lookup(key)
	if !ok {
		return nil, &UnresolvedDependencyError{Key: key}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A call that lost the race with a finished flight lands here after the
		// instance is cached; the second check keeps the factory single-run.
		c.mu.RLock()
		inst, ok := c.instances[key]
		c.mu.RUnlock()
		if ok {
			return inst, nil
		}

		inst, err := factory()
		if err != nil {
			return nil, errors.Join(ErrFactory, fmt.Errorf("build %q: %w", key, err))
		}

		c.mu.Lock()
		c.instances[key] = inst
		c.mu.Unlock()
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Has reports whether key is declared in the registry.
func (c *Container) Has(key string) bool {
	_, ok := c.load().lookup(key)
	return ok
}

// Resolved reports whether key already has a cached instance.
func (c *Container) Resolved(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[key]
	return ok
}

// Keys returns every declared key, sorted.
func (c *Container) Keys() []string {
	r := c.load()
	seen := make(map[string]struct{})
	for _, cat := range r.categories {
		for k := range cat.Factories {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the instance for key asserted to T.
//
// Example:
//
//	repo, err := container.Resolve[*repository.Users](c, "userRepository")
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrTypeMismatch, key, v, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
// Use only during startup wiring.
func MustResolve[T any](c *Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}
