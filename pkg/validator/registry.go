package validator

import (
	"context"
	"log/slog"
	"sync"
)

// RuleFunc reports whether value passes the rule for field.
type RuleFunc func(value, field string, rc *RuleContext) bool

// Resolver looks up a dependency by key. *container.Container satisfies it.
type Resolver interface {
	Get(key string) (any, error)
}

// RuleContext is what a rule sees beyond the value under test.
type RuleContext struct {
	Context  context.Context
	Rule     Rule
	Input    Input
	Resolver Resolver
	Logger   *slog.Logger
}

// Registry holds named rules. Built-ins are installed lazily on first use,
// exactly once, and never replace a rule registered by the caller.
type Registry struct {
	once  sync.Once
	mu    sync.RWMutex
	rules map[string]RuleFunc
}

// NewRegistry returns an empty registry. Built-ins are added on first use.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleFunc)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by validators built
// without WithRegistry.
func DefaultRegistry() *Registry { return defaultRegistry }

func (r *Registry) init() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for name, fn := range builtins() {
			if _, ok := r.rules[name]; !ok {
				r.rules[name] = fn
			}
		}
	})
}

// Register adds or replaces the named rule.
func (r *Registry) Register(name string, fn RuleFunc) {
	r.init()
	r.mu.Lock()
	r.rules[name] = fn
	r.mu.Unlock()
}

// Lookup returns the named rule.
func (r *Registry) Lookup(name string) (RuleFunc, bool) {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rules[name]
	return fn, ok
}

// Register adds a rule to the default registry.
func Register(name string, fn RuleFunc) {
	defaultRegistry.Register(name, fn)
}
