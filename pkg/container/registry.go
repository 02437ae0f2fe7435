package container

import (
	"errors"
	"fmt"
)

// Factory constructs a service. It is called at most once per successful resolution.
type Factory func() (any, error)

// Well-known registry categories. Categories only group entries; lookup is flat.
const (
	CategoryCore         = "core"
	CategoryServices     = "services"
	CategoryRepositories = "repositories"
	CategoryControllers  = "controllers"
)

// Category is a named group of factories.
type Category struct {
	Name      string
	Factories map[string]Factory
}

// Registry is the static service declaration loaded once per container.
// Categories are searched in declaration order.
type Registry struct {
	categories []Category
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a factory under the given category, creating the category on first use.
// Re-adding a key within the same category replaces the factory.
func (r *Registry) Add(category, key string, f Factory) *Registry {
	for i := range r.categories {
		if r.categories[i].Name == category {
			r.categories[i].Factories[key] = f
			return r
		}
	}
	r.categories = append(r.categories, Category{
		Name:      category,
		Factories: map[string]Factory{key: f},
	})
	return r
}

// Core registers a factory in the core category.
func (r *Registry) Core(key string, f Factory) *Registry {
	return r.Add(CategoryCore, key, f)
}

// Service registers a factory in the services category.
func (r *Registry) Service(key string, f Factory) *Registry {
	return r.Add(CategoryServices, key, f)
}

// Repository registers a factory in the repositories category.
func (r *Registry) Repository(key string, f Factory) *Registry {
	return r.Add(CategoryRepositories, key, f)
}

// Controller registers a factory in the controllers category.
func (r *Registry) Controller(key string, f Factory) *Registry {
	return r.Add(CategoryControllers, key, f)
}

// Categories returns the category names in declaration order.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		names = append(names, c.Name)
	}
	return names
}

// lookup finds the factory for key across all categories.
func (r *Registry) lookup(key string) (Factory, bool) {
	for _, c := range r.categories {
		if f, ok := c.Factories[key]; ok && f != nil {
			return f, true
		}
	}
	return nil, false
}

// Validate reports keys declared in more than one category.
// Lookup tolerates duplicates (first category wins); Validate is for startup checks.
func (r *Registry) Validate() error {
	seen := make(map[string]string)
	var errs []error
	for _, c := range r.categories {
		for key := range c.Factories {
			if prev, ok := seen[key]; ok {
				errs = append(errs, fmt.Errorf("%w: %q in %q and %q", ErrDuplicateKey, key, prev, c.Name))
				continue
			}
			seen[key] = c.Name
		}
	}
	return errors.Join(errs...)
}
