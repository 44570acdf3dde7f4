package service

import (
	"fmt"

	"github.com/medianest/docqa/domain"
)

// Registry holds the registered checkers in a fixed order. Registration
// order is load-bearing: recommendation merging and module listings
// follow it, never completion order.
type Registry struct {
	order    []string
	checkers map[string]domain.Checker
}

// NewRegistry creates an empty checker registry
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]domain.Checker),
	}
}

// Register adds a checker. Duplicate names are a configuration error.
func (r *Registry) Register(c domain.Checker) error {
	name := c.Name()
	if name == "" {
		return domain.NewConfigError("checker has an empty name", nil)
	}
	if _, exists := r.checkers[name]; exists {
		return domain.NewConfigError(fmt.Sprintf("checker %q registered twice", name), nil)
	}
	r.order = append(r.order, name)
	r.checkers[name] = c
	return nil
}

// Names returns the registered module names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get returns the checker registered under name
func (r *Registry) Get(name string) (domain.Checker, bool) {
	c, ok := r.checkers[name]
	return c, ok
}

// Len returns the number of registered checkers
func (r *Registry) Len() int {
	return len(r.order)
}
