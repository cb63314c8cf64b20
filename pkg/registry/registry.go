package registry

import (
	"context"
	"fmt"

	"github.com/aretw0/lcm/pkg/domain"
)

// Registry maps mode names to their ordered brick sequences.
// It is immutable after New and therefore safe for concurrent reads.
type Registry struct {
	order []string
	modes map[string]domain.Mode
}

// New creates a registry from the given modes, in declaration order.
// Duplicate names, unnamed modes and modes without bricks are rejected.
func New(modes ...domain.Mode) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(modes)),
		modes: make(map[string]domain.Mode, len(modes)),
	}
	for _, m := range modes {
		if m.Name == "" {
			return nil, fmt.Errorf("mode without a name")
		}
		if _, dup := r.modes[m.Name]; dup {
			return nil, fmt.Errorf("mode '%s' declared twice", m.Name)
		}
		if len(m.Actions) == 0 {
			return nil, fmt.Errorf("mode '%s' has no actions", m.Name)
		}
		for i, a := range m.Actions {
			if a == nil {
				return nil, fmt.Errorf("mode '%s': action #%d is nil", m.Name, i)
			}
		}
		m.Actions = append([]domain.Action(nil), m.Actions...)
		r.order = append(r.order, m.Name)
		r.modes[m.Name] = m
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(modes ...domain.Mode) *Registry {
	r, err := New(modes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the ordered bricks of the named mode.
// The lookup is exact and case-sensitive. The returned slice is a copy.
func (r *Registry) Resolve(name string) ([]domain.Action, error) {
	m, ok := r.modes[name]
	if !ok {
		return nil, &domain.UnknownModeError{Mode: name, Valid: r.Names()}
	}
	return append([]domain.Action(nil), m.Actions...), nil
}

// Mode returns the full declaration of the named mode.
func (r *Registry) Mode(name string) (domain.Mode, error) {
	m, ok := r.modes[name]
	if !ok {
		return domain.Mode{}, &domain.UnknownModeError{Mode: name, Valid: r.Names()}
	}
	m.Actions = append([]domain.Action(nil), m.Actions...)
	return m, nil
}

// Names returns the mode names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Modes returns every mode in declaration order.
func (r *Registry) Modes() []domain.Mode {
	out := make([]domain.Mode, 0, len(r.order))
	for _, name := range r.order {
		m, _ := r.Mode(name)
		out = append(out, m)
	}
	return out
}

// Actions returns the catalog of distinct bricks across all modes, in the
// order they are first seen. Bricks are identified by short name.
func (r *Registry) Actions() []domain.Action {
	seen := make(map[string]bool)
	var out []domain.Action
	for _, name := range r.order {
		for _, a := range r.modes[name].Actions {
			if seen[a.Name()] {
				continue
			}
			seen[a.Name()] = true
			out = append(out, a)
		}
	}
	return out
}

type catalogKey struct{}

// WithCatalog returns a copy of ctx carrying the registry, so bricks that
// describe the system itself can reach it.
func WithCatalog(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, catalogKey{}, r)
}

// CatalogFrom retrieves the registry stored by WithCatalog.
func CatalogFrom(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(catalogKey{}).(*Registry)
	return r, ok && r != nil
}
