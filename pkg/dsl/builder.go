package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/registry"
)

// BrickResolver turns a brick's short name into an action.
type BrickResolver func(name string) (domain.Action, error)

// Builder collects mode declarations in order.
type Builder struct {
	order  []string
	modes  map[string]*ModeBuilder
	bricks BrickResolver
}

// Option configures the Builder.
type Option func(*Builder)

// WithBricks sets the resolver used by ModeBuilder.Bricks.
func WithBricks(resolve BrickResolver) Option {
	return func(b *Builder) {
		b.bricks = resolve
	}
}

// New creates a new mode builder.
func New(opts ...Option) *Builder {
	b := &Builder{modes: make(map[string]*ModeBuilder)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add starts a mode declaration.
// If the mode already exists, it returns the existing builder.
func (b *Builder) Add(name string) *ModeBuilder {
	if mb, ok := b.modes[name]; ok {
		return mb
	}
	mb := &ModeBuilder{mode: domain.Mode{Name: name}, builder: b}
	b.modes[name] = mb
	b.order = append(b.order, name)
	return mb
}

// Build returns the modes in declaration order.
// Bricks the resolver could not provide are reported together.
func (b *Builder) Build() ([]domain.Mode, error) {
	modes := make([]domain.Mode, 0, len(b.order))
	var errs []error
	for _, name := range b.order {
		mb := b.modes[name]
		errs = append(errs, mb.errs...)
		modes = append(modes, mb.Build())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return modes, nil
}

// MustBuild is like Build but panics on error. Intended for static tables.
func (b *Builder) MustBuild() []domain.Mode {
	modes, err := b.Build()
	if err != nil {
		panic(err)
	}
	return modes
}

// Registry builds the modes and validates them into a registry.
func (b *Builder) Registry() (*registry.Registry, error) {
	modes, err := b.Build()
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(modes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}
	return reg, nil
}
