package dsl

import (
	"fmt"

	"github.com/aretw0/lcm/pkg/domain"
)

// ModeBuilder provides a fluent API for configuring a mode.
type ModeBuilder struct {
	mode    domain.Mode
	builder *Builder
	errs    []error
}

// Describe sets the one-line description of the mode.
func (m *ModeBuilder) Describe(description string) *ModeBuilder {
	m.mode.Description = description
	return m
}

// Do appends actions to the pipeline.
func (m *ModeBuilder) Do(actions ...domain.Action) *ModeBuilder {
	m.mode.Actions = append(m.mode.Actions, actions...)
	return m
}

// Func appends an inline action.
func (m *ModeBuilder) Func(name, description string, fn domain.ActionFunc, specs ...domain.ParamSpec) *ModeBuilder {
	return m.Do(domain.NewAction(name, description, fn, specs...))
}

// Bricks appends bricks by short name through the builder's resolver.
func (m *ModeBuilder) Bricks(names ...string) *ModeBuilder {
	for _, name := range names {
		if m.builder.bricks == nil {
			m.errs = append(m.errs, fmt.Errorf("mode '%s': no brick resolver for '%s'", m.mode.Name, name))
			continue
		}
		a, err := m.builder.bricks(name)
		if err != nil {
			m.errs = append(m.errs, fmt.Errorf("mode '%s': %w", m.mode.Name, err))
			continue
		}
		m.mode.Actions = append(m.mode.Actions, a)
	}
	return m
}

// Build returns the underlying domain.Mode.
func (m *ModeBuilder) Build() domain.Mode {
	out := m.mode
	out.Actions = append([]domain.Action(nil), m.mode.Actions...)
	return out
}
