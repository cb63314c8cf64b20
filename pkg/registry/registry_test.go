package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brick(name string) domain.Action {
	return domain.NewAction(name, "", func(context.Context, domain.Params) (domain.Outcome, error) {
		return domain.Records(), nil
	})
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	printActions := brick("print_actions")
	r, err := New(
		domain.Mode{Name: "actions", Actions: []domain.Action{printActions}},
		domain.Mode{Name: "hello", Actions: []domain.Action{brick("hello_world")}},
		domain.Mode{Name: "info", Actions: []domain.Action{brick("print_types"), printActions, brick("print_modes")}},
	)
	require.NoError(t, err)
	return r
}

func TestResolve_ReturnsDeclaredSequence(t *testing.T) {
	r := testRegistry(t)

	actions, err := r.Resolve("info")
	require.NoError(t, err)

	var names []string
	for _, a := range actions {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"print_types", "print_actions", "print_modes"}, names)
}

func TestResolve_IsStable(t *testing.T) {
	r := testRegistry(t)

	first, err := r.Resolve("info")
	require.NoError(t, err)
	first[0] = brick("mutated")

	second, err := r.Resolve("info")
	require.NoError(t, err)
	assert.Equal(t, "print_types", second[0].Name())
}

func TestResolve_UnknownMode(t *testing.T) {
	r := testRegistry(t)

	for _, name := range []string{"bogus", "", "Hello"} {
		_, err := r.Resolve(name)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnknownMode))

		var unknown *domain.UnknownModeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, name, unknown.Mode)
		assert.Equal(t, []string{"actions", "hello", "info"}, unknown.Valid)
	}
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	a := brick("a")

	_, err := New(domain.Mode{Name: "x", Actions: []domain.Action{a}}, domain.Mode{Name: "x", Actions: []domain.Action{a}})
	assert.ErrorContains(t, err, "declared twice")

	_, err = New(domain.Mode{Name: "empty"})
	assert.ErrorContains(t, err, "no actions")

	_, err = New(domain.Mode{Actions: []domain.Action{a}})
	assert.Error(t, err)

	assert.Panics(t, func() { MustNew(domain.Mode{Name: "empty"}) })
}

func TestActions_DeduplicatesInFirstSeenOrder(t *testing.T) {
	r := testRegistry(t)

	var names []string
	for _, a := range r.Actions() {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"print_actions", "hello_world", "print_types", "print_modes"}, names)
	assert.Equal(t, []string{"actions", "hello", "info"}, r.Names())
	assert.Len(t, r.Modes(), 3)
}

func TestCatalogContext(t *testing.T) {
	r := testRegistry(t)

	_, ok := CatalogFrom(context.Background())
	assert.False(t, ok)

	got, ok := CatalogFrom(WithCatalog(context.Background(), r))
	require.True(t, ok)
	assert.Same(t, r, got)
}
