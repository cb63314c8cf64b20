package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/registry"
	"github.com/aretw0/lcm/pkg/schema"
)

// DefaultGreeting is printed by hello_world when no message param is given.
const DefaultGreeting = "Hello World!"

// HelloWorld returns a single record carrying a greeting.
func HelloWorld() domain.Action {
	return domain.NewAction("hello_world", "Print Hello World Message", func(_ context.Context, p domain.Params) (domain.Outcome, error) {
		return domain.Records(domain.NewRecord("message", p.String("message"))), nil
	}, domain.ParamSpec{
		Name:        "message",
		Type:        schema.String(),
		Default:     DefaultGreeting,
		Description: "Greeting to print",
	})
}

// PrintActions lists every brick known to the registry in the context.
func PrintActions() domain.Action {
	return domain.NewAction("print_actions", "Print available actions", func(ctx context.Context, _ domain.Params) (domain.Outcome, error) {
		cat, err := catalog(ctx)
		if err != nil {
			return domain.Outcome{}, err
		}
		var records []domain.Record
		for _, a := range cat.Actions() {
			records = append(records, domain.NewRecord(
				"name", a.Name(),
				"description", a.Description(),
				"params", paramNames(a),
			))
		}
		return domain.Records(records...), nil
	})
}

// PrintModes lists every mode with its brick sequence.
func PrintModes() domain.Action {
	return domain.NewAction("print_modes", "Print available modes", func(ctx context.Context, _ domain.Params) (domain.Outcome, error) {
		cat, err := catalog(ctx)
		if err != nil {
			return domain.Outcome{}, err
		}
		var records []domain.Record
		for _, m := range cat.Modes() {
			records = append(records, domain.NewRecord(
				"name", m.Name,
				"actions", strings.Join(m.ActionNames(), ", "),
			))
		}
		return domain.Records(records...), nil
	})
}

// PrintTypes lists the parameter types bricks may declare.
func PrintTypes() domain.Action {
	return domain.NewAction("print_types", "Print parameter types", func(context.Context, domain.Params) (domain.Outcome, error) {
		var records []domain.Record
		for _, t := range schema.Types() {
			desc := ""
			if d, ok := t.(schema.Described); ok {
				desc = d.Description()
			}
			records = append(records, domain.NewRecord("name", t.Name(), "description", desc))
		}
		return domain.Records(records...), nil
	})
}

func catalog(ctx context.Context) (*registry.Registry, error) {
	cat, ok := registry.CatalogFrom(ctx)
	if !ok {
		return nil, fmt.Errorf("no mode registry in context")
	}
	return cat, nil
}

func paramNames(a domain.Action) string {
	decl, ok := a.(domain.ParamDeclarer)
	if !ok {
		return ""
	}
	names := make([]string, 0, len(decl.Params()))
	for _, spec := range decl.Params() {
		name := spec.Name
		if spec.Required {
			name += "*"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
