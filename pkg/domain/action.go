package domain

import (
	"context"
	"strings"

	"github.com/aretw0/lcm/pkg/schema"
)

// Action is one brick of a pipeline.
// Implementations must be stateless: every call receives the current context
// and returns an outcome; nothing is kept between calls.
type Action interface {
	// Name is the short name shown in plans and reports.
	Name() string
	// Description is optional; an empty string means absent.
	Description() string
	// Call performs the brick against the current parameter context.
	Call(ctx context.Context, params Params) (Outcome, error)
}

// ParamDeclarer is implemented by bricks that declare the parameters they read.
type ParamDeclarer interface {
	Params() []ParamSpec
}

// ParamSpec declares one parameter consumed by a brick.
type ParamSpec struct {
	Name        string
	Type        schema.Type
	Required    bool
	Default     any
	Description string
}

// ApplyParamSpecs fills declared defaults into params and validates presence
// and types. Defaults are written into params so later bricks see them too.
func ApplyParamSpecs(specs []ParamSpec, params Params) error {
	var errs []error
	for _, spec := range specs {
		key := strings.ToLower(spec.Name)
		value, ok := params.Lookup(key)
		if !ok || value == nil {
			if spec.Default != nil {
				params.Set(key, spec.Default)
				continue
			}
			if spec.Required {
				errs = append(errs, &schema.ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if spec.Type == nil {
			continue
		}
		if err := spec.Type.Validate(value); err != nil {
			errs = append(errs, &schema.ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

// ActionFunc is the signature of a brick body.
type ActionFunc func(ctx context.Context, params Params) (Outcome, error)

// FuncAction adapts a plain function into an Action.
type FuncAction struct {
	ShortName string
	Desc      string
	Specs     []ParamSpec
	Fn        ActionFunc
}

// NewAction creates an Action from a function.
func NewAction(name, description string, fn ActionFunc, specs ...ParamSpec) *FuncAction {
	return &FuncAction{ShortName: name, Desc: description, Fn: fn, Specs: specs}
}

func (a *FuncAction) Name() string        { return a.ShortName }
func (a *FuncAction) Description() string { return a.Desc }
func (a *FuncAction) Params() []ParamSpec { return a.Specs }

func (a *FuncAction) Call(ctx context.Context, params Params) (Outcome, error) {
	return a.Fn(ctx, params)
}
