package domain

import (
	"context"
	"testing"

	"github.com/aretw0/lcm/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyParamSpecs(t *testing.T) {
	specs := []ParamSpec{
		{Name: "Segment", Type: schema.String(), Required: true},
		{Name: "retries", Type: schema.Integer(), Default: 3},
		{Name: "dry_run", Type: schema.Boolean()},
	}

	t.Run("defaults are written into the context", func(t *testing.T) {
		p := NewParams(map[string]any{"segment": "premium"})
		require.NoError(t, ApplyParamSpecs(specs, p))
		assert.Equal(t, 3, p.Get("retries"))
		assert.False(t, p.Has("dry_run"))
	})

	t.Run("missing and mistyped params are aggregated", func(t *testing.T) {
		p := NewParams(map[string]any{"dry_run": "yes"})
		err := ApplyParamSpecs(specs, p)
		require.Error(t, err)

		errs := schema.ValidationErrors(err)
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Error(), `"segment": required`)
		assert.Contains(t, errs[1].Error(), `"dry_run"`)
	})
}

func TestFuncAction(t *testing.T) {
	a := NewAction("hello_world", "Prints a greeting", func(ctx context.Context, p Params) (Outcome, error) {
		return Records(NewRecord("message", "hi "+p.String("who"))), nil
	}, ParamSpec{Name: "who", Default: "there"})

	assert.Equal(t, "hello_world", a.Name())
	assert.Equal(t, "Prints a greeting", a.Description())
	assert.Len(t, a.Params(), 1)

	var _ ParamDeclarer = a

	out, err := a.Call(context.Background(), NewParams(map[string]any{"who": "bob"}))
	require.NoError(t, err)
	assert.Equal(t, "hi bob", out.Results[0].Get("message"))
}

func TestMode_ActionNames(t *testing.T) {
	noop := func(context.Context, Params) (Outcome, error) { return Records(), nil }
	m := Mode{Name: "info", Actions: []Action{
		NewAction("print_types", "", noop),
		NewAction("print_actions", "", noop),
	}}

	assert.Equal(t, []string{"print_types", "print_actions"}, m.ActionNames())
}

func TestRunRecord_Finish(t *testing.T) {
	r := NewRunRecord("id-1", "hello", NewParams(map[string]any{"A": 1}))
	assert.Equal(t, RunStatusRunning, r.Status)
	assert.Equal(t, map[string]any{"a": 1}, r.Params)

	r.Steps = append(r.Steps, StepRecord{Index: 0, Action: "hello_world", Results: []Record{NewRecord("message", "hi")}})
	r.Finish(nil)

	assert.Equal(t, RunStatusSucceeded, r.Status)
	assert.False(t, r.FinishedAt.IsZero())
	assert.Len(t, r.Results(), 1)

	failed := NewRunRecord("id-2", "hello", nil)
	failed.Finish(assert.AnError)
	assert.Equal(t, RunStatusFailed, failed.Status)
	assert.Equal(t, assert.AnError.Error(), failed.Error)
}

func TestCombineHooks(t *testing.T) {
	var calls []string
	h := CombineHooks(
		LifecycleHooks{OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "first") }},
		LifecycleHooks{},
		LifecycleHooks{OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "second") }},
	)

	h.OnRunStart(context.Background(), &RunEvent{})
	h.OnActionFinish(context.Background(), &ActionEvent{})

	assert.Equal(t, []string{"first", "second"}, calls)
}
