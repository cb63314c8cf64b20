package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/lcm/internal/runtime"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/registry"
	"github.com/aretw0/lcm/pkg/report"
	"github.com/aretw0/lcm/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures reporter calls in order.
type recorder struct {
	calls   []string
	summary [][]domain.Record
}

func (r *recorder) Plan(mode string, actions []domain.Action) error {
	r.calls = append(r.calls, "plan:"+mode)
	return nil
}

func (r *recorder) Outcome(action domain.Action, records []domain.Record) error {
	r.calls = append(r.calls, "outcome:"+action.Name())
	return nil
}

func (r *recorder) Summary(actions []domain.Action, results [][]domain.Record) error {
	r.calls = append(r.calls, "summary")
	r.summary = results
	return nil
}

func returning(name string, out domain.Outcome, invoked *[]string) domain.Action {
	return domain.NewAction(name, "", func(_ context.Context, _ domain.Params) (domain.Outcome, error) {
		if invoked != nil {
			*invoked = append(*invoked, name)
		}
		return out, nil
	})
}

func newEngine(t *testing.T, rep report.Reporter, modes ...domain.Mode) *runtime.Engine {
	t.Helper()
	reg, err := registry.New(modes...)
	require.NoError(t, err)
	return runtime.NewEngine(reg, runtime.WithReporter(rep))
}

func TestPerform_HelloEndToEnd(t *testing.T) {
	rec := &recorder{}
	hello := returning("hello_world", domain.StructuredOutcome(
		[]domain.Record{domain.NewRecord("message", "hi")},
		map[string]any{},
	), nil)
	engine := newEngine(t, rec, domain.Mode{Name: "hello", Actions: []domain.Action{hello}})

	res, err := engine.PerformWithParams(context.Background(), "hello", nil)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	require.Len(t, res.Records[0], 1)
	assert.Equal(t, map[string]any{"message": "hi"}, res.Records[0][0].Map())
	assert.Empty(t, res.Params)
	assert.Equal(t, []string{"plan:hello", "outcome:hello_world"}, rec.calls, "no summary for a single brick")
}

func TestPerform_SequentialDeltaFlow(t *testing.T) {
	var seen []any
	produce := domain.NewAction("produce", "", func(_ context.Context, p domain.Params) (domain.Outcome, error) {
		return domain.StructuredOutcome(nil, map[string]any{"Segments": []any{map[string]any{"ID": "s1"}}}), nil
	})
	consume := domain.NewAction("consume", "", func(_ context.Context, p domain.Params) (domain.Outcome, error) {
		seen = p.List("segments")
		return domain.Records(domain.NewRecord("count", len(seen))), nil
	})

	rec := &recorder{}
	engine := newEngine(t, rec, domain.Mode{Name: "m", Actions: []domain.Action{produce, consume}})

	res, err := engine.PerformWithParams(context.Background(), "m", map[string]any{"Organization": "acme"})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, domain.Params{"id": "s1"}, seen[0], "deltas are normalized before merge")
	assert.Equal(t, "acme", res.Params.Get("organization"))
	assert.Equal(t, []string{"plan:m", "outcome:produce", "outcome:consume", "summary"}, rec.calls)
	assert.Equal(t, res.Records, rec.summary)
	assert.Empty(t, res.Records[0])
}

func TestPerform_ShallowMerge(t *testing.T) {
	delta := returning("delta", domain.StructuredOutcome(nil, map[string]any{"b": map[string]any{"y": 2}}), nil)
	engine := newEngine(t, nil, domain.Mode{Name: "m", Actions: []domain.Action{delta}})

	res, err := engine.PerformWithParams(context.Background(), "m", map[string]any{
		"a": 1,
		"b": map[string]any{"x": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Params.Get("a"))
	assert.Equal(t, domain.Params{"y": 2}, res.Params.Get("b"))
}

func TestPerform_FailureAbortsRun(t *testing.T) {
	var invoked []string
	boom := errors.New("boom")

	a := returning("a", domain.Records(domain.NewRecord("k", "v")), &invoked)
	b := domain.NewAction("b", "", func(context.Context, domain.Params) (domain.Outcome, error) {
		invoked = append(invoked, "b")
		return domain.Outcome{}, boom
	})
	c := returning("c", domain.Records(), &invoked)

	rec := &recorder{}
	engine := newEngine(t, rec, domain.Mode{Name: "m", Actions: []domain.Action{a, b, c}})

	res, err := engine.PerformWithParams(context.Background(), "m", nil)
	require.Error(t, err)

	var actionErr *domain.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, 1, actionErr.Index)
	assert.Equal(t, "b", actionErr.Action)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"a", "b"}, invoked, "c must never be invoked")
	assert.Equal(t, []string{"plan:m", "outcome:a"}, rec.calls, "no summary after a failure")
	require.Len(t, res.Records, 1)

	records, err := engine.Perform(context.Background(), "m", nil)
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestPerform_UnknownMode(t *testing.T) {
	rec := &recorder{}
	engine := newEngine(t, rec, domain.Mode{Name: "hello", Actions: []domain.Action{returning("h", domain.Records(), nil)}})

	_, err := engine.Perform(context.Background(), "bogus", nil)
	require.Error(t, err)

	var unknown *domain.UnknownModeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"hello"}, unknown.Valid)
	assert.Empty(t, rec.calls, "nothing is reported for an unknown mode")
}

func TestPerform_MalformedOutcome(t *testing.T) {
	bad := returning("bad", domain.Outcome{}, nil)
	engine := newEngine(t, nil, domain.Mode{Name: "m", Actions: []domain.Action{bad}})

	_, err := engine.Perform(context.Background(), "m", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedOutcome)

	var mErr *domain.MalformedOutcomeError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "bad", mErr.Action)
}

func TestPerform_ParamSpecs(t *testing.T) {
	var got string
	needs := domain.NewAction("needs", "", func(_ context.Context, p domain.Params) (domain.Outcome, error) {
		got = p.String("release_table_name")
		return domain.Records(), nil
	},
		domain.ParamSpec{Name: "organization", Type: schema.String(), Required: true},
		domain.ParamSpec{Name: "release_table_name", Default: "LCM_RELEASE"},
	)
	engine := newEngine(t, nil, domain.Mode{Name: "m", Actions: []domain.Action{needs}})

	_, err := engine.Perform(context.Background(), "m", nil)
	var pErr *domain.ParamValidationError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "needs", pErr.Action)

	res, err := engine.PerformWithParams(context.Background(), "m", map[string]any{"ORGANIZATION": "acme"})
	require.NoError(t, err)
	assert.Equal(t, "LCM_RELEASE", got)
	assert.Equal(t, "LCM_RELEASE", res.Params.Get("release_table_name"))
}

func TestPerform_CancelledBetweenBricks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var invoked []string

	first := domain.NewAction("first", "", func(context.Context, domain.Params) (domain.Outcome, error) {
		invoked = append(invoked, "first")
		cancel()
		return domain.Records(), nil
	})
	second := returning("second", domain.Records(), &invoked)
	engine := newEngine(t, nil, domain.Mode{Name: "m", Actions: []domain.Action{first, second}})

	_, err := engine.Perform(ctx, "m", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, invoked)
}

func TestPerform_CatalogInContext(t *testing.T) {
	var found bool
	ctxCheck := domain.NewAction("catalog_check", "", func(ctx context.Context, _ domain.Params) (domain.Outcome, error) {
		_, found = registry.CatalogFrom(ctx)
		return domain.Records(), nil
	})
	engine := newEngine(t, nil, domain.Mode{Name: "m", Actions: []domain.Action{ctxCheck}})

	_, err := engine.Perform(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPerform_LifecycleHooks(t *testing.T) {
	var events []string
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			events = append(events, "run_start:"+strings.Join(e.Actions, ","))
		},
		OnActionStart: func(_ context.Context, e *domain.ActionEvent) {
			events = append(events, "start:"+e.Action)
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			events = append(events, "finish:"+e.Action)
			assert.Equal(t, domain.EventActionFinish, e.Type)
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			events = append(events, "run_finish")
			assert.NoError(t, e.Err)
		},
	}

	reg, err := registry.New(domain.Mode{Name: "m", Actions: []domain.Action{
		returning("a", domain.Records(), nil),
		returning("b", domain.Records(), nil),
	}})
	require.NoError(t, err)
	engine := runtime.NewEngine(reg, runtime.WithLifecycleHooks(hooks), runtime.WithLogger(nil))

	_, err = engine.Perform(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"run_start:a,b", "start:a", "finish:a", "start:b", "finish:b", "run_finish"}, events)
}

func TestPerform_TableOutput(t *testing.T) {
	var buf bytes.Buffer
	engine := newEngine(t, report.NewTable(&buf),
		domain.Mode{Name: "one", Actions: []domain.Action{returning("a", domain.Records(domain.NewRecord("k", "v")), nil)}},
		domain.Mode{Name: "two", Actions: []domain.Action{
			returning("a", domain.Records(domain.NewRecord("k", "v")), nil),
			returning("b", domain.Records(domain.NewRecord("k", "w")), nil),
		}},
	)

	_, err := engine.Perform(context.Background(), "one", nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "SUMMARY")

	buf.Reset()
	_, err = engine.Perform(context.Background(), "two", nil)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Actions to be performed for mode 'two'")
	assert.Contains(t, out, "SUMMARY")
	assert.Equal(t, 2, strings.Count(out[strings.Index(out, "SUMMARY"):], "Result of"))
}
