package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_Split(t *testing.T) {
	t.Run("records outcome has empty delta", func(t *testing.T) {
		records, params, err := Records(NewRecord("message", "hi")).Split()
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Empty(t, params)
	})

	t.Run("structured outcome defaults missing fields", func(t *testing.T) {
		records, params, err := StructuredOutcome(nil, nil).Split()
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
		assert.NotNil(t, params)
	})

	t.Run("zero outcome is malformed", func(t *testing.T) {
		_, _, err := Outcome{}.Split()
		assert.ErrorIs(t, err, ErrMalformedOutcome)
	})
}

func TestOutcomeFrom(t *testing.T) {
	tests := []struct {
		name       string
		raw        any
		wantKind   OutcomeKind
		wantCount  int
		wantParams map[string]any
		wantErr    bool
	}{
		{
			name:      "sequence of mappings",
			raw:       []any{map[string]any{"a": 1}, map[string]any{"a": 2}},
			wantKind:  OutcomeRecords,
			wantCount: 2,
		},
		{
			name:      "empty sequence",
			raw:       []any{},
			wantKind:  OutcomeRecords,
			wantCount: 0,
		},
		{
			name:       "results and params",
			raw:        map[string]any{"results": []any{map[string]any{"a": 1}}, "params": map[string]any{"k": "v"}},
			wantKind:   OutcomeStructured,
			wantCount:  1,
			wantParams: map[string]any{"k": "v"},
		},
		{
			name:       "params only",
			raw:        map[string]any{"Params": map[string]any{"k": "v"}},
			wantKind:   OutcomeStructured,
			wantCount:  0,
			wantParams: map[string]any{"k": "v"},
		},
		{name: "plain mapping", raw: map[string]any{"a": 1}, wantErr: true},
		{name: "string", raw: "done", wantErr: true},
		{name: "sequence of scalars", raw: []any{1, 2}, wantErr: true},
		{name: "params not a mapping", raw: map[string]any{"params": []any{}}, wantErr: true},
		{name: "nil", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := OutcomeFrom(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var mErr *MalformedOutcomeError
				assert.True(t, errors.As(err, &mErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, out.Kind)

			records, params, err := out.Split()
			require.NoError(t, err)
			assert.Len(t, records, tt.wantCount)
			if tt.wantParams != nil {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestRecord_PreservesLabelOrder(t *testing.T) {
	r := NewRecord("name", "hello_world", "description", "Prints a greeting")
	r.Set("name", "renamed")

	assert.Equal(t, []string{"name", "description"}, r.Keys())
	assert.Equal(t, "renamed", r.Get("name"))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"renamed","description":"Prints a greeting"}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":"x","m":null}`), &back))
	assert.Equal(t, []string{"z", "a", "m"}, back.Keys())
	assert.Equal(t, 3, back.Len())
}

func TestRecord_CopiesAreIndependent(t *testing.T) {
	a := NewRecord("x", 1, "y", 2, "z", 3)
	b := a
	b.Set("w", 9)
	b.Set("x", 10)

	assert.Equal(t, []string{"x", "y", "z"}, a.Keys())
	assert.Nil(t, a.Get("w"))
	assert.Equal(t, 1, a.Get("x"))

	assert.Equal(t, []string{"x", "y", "z", "w"}, b.Keys())
	assert.Equal(t, 10, b.Get("x"))

	// A record handed out in a slice cannot be changed through an element copy.
	results := []Record{a}
	edited := results[0]
	edited.Set("y", "changed")
	assert.Equal(t, 2, results[0].Get("y"))
}

func TestRecordFromMap_SortsLabels(t *testing.T) {
	r := RecordFromMap(map[string]any{"b": 2, "a": 1})
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, r.Map())
}

func TestUnknownModeError_Message(t *testing.T) {
	err := &UnknownModeError{Mode: "bogus", Valid: []string{"actions", "hello"}}

	assert.Equal(t, "invalid mode specified 'bogus', supported modes are: 'actions, hello'", err.Error())
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestActionError_Unwraps(t *testing.T) {
	cause := errors.New("boom")
	err := &ActionError{Mode: "m", Index: 1, Action: "b", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "action #1 'b' failed")
}
