package report

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func action(name, desc string) domain.Action {
	return domain.NewAction(name, desc, func(context.Context, domain.Params) (domain.Outcome, error) {
		return domain.Records(), nil
	})
}

func TestColumnsAndCells(t *testing.T) {
	records := []domain.Record{
		domain.NewRecord("name", "a", "count", 1),
		domain.NewRecord("count", 2, "extra", "dropped"),
	}

	cols := Columns(records)
	assert.Equal(t, []string{"name", "count"}, cols)
	assert.Equal(t, []string{"NAME", "COUNT"}, Headings(cols))
	assert.Equal(t, []string{"a", "1"}, Cells(records[0], cols))
	assert.Equal(t, []string{"", "2"}, Cells(records[1], cols), "missing labels render empty, extra labels are dropped")
	assert.Nil(t, Columns(nil))
}

func TestTableReporter_Plan(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(&buf)

	require.NoError(t, r.Plan("info", []domain.Action{
		action("print_types", "Print parameter types"),
		action("undocumented", ""),
	}))

	out := buf.String()
	assert.Contains(t, out, "Actions to be performed for mode 'info'")
	assert.Contains(t, out, "DESCRIPTION")
	assert.Contains(t, out, "print_types")
	assert.Contains(t, out, "false", "absent description is rendered as false")
	assert.Less(t, strings.Index(out, "print_types"), strings.Index(out, "undocumented"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var zeroRow bool
	for _, l := range lines {
		if strings.Contains(l, "print_types") {
			zeroRow = strings.Contains(l, "0")
		}
	}
	assert.True(t, zeroRow, "rows are numbered from 0")
}

func TestTableReporter_Outcome(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(&buf)

	require.NoError(t, r.Outcome(action("hello_world", ""), []domain.Record{
		domain.NewRecord("message", "Hello World!"),
	}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\n"))
	assert.Contains(t, out, "Result of hello_world")
	assert.Contains(t, out, "MESSAGE")
	assert.Contains(t, out, "Hello World!")

	buf.Reset()
	require.NoError(t, r.Outcome(action("empty", ""), nil))
	assert.Contains(t, buf.String(), "Result of empty")
}

func TestTableReporter_OutcomeWithoutLabels(t *testing.T) {
	var nilRecords, unlabeled bytes.Buffer

	require.NoError(t, NewTable(&nilRecords).Outcome(action("ensure_users", ""), nil))
	require.NoError(t, NewTable(&unlabeled).Outcome(action("ensure_users", ""), []domain.Record{{}, {}}))

	assert.Equal(t, nilRecords.String(), unlabeled.String())
	assert.NotContains(t, unlabeled.String(), "┌┐")
	assert.NotContains(t, unlabeled.String(), "├┤")
}

func TestTableReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewTable(&buf)

	actions := []domain.Action{action("a", ""), action("b", "")}
	results := [][]domain.Record{
		{domain.NewRecord("k", "first")},
		{domain.NewRecord("k", "second")},
	}
	require.NoError(t, r.Summary(actions, results))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\nSUMMARY\n\n"))
	assert.Less(t, strings.Index(out, "Result of a"), strings.Index(out, "Result of b"))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSON(&buf)

	a := action("hello_world", "Print Hello World Message")
	require.NoError(t, r.Plan("hello", []domain.Action{a}))
	require.NoError(t, r.Outcome(a, []domain.Record{domain.NewRecord("message", "hi", "at", 1)}))
	require.NoError(t, r.Summary([]domain.Action{a}, nil))

	var lines []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 3)

	var plan Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &plan))
	assert.Equal(t, "plan", plan.Event)
	assert.Equal(t, "hello", plan.Mode)
	assert.Equal(t, "hello_world", plan.Actions[0].Name)

	assert.Contains(t, lines[1], `"results":[{"message":"hi","at":1}]`)
	assert.Contains(t, lines[2], `"summary":[{"action":"hello_world","results":[]}]`)
}

func TestNop(t *testing.T) {
	r := Nop()
	assert.NoError(t, r.Plan("x", nil))
	assert.NoError(t, r.Outcome(action("a", ""), nil))
	assert.NoError(t, r.Summary(nil, nil))
}
