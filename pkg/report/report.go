// Package report renders the plan and results of a pipeline run.
//
// The engine calls Plan once before the first brick, Outcome after every
// brick and Summary at the end of runs with more than one brick.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/lcm/pkg/domain"
)

// Reporter receives the observable milestones of a run.
// A Reporter error never changes the control flow of the run.
type Reporter interface {
	Plan(mode string, actions []domain.Action) error
	Outcome(action domain.Action, records []domain.Record) error
	Summary(actions []domain.Action, results [][]domain.Record) error
}

type nop struct{}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nop{} }

func (nop) Plan(string, []domain.Action) error               { return nil }
func (nop) Outcome(domain.Action, []domain.Record) error     { return nil }
func (nop) Summary([]domain.Action, [][]domain.Record) error { return nil }

// PlanTitle is the heading printed above the plan table.
func PlanTitle(mode string) string {
	return fmt.Sprintf("Actions to be performed for mode '%s'", mode)
}

// OutcomeTitle is the heading printed above a brick's result table.
func OutcomeTitle(action domain.Action) string {
	return "Result of " + action.Name()
}

// Columns returns the labels of the first record, which define the columns
// of a result table. Labels of later records that are not in this list are
// not shown.
func Columns(records []domain.Record) []string {
	if len(records) == 0 {
		return nil
	}
	return records[0].Keys()
}

// Headings upper-cases labels for display.
func Headings(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToUpper(l)
	}
	return out
}

// Cells aligns a record to columns. Missing labels render empty.
func Cells(record domain.Record, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = formatValue(record.Get(col))
	}
	return row
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case domain.Params:
		return fmt.Sprint(t.Map())
	default:
		return fmt.Sprint(v)
	}
}

// describe mirrors how plans have always shown undocumented bricks.
func describe(a domain.Action) string {
	if d := a.Description(); d != "" {
		return d
	}
	return "false"
}
