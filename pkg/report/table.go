package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aretw0/lcm/pkg/domain"
)

// TableReporter prints human-readable boxed tables.
type TableReporter struct {
	w      io.Writer
	border lipgloss.Border
}

// TableOption configures a TableReporter.
type TableOption func(*TableReporter)

// WithBorder overrides the border used for every table.
func WithBorder(b lipgloss.Border) TableOption {
	return func(r *TableReporter) {
		r.border = b
	}
}

// NewTable creates a reporter writing tables to w.
func NewTable(w io.Writer, opts ...TableOption) *TableReporter {
	r := &TableReporter{w: w, border: lipgloss.NormalBorder()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TableReporter) Plan(mode string, actions []domain.Action) error {
	rows := make([][]string, len(actions))
	for i, a := range actions {
		rows[i] = []string{strconv.Itoa(i), a.Name(), describe(a)}
	}
	_, err := fmt.Fprintln(r.w, r.render(PlanTitle(mode), []string{"#", "NAME", "DESCRIPTION"}, rows))
	return err
}

func (r *TableReporter) Outcome(action domain.Action, records []domain.Record) error {
	if _, err := fmt.Fprintln(r.w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.w, r.outcome(action, records))
	return err
}

func (r *TableReporter) Summary(actions []domain.Action, results [][]domain.Record) error {
	if _, err := fmt.Fprint(r.w, "\nSUMMARY\n\n"); err != nil {
		return err
	}
	for i, a := range actions {
		var records []domain.Record
		if i < len(results) {
			records = results[i]
		}
		if _, err := fmt.Fprintf(r.w, "%s\n\n", r.outcome(a, records)); err != nil {
			return err
		}
	}
	return nil
}

func (r *TableReporter) outcome(action domain.Action, records []domain.Record) string {
	columns := Columns(records)
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = Cells(rec, columns)
	}
	return r.render(OutcomeTitle(action), Headings(columns), rows)
}

// render draws a title box stacked on top of the table body.
// Without columns there is nothing to draw below the title.
func (r *TableReporter) render(title string, headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return lipgloss.NewStyle().
			Border(r.border).
			Padding(0, 1).
			Render(title)
	}

	t := table.New().
		Border(r.border).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...)

	body := t.String()
	width := lipgloss.Width(body)
	if inner := width - 2; inner > lipgloss.Width(title)+2 {
		return lipgloss.JoinVertical(lipgloss.Left, r.titleBox(title, inner), body)
	}

	// Title is wider than the table: let the title set the width.
	return lipgloss.JoinVertical(lipgloss.Left, r.titleBox(title, lipgloss.Width(title)+2), body)
}

func (r *TableReporter) titleBox(title string, inner int) string {
	return lipgloss.NewStyle().
		Border(r.border, true, true, false, true).
		Width(inner).
		Align(lipgloss.Center).
		Render(title)
}
