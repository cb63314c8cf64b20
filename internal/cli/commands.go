package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/internal/presentation/graph"
	"github.com/aretw0/lcm/internal/presentation/tui"
	"github.com/aretw0/lcm/pkg/config"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/aretw0/lcm/pkg/registry"
)

// LoadParams merges the params file (if any) with the inline JSON. Inline keys win.
func LoadParams(path, inline string) (map[string]any, error) {
	var fromFile map[string]any
	if path != "" {
		var err error
		fromFile, err = config.LoadParams(path)
		if err != nil {
			return nil, err
		}
	}
	fromFlag, err := config.ParseInline(inline)
	if err != nil {
		return nil, err
	}
	return config.Merge(fromFile, fromFlag), nil
}

// RunMode performs mode through the harness and writes a one-line status to status.
func RunMode(ctx context.Context, app *App, mode string, params map[string]any, status io.Writer) error {
	rec, err := app.Engine.Run(ctx, mode, params)
	if rec != nil && status != nil {
		fmt.Fprintf(status, "run %s %s (%d/%d actions)\n", rec.ID, rec.Status, len(rec.Steps), modeLen(app.Engine.Registry(), mode))
	}
	return err
}

func modeLen(reg *registry.Registry, mode string) int {
	m, err := reg.Mode(mode)
	if err != nil {
		return 0
	}
	return len(m.Actions)
}

// Describe writes the markdown description of mode, rendered when styled.
func Describe(w io.Writer, reg *registry.Registry, mode string, styled bool) error {
	m, err := reg.Mode(mode)
	if err != nil {
		return err
	}
	render, err := tui.NewRenderer(styled)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := render(tui.DescribeMarkdown(dto.Describe(m)))
	if err != nil {
		return fmt.Errorf("failed to render description: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Graph writes the Mermaid flowchart of mode. A non-empty runID overlays that run's progress.
func Graph(ctx context.Context, w io.Writer, reg *registry.Registry, store ports.RunStore, mode, runID string) error {
	m, err := reg.Mode(mode)
	if err != nil {
		return err
	}

	var overlay *graph.RunOverlay
	if runID != "" {
		rec, err := store.Load(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load run '%s': %w", runID, err)
		}
		if rec.Mode != mode {
			return fmt.Errorf("run '%s' belongs to mode '%s', not '%s'", runID, rec.Mode, mode)
		}
		overlay = graph.OverlayFromRun(rec)
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(dto.Describe(m), overlay))
	return err
}

// ListRuns writes a table of stored runs, oldest first.
func ListRuns(ctx context.Context, w io.Writer, store ports.RunStore) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rec, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load run '%s': %w", id, err)
		}
		s := dto.SummarizeRun(rec)
		rows = append(rows, []string{s.ID, s.Mode, string(s.Status), s.StartedAt, strconv.Itoa(s.Steps)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "MODE", "STATUS", "STARTED", "STEPS").
		Rows(rows...)
	_, err = fmt.Fprintln(w, t.Render())
	return err
}

// InspectRun writes the stored record as indented JSON, followed by what the
// run changed in the parameter context.
func InspectRun(ctx context.Context, w io.Writer, store ports.RunStore, id string) error {
	rec, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run '%s': %w", id, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	fmt.Fprintln(w, string(data))

	diff := domain.DiffParams(rec.Params, rec.Final)
	if diff.IsEmpty() {
		return nil
	}
	fmt.Fprintln(w, "\nParameter changes:")
	for _, k := range diff.Keys() {
		if v, ok := diff.Added[k]; ok {
			fmt.Fprintf(w, "  + %s = %v\n", k, v)
		} else if v, ok := diff.Changed[k]; ok {
			fmt.Fprintf(w, "  ~ %s = %v\n", k, v)
		} else {
			fmt.Fprintf(w, "  - %s\n", k)
		}
	}
	return nil
}

// RemoveRuns deletes each run. It keeps going past failures and reports them together.
func RemoveRuns(ctx context.Context, w io.Writer, store ports.RunStore, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Removed run '%s'\n", id)
	}
	return errors.Join(errs...)
}
