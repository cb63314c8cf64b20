package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/pkg/domain"
)

// RunOverlay marks the progress of a stored run on the flowchart.
type RunOverlay struct {
	Completed int // number of bricks that finished
	Failed    bool
}

// OverlayFromRun derives the overlay of a run record.
func OverlayFromRun(rec *domain.RunRecord) *RunOverlay {
	return &RunOverlay{
		Completed: len(rec.Steps),
		Failed:    rec.Status == domain.RunStatusFailed,
	}
}

// GenerateMermaid produces a Mermaid flowchart for a mode.
// The mode is a circle, each brick a subroutine box listing the parameters it
// declares, in execution order. Required parameters carry a trailing '*'.
func GenerateMermaid(mode dto.ModeInfo, overlay *RunOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start := sanitizeMermaidID(mode.Name)
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", start, escape(mode.Name))

	prev := start
	for i, a := range mode.Actions {
		id := fmt.Sprintf("s%d_%s", i, sanitizeMermaidID(a.Name))

		label := escape(a.Name)
		if len(a.Params) > 0 {
			params := make([]string, len(a.Params))
			for j, p := range a.Params {
				params[j] = escape(p.String())
			}
			label += " <br/> " + strings.Join(params, ", ")
		}
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", id, label)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id
	}

	if overlay != nil {
		sb.WriteString("\n    %% Run Overlay\n")
		sb.WriteString("    classDef done fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		for i, a := range mode.Actions {
			id := fmt.Sprintf("s%d_%s", i, sanitizeMermaidID(a.Name))
			switch {
			case i < overlay.Completed:
				fmt.Fprintf(&sb, "    class %s done;\n", id)
			case i == overlay.Completed && overlay.Failed:
				fmt.Fprintf(&sb, "    class %s failed;\n", id)
			}
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
