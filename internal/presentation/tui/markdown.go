package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/lcm/internal/dto"
)

// DescribeMarkdown renders a mode as a markdown document.
func DescribeMarkdown(mode dto.ModeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Mode `%s`\n\n", mode.Name)
	if mode.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", mode.Description)
	}

	for i, a := range mode.Actions {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, a.Name)
		if a.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", a.Description)
		}
		if len(a.Params) == 0 {
			continue
		}
		b.WriteString("| Param | Type | Required | Default | Description |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, p := range a.Params {
			def := ""
			if p.Default != nil {
				def = fmt.Sprintf("`%v`", p.Default)
			}
			req := ""
			if p.Required {
				req = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n", p.Name, p.Type, req, def, p.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
