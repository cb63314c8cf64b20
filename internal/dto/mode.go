// Package dto holds the wire shapes shared by the HTTP, MCP and CLI surfaces.
package dto

import (
	"fmt"
	"time"

	"github.com/aretw0/lcm/pkg/domain"
)

// ModeSummary is the short listing form of a mode.
type ModeSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Actions     []string `json:"actions" yaml:"actions"`
}

// ModeInfo is the detailed form of a mode.
type ModeInfo struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Actions     []ActionInfo `json:"actions" yaml:"actions"`
}

// ActionInfo describes one brick.
type ActionInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []ParamInfo `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParamInfo describes one declared brick parameter.
type ParamInfo struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// RunSummary is the listing form of a stored run.
type RunSummary struct {
	ID         string           `json:"id"`
	Mode       string           `json:"mode"`
	Status     domain.RunStatus `json:"status"`
	StartedAt  string           `json:"started_at"`
	FinishedAt string           `json:"finished_at,omitempty"`
	Steps      int              `json:"steps"`
}

// Summarize builds the listing form of m.
func Summarize(m domain.Mode) ModeSummary {
	return ModeSummary{Name: m.Name, Description: m.Description, Actions: m.ActionNames()}
}

// Describe builds the detailed form of m.
func Describe(m domain.Mode) ModeInfo {
	info := ModeInfo{
		Name:        m.Name,
		Description: m.Description,
		Actions:     make([]ActionInfo, len(m.Actions)),
	}
	for i, a := range m.Actions {
		info.Actions[i] = DescribeAction(a)
	}
	return info
}

// DescribeAction builds the detailed form of a brick.
func DescribeAction(a domain.Action) ActionInfo {
	ai := ActionInfo{Name: a.Name(), Description: a.Description()}
	d, ok := a.(domain.ParamDeclarer)
	if !ok {
		return ai
	}
	for _, spec := range d.Params() {
		p := ParamInfo{
			Name:        spec.Name,
			Required:    spec.Required,
			Default:     spec.Default,
			Description: spec.Description,
		}
		if spec.Type != nil {
			p.Type = spec.Type.Name()
		}
		ai.Params = append(ai.Params, p)
	}
	return ai
}

// SummarizeRun builds the listing form of a run record.
func SummarizeRun(r *domain.RunRecord) RunSummary {
	s := RunSummary{
		ID:        r.ID,
		Mode:      r.Mode,
		Status:    r.Status,
		StartedAt: r.StartedAt.Format(time.RFC3339),
		Steps:     len(r.Steps),
	}
	if !r.FinishedAt.IsZero() {
		s.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return s
}

// String renders a param for one-line listings, e.g. "organization*: string".
func (p ParamInfo) String() string {
	name := p.Name
	if p.Required {
		name += "*"
	}
	if p.Type == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", name, p.Type)
}
