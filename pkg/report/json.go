package report

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/aretw0/lcm/pkg/domain"
)

// Event is one line emitted by the JSON reporter.
type Event struct {
	Event   string          `json:"event"`
	Mode    string          `json:"mode,omitempty"`
	Action  string          `json:"action,omitempty"`
	Actions []PlanEntry     `json:"actions,omitempty"`
	Results []domain.Record `json:"results,omitempty"`
	Summary []SummaryEntry  `json:"summary,omitempty"`
}

// PlanEntry describes one planned brick.
type PlanEntry struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SummaryEntry pairs a brick with its records.
type SummaryEntry struct {
	Action  string          `json:"action"`
	Results []domain.Record `json:"results"`
}

// JSONReporter writes one JSON object per milestone (JSON Lines).
type JSONReporter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSON creates a JSON Lines reporter writing to w.
func NewJSON(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

func (r *JSONReporter) Plan(mode string, actions []domain.Action) error {
	entries := make([]PlanEntry, len(actions))
	for i, a := range actions {
		entries[i] = PlanEntry{Index: i, Name: a.Name(), Description: a.Description()}
	}
	return r.emit(Event{Event: "plan", Mode: mode, Actions: entries})
}

func (r *JSONReporter) Outcome(action domain.Action, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	return r.emit(Event{Event: "outcome", Action: action.Name(), Results: records})
}

func (r *JSONReporter) Summary(actions []domain.Action, results [][]domain.Record) error {
	entries := make([]SummaryEntry, len(actions))
	for i, a := range actions {
		entries[i] = SummaryEntry{Action: a.Name(), Results: []domain.Record{}}
		if i < len(results) && results[i] != nil {
			entries[i].Results = results[i]
		}
	}
	return r.emit(Event{Event: "summary", Summary: entries})
}

func (r *JSONReporter) emit(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(e)
}
