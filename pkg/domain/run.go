package domain

import "time"

// RunStatus defines the final or current status of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord is the audit entry of one pipeline run.
// It is written for operators; it is never used to resume a run.
type RunRecord struct {
	ID         string         `json:"id"`
	Mode       string         `json:"mode"`
	Status     RunStatus      `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	Final      map[string]any `json:"final_params,omitempty"`
	Steps      []StepRecord   `json:"steps"`
	Error      string         `json:"error,omitempty"`
}

// StepRecord captures the output of one completed brick.
type StepRecord struct {
	Index   int      `json:"index"`
	Action  string   `json:"action"`
	Results []Record `json:"results"`
}

// NewRunRecord creates a running record for mode.
func NewRunRecord(id, mode string, params Params) *RunRecord {
	return &RunRecord{
		ID:        id,
		Mode:      mode,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
		Params:    params.Map(),
		Steps:     []StepRecord{},
	}
}

// Finish stamps the record with its end time and outcome.
func (r *RunRecord) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusSucceeded
}

// Results returns the per-step records in execution order.
func (r *RunRecord) Results() [][]Record {
	out := make([][]Record, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Results
	}
	return out
}
