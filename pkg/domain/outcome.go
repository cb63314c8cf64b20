package domain

import (
	"fmt"
	"strings"
)

// OutcomeKind discriminates the two shapes a brick may return.
type OutcomeKind int

const (
	// OutcomeInvalid is the zero kind. The executor rejects it as malformed.
	OutcomeInvalid OutcomeKind = iota
	// OutcomeRecords carries result records only; the context is left untouched.
	OutcomeRecords
	// OutcomeStructured carries result records and a parameter delta.
	OutcomeStructured
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRecords:
		return "records"
	case OutcomeStructured:
		return "structured"
	default:
		return "invalid"
	}
}

// Outcome is what a brick returns from Call.
type Outcome struct {
	Kind    OutcomeKind
	Results []Record
	Params  map[string]any
}

// Records builds a bare-sequence outcome.
func Records(records ...Record) Outcome {
	if records == nil {
		records = []Record{}
	}
	return Outcome{Kind: OutcomeRecords, Results: records}
}

// StructuredOutcome builds an outcome carrying a parameter delta.
func StructuredOutcome(records []Record, params map[string]any) Outcome {
	return Outcome{Kind: OutcomeStructured, Results: records, Params: params}
}

// Split returns the result records and the parameter delta, applying the
// defaults of each shape: a bare sequence has an empty delta, a structured
// outcome defaults missing fields to empty values.
func (o Outcome) Split() ([]Record, map[string]any, error) {
	switch o.Kind {
	case OutcomeRecords:
		if o.Results == nil {
			return []Record{}, map[string]any{}, nil
		}
		return o.Results, map[string]any{}, nil
	case OutcomeStructured:
		records := o.Results
		if records == nil {
			records = []Record{}
		}
		params := o.Params
		if params == nil {
			params = map[string]any{}
		}
		return records, params, nil
	default:
		return nil, nil, &MalformedOutcomeError{Got: o}
	}
}

// OutcomeFrom classifies an untyped outcome, typically decoded JSON returned by
// an external collaborator. A sequence of mappings becomes a records outcome;
// a mapping with "results" and/or "params" becomes a structured outcome.
func OutcomeFrom(raw any) (Outcome, error) {
	switch v := raw.(type) {
	case Outcome:
		if v.Kind == OutcomeInvalid {
			return Outcome{}, &MalformedOutcomeError{Got: raw}
		}
		return v, nil
	case []Record:
		return Records(v...), nil
	case []any, []map[string]any:
		records, err := recordsFrom(v)
		if err != nil {
			return Outcome{}, &MalformedOutcomeError{Got: raw, Reason: err.Error()}
		}
		return Records(records...), nil
	case map[string]any:
		return structuredFrom(raw, v)
	case Params:
		return structuredFrom(raw, v)
	default:
		return Outcome{}, &MalformedOutcomeError{Got: raw}
	}
}

func structuredFrom(raw any, m map[string]any) (Outcome, error) {
	var resultsRaw, paramsRaw any
	var hasResults, hasParams bool
	for k, v := range m {
		switch strings.ToLower(k) {
		case "results":
			resultsRaw, hasResults = v, true
		case "params":
			paramsRaw, hasParams = v, true
		}
	}
	if !hasResults && !hasParams {
		return Outcome{}, &MalformedOutcomeError{Got: raw, Reason: "mapping has neither results nor params"}
	}

	var records []Record
	if resultsRaw != nil {
		var err error
		records, err = recordsFrom(resultsRaw)
		if err != nil {
			return Outcome{}, &MalformedOutcomeError{Got: raw, Reason: err.Error()}
		}
	}

	var params map[string]any
	switch p := paramsRaw.(type) {
	case nil:
	case map[string]any:
		params = p
	case Params:
		params = p
	default:
		return Outcome{}, &MalformedOutcomeError{Got: raw, Reason: fmt.Sprintf("params must be a mapping, got %T", paramsRaw)}
	}

	return StructuredOutcome(records, params), nil
}

func recordsFrom(raw any) ([]Record, error) {
	var items []any
	switch v := raw.(type) {
	case []Record:
		return v, nil
	case []any:
		items = v
	case []map[string]any:
		items = make([]any, len(v))
		for i, m := range v {
			items[i] = m
		}
	default:
		return nil, fmt.Errorf("results must be a sequence, got %T", raw)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		switch m := item.(type) {
		case Record:
			records = append(records, m)
		case map[string]any:
			records = append(records, RecordFromMap(m))
		case Params:
			records = append(records, RecordFromMap(m))
		default:
			return nil, fmt.Errorf("result %d must be a mapping, got %T", i, item)
		}
	}
	return records, nil
}
