package domain

import (
	"reflect"
	"sort"
)

// ParamsDiff represents the top-level changes between two parameter contexts.
type ParamsDiff struct {
	// Added holds keys absent from the old context.
	Added map[string]any `json:"added,omitempty"`
	// Changed holds keys whose value differs, with the new value.
	Changed map[string]any `json:"changed,omitempty"`
	// Removed lists keys present only in the old context.
	Removed []string `json:"removed,omitempty"`
}

// DiffParams compares old and new at the top level, the same granularity
// Merge works at. A nil old context treats every key of new as added.
func DiffParams(old, new map[string]any) *ParamsDiff {
	diff := &ParamsDiff{}

	for k, newVal := range new {
		oldVal, exists := old[k]
		switch {
		case !exists:
			if diff.Added == nil {
				diff.Added = make(map[string]any)
			}
			diff.Added[k] = newVal
		case !reflect.DeepEqual(oldVal, newVal):
			if diff.Changed == nil {
				diff.Changed = make(map[string]any)
			}
			diff.Changed[k] = newVal
		}
	}

	for k := range old {
		if _, exists := new[k]; !exists {
			diff.Removed = append(diff.Removed, k)
		}
	}
	sort.Strings(diff.Removed)

	return diff
}

// IsEmpty reports whether the diff contains any change.
func (d *ParamsDiff) IsEmpty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0)
}

// Keys returns every touched key, sorted.
func (d *ParamsDiff) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Added)+len(d.Changed)+len(d.Removed))
	for k := range d.Added {
		keys = append(keys, k)
	}
	for k := range d.Changed {
		keys = append(keys, k)
	}
	keys = append(keys, d.Removed...)
	sort.Strings(keys)
	return keys
}
