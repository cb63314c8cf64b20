package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one row of brick output: an ordered mapping from label to value.
// Copies of a Record are independent: Set never writes through to storage
// another copy can see.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from alternating label/value pairs.
// A trailing label without a value is stored with a nil value.
func NewRecord(kv ...any) Record {
	var r Record
	for i := 0; i < len(kv); i += 2 {
		label := fmt.Sprint(kv[i])
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		r.set(label, value)
	}
	return r
}

// RecordFromMap builds a record from a map. Labels are sorted so the
// resulting column order is stable.
func RecordFromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var r Record
	for _, k := range keys {
		r.set(k, m[k])
	}
	return r
}

// Set assigns value to label, appending the label if it is new.
// The record gets its own storage first, so other copies are unaffected.
func (r *Record) Set(label string, value any) {
	keys := make([]string, len(r.keys), len(r.keys)+1)
	copy(keys, r.keys)
	values := make(map[string]any, len(r.values)+1)
	for k, v := range r.values {
		values[k] = v
	}
	r.keys, r.values = keys, values
	r.set(label, value)
}

// set mutates in place; only for records nothing else references yet.
func (r *Record) set(label string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[label]; !exists {
		r.keys = append(r.keys, label)
	}
	r.values[label] = value
}

// Get returns the value for label, or nil.
func (r Record) Get(label string) any {
	return r.values[label]
}

// Lookup returns the value for label and whether it exists.
func (r Record) Lookup(label string) (any, bool) {
	v, ok := r.values[label]
	return v, ok
}

// Keys returns the labels in insertion order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of labels.
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns the record as an unordered map.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k]
	}
	return out
}

// MarshalJSON encodes the record as a JSON object, preserving label order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("record label %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving label order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record label must be a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record label %q: %w", label, err)
		}
		r.set(label, value)
	}
	_, err = dec.Token()
	return err
}
