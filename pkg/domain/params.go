package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Params is the parameter context threaded through a pipeline run.
// Keys are lowercase at every nesting depth; values are scalars, nested Params
// or []any sequences of those.
type Params map[string]any

// NewParams normalizes a raw top-level mapping into Params.
// A nil input yields an empty, writable context.
func NewParams(raw map[string]any) Params {
	if raw == nil {
		return Params{}
	}
	return normalizeMap(raw)
}

// Normalize canonicalizes an arbitrary nested structure.
// Mappings become Params with lower-cased keys, sequences become []any and
// every other value is returned unchanged.
func Normalize(raw any) any {
	switch v := raw.(type) {
	case Params:
		return normalizeMap(v)
	case map[string]any:
		return normalizeMap(v)
	case map[string]string:
		out := make(Params, len(v))
		for _, k := range sortedKeys(v) {
			out[strings.ToLower(k)] = v[k]
		}
		return out
	case map[any]any:
		named := make(map[string]any, len(v))
		for k, val := range v {
			named[fmt.Sprint(k)] = val
		}
		return normalizeMap(named)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeMap(item)
		}
		return out
	case []Params:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeMap(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		return raw
	}
}

// normalizeMap lower-cases keys. When several keys fold to the same name,
// the one sorting last byte-wise wins, so the all-lowercase spelling beats
// any spelling with capitals.
func normalizeMap(m map[string]any) Params {
	out := make(Params, len(m))
	for _, k := range sortedKeys(m) {
		out[strings.ToLower(k)] = Normalize(m[k])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the value stored under key, ignoring case.
func (p Params) Lookup(key string) (any, bool) {
	v, ok := p[strings.ToLower(key)]
	return v, ok
}

// Get returns the value stored under key or nil when it is absent.
// Bricks use it to read optional configuration without existence checks.
func (p Params) Get(key string) any {
	v, _ := p.Lookup(key)
	return v
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// String returns the value under key formatted as a string, or "".
func (p Params) String(key string) string {
	switch v := p.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value under key as a bool. Strings are parsed leniently.
func (p Params) Bool(key string) bool {
	switch v := p.Get(key).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Int returns the value under key as an int, or 0 when it is absent or not numeric.
func (p Params) Int(key string) int {
	switch v := p.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// Params returns the nested mapping under key, or an empty Params.
func (p Params) Params(key string) Params {
	if v, ok := p.Get(key).(Params); ok {
		return v
	}
	return Params{}
}

// List returns the sequence under key, or nil.
func (p Params) List(key string) []any {
	if v, ok := p.Get(key).([]any); ok {
		return v
	}
	return nil
}

// Set stores value under the lower-cased key, normalizing the value.
func (p Params) Set(key string, value any) {
	p[strings.ToLower(key)] = Normalize(value)
}

// Merge overwrites top-level keys of p with the normalized delta.
// Nested mappings are replaced as a whole, not merged recursively.
func (p Params) Merge(delta map[string]any) {
	for k, v := range NewParams(delta) {
		p[k] = v
	}
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return normalizeMap(p)
}

// Map returns p as plain nested maps, suitable for encoders that do not know Params.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case Params:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// Decode copies the params into out, which must be a pointer to a struct or map.
// Field names are matched through `mapstructure` tags; scalar types are coerced.
func (p Params) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(p.Map()); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
