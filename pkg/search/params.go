package search

import (
	"maps"
	"slices"
)

// Params is the search object of a location.
// Values are either string or nested Params.
// Operations in this package never mutate their inputs.
type Params map[string]any

// Updater computes a search update from the current search.
// The returned keys are merged over the current search.
type Updater func(current Params) Params

// Filter is a pure transform applied to a merged search before validation.
type Filter func(Params) Params

// Set returns an Updater that sets the given values, keeping everything else.
func Set(values Params) Updater {
	return func(Params) Params {
		return values.Clone()
	}
}

// Keep returns an Updater that keeps the current search unchanged.
func Keep() Updater {
	return func(Params) Params {
		return nil
	}
}

// Clone returns a deep copy of p. Nested maps are copied; strings are shared.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Params:
		return t.Clone()
	case map[string]any:
		return Params(t).Clone()
	default:
		return v
	}
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns the string stored under key.
// Returns false if the key is absent or holds a nested object.
func (p Params) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Object returns the nested object stored under key.
func (p Params) Object(key string) (Params, bool) {
	return AsParams(p[key])
}

// Keys returns the top-level keys in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// With returns a copy of p with key set to value.
func (p Params) With(key string, value any) Params {
	out := p.Clone()
	out[key] = cloneValue(value)
	return out
}

// AsParams converts a nested value into Params.
// Both Params and plain map[string]any are accepted.
func AsParams(v any) (Params, bool) {
	switch t := v.(type) {
	case Params:
		return t, true
	case map[string]any:
		return Params(t), true
	default:
		return nil, false
	}
}

// Merge returns {...current, ...update}: a shallow merge where update wins.
// Neither argument is modified.
func Merge(current, update Params) Params {
	out := current.Clone()
	for k, v := range update {
		out[k] = cloneValue(v)
	}
	return out
}

// Apply runs fn against a copy of current and merges its result over current.
// A nil fn keeps the current search.
func Apply(current Params, fn Updater) Params {
	if fn == nil {
		return current.Clone()
	}
	return Merge(current, fn(current.Clone()))
}

// ApplyFilters runs filters left to right, each seeing the previous output.
// Nil filters are skipped.
func ApplyFilters(p Params, filters ...Filter) Params {
	out := p.Clone()
	for _, f := range filters {
		if f == nil {
			continue
		}
		out = f(out.Clone())
		if out == nil {
			out = Params{}
		}
	}
	return out
}

// Force returns a Filter that overwrites key with value on every search.
func Force(key string, value any) Filter {
	return func(p Params) Params {
		return p.With(key, value)
	}
}
