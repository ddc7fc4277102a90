package search

import (
	"cmp"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// separator joins nested keys on the wire.
const separator = "."

// Decode builds Params from url.Values.
// Dotted keys become nested objects; the first value of a repeated key wins.
// When a scalar and a nested key collide ("a=1&a.b=2"), the nested object wins.
func Decode(values url.Values) Params {
	out := Params{}
	for _, key := range sortedKeys(values) {
		vals := values[key]
		if len(vals) == 0 || key == "" {
			continue
		}
		setPath(out, strings.Split(key, separator), vals[0])
	}
	return out
}

// ParseQuery decodes a raw query string.
func ParseQuery(raw string) (Params, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("search: parse query: %w", err)
	}
	return Decode(values), nil
}

// Values flattens p into url.Values using dotted keys for nested objects.
func (p Params) Values() url.Values {
	values := url.Values{}
	flatten(values, "", p)
	return values
}

// Encode returns the query string form of p with keys sorted.
func (p Params) Encode() string {
	return p.Values().Encode()
}

func setPath(dst Params, path []string, value string) {
	head := path[0]
	if len(path) == 1 {
		if _, nested := dst[head].(Params); nested {
			return
		}
		dst[head] = value
		return
	}
	child, ok := dst[head].(Params)
	if !ok {
		child = Params{}
		dst[head] = child
	}
	setPath(child, path[1:], value)
}

func flatten(dst url.Values, prefix string, p Params) {
	for k, v := range p {
		key := k
		if prefix != "" {
			key = prefix + separator + k
		}
		if nested, ok := AsParams(v); ok {
			flatten(dst, key, nested)
			continue
		}
		dst.Set(key, fmt.Sprint(v))
	}
}

// sortedKeys orders keys by nesting depth, then lexically, so nested keys
// are applied after the scalars they may replace.
func sortedKeys(values url.Values) []string {
	keys := slices.Collect(maps.Keys(values))
	slices.SortFunc(keys, func(a, b string) int {
		if d := cmp.Compare(strings.Count(a, separator), strings.Count(b, separator)); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	return keys
}
