// Package search models the query-string state attached to a navigation.
//
// A [Params] value is an immutable map of string values and nested [Params].
// Navigations derive the next search from the current one in three steps:
//
//	next := search.Apply(current, func(cur search.Params) search.Params {
//	    return search.Params{"foo": "bar"}
//	})
//	next = search.ApplyFilters(next, route.PreSearchFilters...)
//
// [Apply] shallow-merges the update over the current search, with the update
// winning key conflicts. Filters run afterwards, left to right, and may
// overwrite merged values.
//
// # Query Codec
//
// Nested objects are flattened into dotted keys on the wire:
//
//	search.Params{"filters": search.Params{"nested": "x"}}.Encode()
//	// filters.nested=x
//
// [Decode] reverses the flattening. Every decoded value is a string.
package search
